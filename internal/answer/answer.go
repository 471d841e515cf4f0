// Package answer forwards retrieved passages plus the user's question
// to a language model and returns its free-text answer.
package answer

import (
	"context"
	"strings"
)

// InsufficientContext is the exact phrase the model is told to reply
// with when the retrieved passages do not contain the answer, so the
// caller can distinguish "no answer" from an answer.
const InsufficientContext = "INSUFFICIENT CONTEXT"

// Answerer produces an answer to question from passages supplied in
// ranked order. Implementations return the empty string when answer
// generation is disabled.
type Answerer interface {
	Answer(ctx context.Context, question string, passages []string) (string, error)
}

// Disabled is an Answerer that generates nothing, for retrieval-only
// operation without an API key.
type Disabled struct{}

func (Disabled) Answer(context.Context, string, []string) (string, error) { return "", nil }

// passageDelimiter separates passages in the prompt so the model sees
// their boundaries.
const passageDelimiter = "\n---\n"

// BuildPrompt assembles the user prompt: passages in ranked order with
// explicit delimiters, then the question.
func BuildPrompt(question string, passages []string) string {
	var b strings.Builder
	b.WriteString("Context passages, most relevant first:\n")
	b.WriteString(passageDelimiter)
	for _, p := range passages {
		b.WriteString(strings.TrimSpace(p))
		b.WriteString(passageDelimiter)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}
