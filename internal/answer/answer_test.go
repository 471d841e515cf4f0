package answer

import (
	"context"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	passages := []string{
		"Paris is the capital of France.",
		"Lyon is a city in France.",
	}
	prompt := BuildPrompt("What is the capital of France?", passages)

	if !strings.Contains(prompt, "Question: What is the capital of France?") {
		t.Error("prompt missing the question")
	}
	first := strings.Index(prompt, passages[0])
	second := strings.Index(prompt, passages[1])
	if first < 0 || second < 0 {
		t.Fatal("prompt missing a passage")
	}
	if first > second {
		t.Error("passages must appear in ranked order")
	}
	between := prompt[first+len(passages[0]) : second]
	if !strings.Contains(between, "---") {
		t.Error("passages must be separated by a delimiter")
	}
}

func TestDisabledAnswerer(t *testing.T) {
	text, err := Disabled{}.Answer(context.Background(), "anything", []string{"passage"})
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("disabled answerer should return empty text, got %q", text)
	}
}
