package summarizer

import (
	"strings"
	"testing"
)

func TestSummarizeSelectsSentencesInOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "France is a country in Europe. Paris is the capital of France. " +
		"France borders Italy and Spain. The weather was cloudy yesterday. " +
		"French wine from France is famous across France."
	summary := s.Summarize(text, 2)
	if summary == "" {
		t.Fatal("summary should not be empty")
	}
	count := 0
	for _, sent := range strings.SplitAfter(summary, ".") {
		if strings.TrimSpace(sent) != "" {
			count++
		}
	}
	if count > 2 {
		t.Errorf("summary has %d sentences, want at most 2: %q", count, summary)
	}
	if !strings.Contains(text, strings.Split(summary, ". ")[0]) {
		t.Errorf("summary sentences must come from the input, got %q", summary)
	}
}

func TestSummarizeShortText(t *testing.T) {
	s := NewFrequencySummarizer()
	if got := s.Summarize("No sentence punctuation here", 3); got != "No sentence punctuation here" {
		t.Errorf("text without sentences should pass through, got %q", got)
	}
}
