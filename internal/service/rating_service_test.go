package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lshigami/gradepro/internal/service"
)

func TestRateAnswerClampsAboveHundred(t *testing.T) {
	llm := &fakeLLM{resp: "The answer covers roughly 150% of the expected concepts."}
	rater := service.NewRatingService(llm)

	set := rater.RateAnswer(context.Background(), "some answer", "model answer", 100)
	for name, rating := range map[string]float64{
		"keyword": set.Keyword,
		"content": set.Content,
		"grammar": set.Grammar,
		"length":  set.Length,
	} {
		if rating != 100 {
			t.Errorf("%s rating = %v, want clamped 100", name, rating)
		}
	}
}

func TestRateAnswerParsesDecimalRating(t *testing.T) {
	llm := &fakeLLM{resp: "Rating: 72.5 out of 100"}
	rater := service.NewRatingService(llm)

	set := rater.RateAnswer(context.Background(), "answer", "model", 100)
	if set.Keyword != 72.5 || set.Content != 72.5 || set.Grammar != 72.5 {
		t.Errorf("ratings = %+v, want 72.5 across dimensions", set)
	}
}

func TestRateAnswerDefaultsToZeroOnTransportFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("timeout")}
	rater := service.NewRatingService(llm)

	// The answer has 25 words, the limit is 50: the length dimension falls
	// back to the local word-count computation while the others default to 0.
	answer := strings.Repeat("word ", 25)
	set := rater.RateAnswer(context.Background(), strings.TrimSpace(answer), "model answer", 50)

	if set.Keyword != 0 || set.Content != 0 || set.Grammar != 0 {
		t.Errorf("failed dimensions should be 0, got %+v", set)
	}
	if set.Length != 50.0 {
		t.Errorf("length = %v, want 50.0 from the local fallback", set.Length)
	}
}

func TestRateAnswerLengthFallbackNonNumericResponse(t *testing.T) {
	llm := &fakeLLM{resp: "I cannot provide a rating for this."}
	rater := service.NewRatingService(llm)

	answer := strings.TrimSpace(strings.Repeat("word ", 25))
	set := rater.RateAnswer(context.Background(), answer, "model answer", 50)
	if set.Length != 50.0 {
		t.Errorf("length = %v, want 50.0", set.Length)
	}
}

func TestRateAnswerLengthFallbackEdgeCases(t *testing.T) {
	llm := &fakeLLM{err: errors.New("unreachable")}
	rater := service.NewRatingService(llm)
	ctx := context.Background()

	// Non-positive word limit is automatically 100.
	if set := rater.RateAnswer(ctx, "short answer", "model", 0); set.Length != 100.0 {
		t.Errorf("length with zero limit = %v, want 100", set.Length)
	}

	// Meeting the limit is 100.
	long := strings.TrimSpace(strings.Repeat("word ", 60))
	if set := rater.RateAnswer(ctx, long, "model", 50); set.Length != 100.0 {
		t.Errorf("length over limit = %v, want 100", set.Length)
	}

	// An empty answer scores 0.
	if set := rater.RateAnswer(ctx, "", "model", 50); set.Length != 0.0 {
		t.Errorf("length of empty answer = %v, want 0", set.Length)
	}
}
