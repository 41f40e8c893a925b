package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lshigami/gradepro/internal/metrics"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/rs/zerolog/log"
)

// RatingService obtains the four 0-100 quality ratings for one answer pair.
// Every dimension is an independent call; a failure in one defaults that
// dimension alone, it never aborts the question.
type RatingService interface {
	RateAnswer(ctx context.Context, studentAnswer, teacherAnswer string, wordLimit int) model.RatingSet
}

type ratingService struct {
	llm LLMService
}

func NewRatingService(llm LLMService) RatingService {
	return &ratingService{llm: llm}
}

const assessmentSystemPrompt = "You are an educational assessment expert. Analyze precisely and numerically."
const grammarSystemPrompt = "You are a grammar expert. Analyze precisely and numerically."

type dimensionResult struct {
	dimension string
	rating    float64
}

func (s *ratingService) RateAnswer(ctx context.Context, studentAnswer, teacherAnswer string, wordLimit int) model.RatingSet {
	results := make(chan dimensionResult, 4)

	go func() {
		results <- dimensionResult{"keyword", s.keywordMatching(ctx, studentAnswer, teacherAnswer)}
	}()
	go func() {
		results <- dimensionResult{"content", s.contentRelevance(ctx, studentAnswer, teacherAnswer)}
	}()
	go func() {
		results <- dimensionResult{"grammar", s.grammaticalAccuracy(ctx, studentAnswer)}
	}()
	go func() {
		results <- dimensionResult{"length", s.wordLengthAssessment(ctx, studentAnswer, wordLimit)}
	}()

	var set model.RatingSet
	for i := 0; i < 4; i++ {
		r := <-results
		switch r.dimension {
		case "keyword":
			set.Keyword = r.rating
		case "content":
			set.Content = r.rating
		case "grammar":
			set.Grammar = r.rating
		case "length":
			set.Length = r.rating
		}
	}
	return set
}

func (s *ratingService) keywordMatching(ctx context.Context, studentAnswer, teacherAnswer string) float64 {
	prompt := fmt.Sprintf(`Task: Analyze how many key concepts from the teacher's answer appear in the student's answer.

Teacher's Answer: %s
Student's Answer: %s

Extract the key concepts from the teacher's answer. Then analyze the student's answer to see what percentage of these key concepts are present, including synonyms and related terms.

Return only a numeric percentage between 0 and 100.`, teacherAnswer, studentAnswer)

	return s.queryRating(ctx, "keyword", prompt, assessmentSystemPrompt)
}

func (s *ratingService) contentRelevance(ctx context.Context, studentAnswer, teacherAnswer string) float64 {
	prompt := fmt.Sprintf(`Task: Measure the semantic similarity between a teacher's answer and a student's answer.

Teacher's Answer: %s
Student's Answer: %s

Analyze how well the student's answer captures the meaning and content of the teacher's answer.
Consider semantic relevance beyond just keywords.

Return only a numeric percentage between 0 and 100.`, teacherAnswer, studentAnswer)

	return s.queryRating(ctx, "content", prompt, assessmentSystemPrompt)
}

func (s *ratingService) grammaticalAccuracy(ctx context.Context, studentAnswer string) float64 {
	prompt := fmt.Sprintf(`Task: Evaluate the grammatical correctness of a student's answer.

Student's Answer: %s

Analyze the text for grammatical errors, including:
- Subject-verb agreement
- Verb tense consistency
- Proper use of articles
- Sentence structure
- Punctuation

Return only a numeric percentage between 0 and 100 representing grammatical accuracy.`, studentAnswer)

	return s.queryRating(ctx, "grammar", prompt, grammarSystemPrompt)
}

// wordLengthAssessment asks the model to score word-count adequacy, and when
// the response is unusable computes the percentage locally from the actual
// word count.
func (s *ratingService) wordLengthAssessment(ctx context.Context, studentAnswer string, wordLimit int) float64 {
	prompt := fmt.Sprintf(`Task: Evaluate if a student's answer meets the required word count.

Student's Answer: %s
Minimum required words: %d

1. Count the number of words in the student's answer
2. Calculate what percentage of the minimum word count requirement was met
3. If the word count meets or exceeds the minimum, return 100%%
4. If the word count is less than the minimum, calculate the percentage as: (student_words / minimum_words) * 100

Return only a numeric percentage between 0 and 100.`, studentAnswer, wordLimit)

	if rating, ok := s.tryQueryRating(ctx, prompt, assessmentSystemPrompt); ok {
		return rating
	}

	metrics.RatingFailures.WithLabelValues("length").Inc()
	return lengthRatingFallback(studentAnswer, wordLimit)
}

func lengthRatingFallback(studentAnswer string, wordLimit int) float64 {
	if wordLimit <= 0 {
		return 100.0
	}
	words := len(strings.Fields(studentAnswer))
	if words >= wordLimit {
		return 100.0
	}
	pct := float64(words) / float64(wordLimit) * 100
	if pct < 0 {
		return 0.0
	}
	return pct
}

func (s *ratingService) queryRating(ctx context.Context, dimension, prompt, system string) float64 {
	if rating, ok := s.tryQueryRating(ctx, prompt, system); ok {
		return rating
	}
	metrics.RatingFailures.WithLabelValues(dimension).Inc()
	return 0.0
}

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// tryQueryRating returns the first numeric substring of the model response,
// clamped to [0, 100]. ok is false on transport failure, empty response, or
// a response with no number in it.
func (s *ratingService) tryQueryRating(ctx context.Context, prompt, system string) (float64, bool) {
	resp, err := s.llm.Complete(ctx, prompt, system)
	if err != nil {
		log.Warn().Err(err).Msg("Rating call failed")
		return 0, false
	}

	m := numberRe.FindString(resp)
	if m == "" {
		log.Warn().Str("response", truncateForLog(resp)).Msg("Rating response contained no numeric value")
		return 0, false
	}

	rating, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if rating > 100 {
		rating = 100
	}
	if rating < 0 {
		rating = 0
	}
	return rating, true
}

func truncateForLog(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
