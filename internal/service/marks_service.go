package service

import (
	"fmt"
	"math"

	"github.com/lshigami/gradepro/config"
	"github.com/lshigami/gradepro/internal/model"
)

// MarksCalculator converts a RatingSet into marks for one question using the
// weighted-credit rubric: each 0-100 rating is normalized to a 0-10 grade,
// the grades are credit-weighted into a CGPA, the CGPA is mapped to a
// percentage with the configured multiplier, and the percentage is scaled to
// the question's maximum marks.
type MarksCalculator struct {
	credits    []float64
	multiplier float64
}

// NewMarksCalculator validates the weight vector once at construction; a
// zero or empty vector would divide by zero per question, so it fails the
// whole wiring instead.
func NewMarksCalculator(cfg *config.Config) (*MarksCalculator, error) {
	total := 0.0
	for _, c := range cfg.Grading.CreditWeights {
		total += c
	}
	if len(cfg.Grading.CreditWeights) == 0 || total == 0 {
		return nil, fmt.Errorf("grading credit weights must be non-empty with a non-zero sum, got %v", cfg.Grading.CreditWeights)
	}
	return &MarksCalculator{
		credits:    cfg.Grading.CreditWeights,
		multiplier: cfg.Grading.CgpaMultiplier,
	}, nil
}

// MarksObtained returns the marks for one question, rounded to the nearest
// whole number. Ratings are bounded to [0,100], so the result never exceeds
// maxMarks.
func (c *MarksCalculator) MarksObtained(ratings model.RatingSet, maxMarks float64) float64 {
	grades := []float64{
		ratings.Keyword / 10,
		ratings.Content / 10,
		ratings.Grammar / 10,
		ratings.Length / 10,
	}

	totalCredits := 0.0
	weighted := 0.0
	for i, credit := range c.credits {
		totalCredits += credit
		if i < len(grades) {
			weighted += grades[i] * credit
		}
	}

	cgpa := weighted / totalCredits
	percentage := cgpa * c.multiplier
	return math.Round(percentage / 100 * maxMarks)
}

// RoundTotal rounds a summed total to two decimal places for the report.
func RoundTotal(total float64) float64 {
	return math.Round(total*100) / 100
}
