package service_test

import (
	"testing"

	"github.com/lshigami/gradepro/config"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/lshigami/gradepro/internal/service"
)

func newCalculator(t *testing.T, weights []float64) *service.MarksCalculator {
	t.Helper()
	cfg := &config.Config{}
	cfg.Grading.CreditWeights = weights
	cfg.Grading.CgpaMultiplier = 9.5
	calc, err := service.NewMarksCalculator(cfg)
	if err != nil {
		t.Fatalf("NewMarksCalculator(%v) returned error: %v", weights, err)
	}
	return calc
}

func TestMarksObtainedWeightedFormula(t *testing.T) {
	// Grades 8, 10, 10 with credits 4, 3, 2:
	// weighted = 8*4 + 10*3 + 10*2 = 82, cgpa = 82/9 = 9.111...,
	// percentage = 86.555..., marks = round(86.555...) = 87 of 100.
	calc := newCalculator(t, []float64{4, 3, 2})
	ratings := model.RatingSet{Keyword: 80, Content: 100, Grammar: 100, Length: 0}

	got := calc.MarksObtained(ratings, 100)
	if got != 87 {
		t.Errorf("MarksObtained = %v, want 87", got)
	}
}

func TestMarksObtainedPerfectRatings(t *testing.T) {
	calc := newCalculator(t, []float64{4, 3, 2, 1})
	ratings := model.RatingSet{Keyword: 100, Content: 100, Grammar: 100, Length: 100}

	// cgpa = 10, percentage = 95, scaled to 10 marks = 9.5 -> rounds to 10.
	got := calc.MarksObtained(ratings, 10)
	if got != 10 {
		t.Errorf("MarksObtained = %v, want 10", got)
	}
}

func TestMarksObtainedNeverExceedsMax(t *testing.T) {
	calc := newCalculator(t, []float64{4, 3, 2, 1})
	ratings := model.RatingSet{Keyword: 100, Content: 100, Grammar: 100, Length: 100}

	for _, max := range []float64{1, 5, 10, 20, 100} {
		got := calc.MarksObtained(ratings, max)
		if got > max {
			t.Errorf("MarksObtained(max=%v) = %v, exceeds max", max, got)
		}
	}
}

func TestMarksObtainedZeroRatings(t *testing.T) {
	calc := newCalculator(t, []float64{4, 3, 2, 1})
	got := calc.MarksObtained(model.RatingSet{}, 10)
	if got != 0 {
		t.Errorf("MarksObtained = %v, want 0", got)
	}
}

func TestNewMarksCalculatorRejectsDegenerateWeights(t *testing.T) {
	for _, weights := range [][]float64{nil, {}, {0, 0, 0, 0}} {
		cfg := &config.Config{}
		cfg.Grading.CreditWeights = weights
		cfg.Grading.CgpaMultiplier = 9.5
		if _, err := service.NewMarksCalculator(cfg); err == nil {
			t.Errorf("NewMarksCalculator(%v) = nil error, want error", weights)
		}
	}
}

func TestRoundTotal(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{12.346, 12.35},
		{12.344, 12.34},
		{0, 0},
		{25, 25},
	}
	for _, c := range cases {
		if got := service.RoundTotal(c.in); got != c.want {
			t.Errorf("RoundTotal(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
