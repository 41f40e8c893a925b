package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SheetsProcessed counts background processing runs per role and outcome.
	SheetsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradepro_sheets_processed_total",
		Help: "Uploaded sheets processed, by role and outcome.",
	}, []string{"role", "outcome"})

	// EvaluationsTotal counts completed evaluation runs.
	EvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradepro_evaluations_total",
		Help: "Evaluation reports produced.",
	})

	// RatingFailures counts per-dimension rating calls that fell back to the
	// default score.
	RatingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradepro_rating_failures_total",
		Help: "Rating dimension calls that failed and used the fallback value.",
	}, []string{"dimension"})
)
