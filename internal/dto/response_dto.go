package dto

import (
	"time"

	"github.com/lshigami/gradepro/internal/model"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// UploadResponse acknowledges a sheet upload; parsing continues in the
// background.
type UploadResponse struct {
	Message   string `json:"message"`
	TeacherID string `json:"teacher_id,omitempty"`
	StudentID string `json:"student_id,omitempty"`
}

// EvaluationResponse is the graded report returned to the caller. Persisted
// reports false when the report could not be stored; the grades themselves
// are still valid.
type EvaluationResponse struct {
	StudentID       string                 `json:"student_id"`
	TeacherID       string                 `json:"teacher_id"`
	TotalMarks      float64                `json:"total_marks"`
	QuestionResults []model.QuestionResult `json:"question_results"`
	Persisted       bool                   `json:"persisted"`
}

// ResultSummaryDTO is one stored evaluation in list responses.
type ResultSummaryDTO struct {
	StudentID   string    `json:"student_id"`
	TeacherID   string    `json:"teacher_id"`
	TotalMarks  float64   `json:"total_marks"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// ResultDetailDTO is a stored evaluation with the full report attached.
type ResultDetailDTO struct {
	StudentID   string                 `json:"student_id"`
	TeacherID   string                 `json:"teacher_id"`
	TotalMarks  float64                `json:"total_marks"`
	EvaluatedAt time.Time              `json:"evaluated_at"`
	Report      model.EvaluationReport `json:"report"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}
