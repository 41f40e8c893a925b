package dto

// EvaluateRequest identifies the pair of processed sheets to grade.
// Accepted as form fields for parity with the upload endpoints.
type EvaluateRequest struct {
	StudentID string `form:"student_id" json:"student_id" binding:"required"`
	TeacherID string `form:"teacher_id" json:"teacher_id" binding:"required"`
}
