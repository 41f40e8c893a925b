package model

import "time"

// TeacherSheet is the persisted snapshot of one uploaded teacher answer
// sheet. DigitalSheet is the parsed record set as a JSON array; it stays
// empty until background processing completes, which makes "not yet
// processed" distinguishable from "processed but empty" ("[]").
type TeacherSheet struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	TeacherID    string    `json:"teacher_id" gorm:"uniqueIndex;not null"`
	PdfPath      string    `json:"pdf_path" gorm:"not null"`
	DigitalSheet string    `json:"digital_sheet,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentSheet mirrors TeacherSheet for student uploads.
type StudentSheet struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	StudentID    string    `json:"student_id" gorm:"uniqueIndex;not null"`
	PdfPath      string    `json:"pdf_path" gorm:"not null"`
	DigitalSheet string    `json:"digital_sheet,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EvaluationResult stores one graded report, keyed by the (student, teacher)
// pair. Re-evaluation upserts the row: last write wins.
type EvaluationResult struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	StudentID   string    `json:"student_id" gorm:"not null;uniqueIndex:idx_evaluation_pair"`
	TeacherID   string    `json:"teacher_id" gorm:"not null;uniqueIndex:idx_evaluation_pair"`
	TotalMarks  float64   `json:"total_marks" gorm:"not null"`
	ResultJSON  string    `json:"result_json" gorm:"type:jsonb;not null"`
	EvaluatedAt time.Time `json:"evaluated_at" gorm:"autoUpdateTime"`
}
