package model

// TeacherRecord is one question of the grading rubric: the model answer plus
// the per-question marking metadata.
type TeacherRecord struct {
	QuestionNo int     `json:"question_no"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	TotalMarks float64 `json:"total_marks"`
	WordLimit  int     `json:"word_limit"`
}

// StudentRecord is one parsed answer from a student sheet. The upstream
// extraction may emit the key as answer_no; the parser normalizes it to
// question_no before records reach this type.
type StudentRecord struct {
	QuestionNo int    `json:"question_no"`
	Answer     string `json:"answer"`
}

// RatingSet holds the four independent 0-100 quality signals for one answer.
type RatingSet struct {
	Keyword float64 `json:"keyword"`
	Content float64 `json:"content"`
	Grammar float64 `json:"grammar"`
	Length  float64 `json:"length"`
}

// QuestionResult is the graded outcome for a single teacher question.
type QuestionResult struct {
	QuestionNo    int       `json:"question_no"`
	Question      string    `json:"question"`
	TeacherAnswer string    `json:"teacher_answer"`
	StudentAnswer string    `json:"student_answer"`
	MaxMarks      float64   `json:"max_marks"`
	MarksObtained float64   `json:"marks_obtained"`
	Ratings       RatingSet `json:"ratings"`
}

// EvaluationReport is the full graded sheet, ordered by the teacher's
// question order. TotalMarks is the sum of the per-question marks, rounded
// to two decimals; it is never recomputed independently.
type EvaluationReport struct {
	TotalMarks      float64          `json:"total_marks"`
	QuestionResults []QuestionResult `json:"question_results"`
}
