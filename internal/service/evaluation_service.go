package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lshigami/gradepro/internal/metrics"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/lshigami/gradepro/internal/repository"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSheetNotProcessed means the sheet row exists but background parsing
	// has not produced a digital snapshot yet.
	ErrSheetNotProcessed = errors.New("sheet not yet processed")
	// ErrEmptySheet means parsing completed but yielded zero records.
	ErrEmptySheet = errors.New("sheet processed but contains no records")
)

// EvaluationService grades a student snapshot against a teacher snapshot and
// persists the resulting report keyed by the (student, teacher) pair.
type EvaluationService interface {
	// Evaluate returns the report plus whether it was persisted. A
	// persistence failure is surfaced through the flag, not by discarding
	// the report.
	Evaluate(ctx context.Context, studentID, teacherID string) (*model.EvaluationReport, bool, error)
}

type evaluationService struct {
	sheetRepo repository.SheetRepository
	evalRepo  repository.EvaluationRepository
	rater     RatingService
	calc      *MarksCalculator
}

func NewEvaluationService(
	sheetRepo repository.SheetRepository,
	evalRepo repository.EvaluationRepository,
	rater RatingService,
	calc *MarksCalculator,
) EvaluationService {
	return &evaluationService{
		sheetRepo: sheetRepo,
		evalRepo:  evalRepo,
		rater:     rater,
		calc:      calc,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, studentID, teacherID string) (*model.EvaluationReport, bool, error) {
	teacherRecords, err := s.loadTeacherRecords(teacherID)
	if err != nil {
		return nil, false, err
	}
	studentRecords, err := s.loadStudentRecords(studentID)
	if err != nil {
		return nil, false, err
	}

	pairs := reconcile(teacherRecords, studentRecords)
	report := s.scorePairs(ctx, pairs)

	persisted := true
	if err := s.persistReport(studentID, teacherID, report); err != nil {
		log.Error().Err(err).Str("studentID", studentID).Str("teacherID", teacherID).Msg("Failed to persist evaluation report")
		persisted = false
	}
	metrics.EvaluationsTotal.Inc()

	return report, persisted, nil
}

func (s *evaluationService) loadTeacherRecords(teacherID string) ([]model.TeacherRecord, error) {
	sheet, err := s.sheetRepo.FindTeacherByID(teacherID)
	if err != nil {
		return nil, fmt.Errorf("teacher sheet %s: %w", teacherID, err)
	}
	if sheet.DigitalSheet == "" {
		return nil, fmt.Errorf("teacher sheet %s: %w", teacherID, ErrSheetNotProcessed)
	}
	var records []model.TeacherRecord
	if err := json.Unmarshal([]byte(sheet.DigitalSheet), &records); err != nil {
		return nil, fmt.Errorf("teacher sheet %s has a corrupt digital snapshot: %w", teacherID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("teacher sheet %s: %w", teacherID, ErrEmptySheet)
	}
	return records, nil
}

func (s *evaluationService) loadStudentRecords(studentID string) ([]model.StudentRecord, error) {
	sheet, err := s.sheetRepo.FindStudentByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("student sheet %s: %w", studentID, err)
	}
	if sheet.DigitalSheet == "" {
		return nil, fmt.Errorf("student sheet %s: %w", studentID, ErrSheetNotProcessed)
	}
	var records []model.StudentRecord
	if err := json.Unmarshal([]byte(sheet.DigitalSheet), &records); err != nil {
		return nil, fmt.Errorf("student sheet %s has a corrupt digital snapshot: %w", studentID, err)
	}
	// An empty student snapshot is valid: every question scores through the
	// missing-answer path.
	return records, nil
}

// reconciledPair joins one teacher question with the student's answer for
// that question number, or the empty string when none exists.
type reconciledPair struct {
	teacher       model.TeacherRecord
	studentAnswer string
}

// reconcile aligns the student answers to the teacher's questions. Teacher
// order is authoritative; the first student row per question number wins and
// later duplicates are ignored.
func reconcile(teacher []model.TeacherRecord, student []model.StudentRecord) []reconciledPair {
	answers := make(map[int]string, len(student))
	for _, rec := range student {
		if _, seen := answers[rec.QuestionNo]; !seen {
			answers[rec.QuestionNo] = rec.Answer
		}
	}

	pairs := make([]reconciledPair, 0, len(teacher))
	for _, trec := range teacher {
		pairs = append(pairs, reconciledPair{teacher: trec, studentAnswer: answers[trec.QuestionNo]})
	}
	return pairs
}

type questionScoringResult struct {
	index  int
	result model.QuestionResult
}

// scorePairs rates every reconciled pair concurrently and assembles the
// report in teacher order. Completion order cannot affect the result: each
// goroutine carries its index and the total is summed over the ordered slice.
func (s *evaluationService) scorePairs(ctx context.Context, pairs []reconciledPair) *model.EvaluationReport {
	results := make(chan questionScoringResult, len(pairs))

	for i, pair := range pairs {
		go func(idx int, p reconciledPair) {
			ratings := s.rater.RateAnswer(ctx, p.studentAnswer, p.teacher.Answer, p.teacher.WordLimit)
			marks := s.calc.MarksObtained(ratings, p.teacher.TotalMarks)
			results <- questionScoringResult{
				index: idx,
				result: model.QuestionResult{
					QuestionNo:    p.teacher.QuestionNo,
					Question:      p.teacher.Question,
					TeacherAnswer: p.teacher.Answer,
					StudentAnswer: p.studentAnswer,
					MaxMarks:      p.teacher.TotalMarks,
					MarksObtained: marks,
					Ratings:       ratings,
				},
			}
		}(i, pair)
	}

	ordered := make([]model.QuestionResult, len(pairs))
	for range pairs {
		r := <-results
		ordered[r.index] = r.result
	}

	total := 0.0
	for _, qr := range ordered {
		total += qr.MarksObtained
	}

	return &model.EvaluationReport{
		TotalMarks:      RoundTotal(total),
		QuestionResults: ordered,
	}
}

func (s *evaluationService) persistReport(studentID, teacherID string, report *model.EvaluationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	return s.evalRepo.Save(&model.EvaluationResult{
		StudentID:  studentID,
		TeacherID:  teacherID,
		TotalMarks: report.TotalMarks,
		ResultJSON: string(payload),
	})
}
