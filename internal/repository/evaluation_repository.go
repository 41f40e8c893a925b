package repository

import (
	"errors"

	"github.com/lshigami/gradepro/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrResultNotFound = errors.New("evaluation result not found")

type EvaluationRepository interface {
	Save(result *model.EvaluationResult) error
	FindByPair(studentID, teacherID string) (*model.EvaluationResult, error)
	FindLatestByStudent(studentID string) (*model.EvaluationResult, error)
	FindAll() ([]model.EvaluationResult, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Save upserts on the (student_id, teacher_id) pair; re-evaluating the same
// pair overwrites the prior report.
func (r *evaluationRepository) Save(result *model.EvaluationResult) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "teacher_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_marks", "result_json", "evaluated_at"}),
	}).Create(result).Error
}

func (r *evaluationRepository) FindByPair(studentID, teacherID string) (*model.EvaluationResult, error) {
	var result model.EvaluationResult
	err := r.db.Where("student_id = ? AND teacher_id = ?", studentID, teacherID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *evaluationRepository) FindLatestByStudent(studentID string) (*model.EvaluationResult, error) {
	var result model.EvaluationResult
	err := r.db.Where("student_id = ?", studentID).Order("evaluated_at DESC").First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *evaluationRepository) FindAll() ([]model.EvaluationResult, error) {
	var results []model.EvaluationResult
	err := r.db.Order("evaluated_at DESC").Find(&results).Error
	return results, err
}
