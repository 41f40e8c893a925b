package repository

import (
	"errors"

	"github.com/lshigami/gradepro/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSheetNotFound is returned when no sheet row exists for the given id.
var ErrSheetNotFound = errors.New("sheet not found")

type SheetRepository interface {
	SaveTeacherSheet(sheet *model.TeacherSheet) error
	UpdateTeacherDigitalSheet(teacherID, digitalSheet string) error
	FindTeacherByID(teacherID string) (*model.TeacherSheet, error)

	SaveStudentSheet(sheet *model.StudentSheet) error
	UpdateStudentDigitalSheet(studentID, digitalSheet string) error
	FindStudentByID(studentID string) (*model.StudentSheet, error)
}

type sheetRepository struct {
	db *gorm.DB
}

func NewSheetRepository(db *gorm.DB) SheetRepository {
	return &sheetRepository{db: db}
}

// SaveTeacherSheet upserts on teacher_id so a re-upload under the same id
// overwrites the prior snapshot (last write wins).
func (r *sheetRepository) SaveTeacherSheet(sheet *model.TeacherSheet) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "teacher_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pdf_path", "digital_sheet", "updated_at"}),
	}).Create(sheet).Error
}

func (r *sheetRepository) UpdateTeacherDigitalSheet(teacherID, digitalSheet string) error {
	res := r.db.Model(&model.TeacherSheet{}).
		Where("teacher_id = ?", teacherID).
		Update("digital_sheet", digitalSheet)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSheetNotFound
	}
	return nil
}

func (r *sheetRepository) FindTeacherByID(teacherID string) (*model.TeacherSheet, error) {
	var sheet model.TeacherSheet
	err := r.db.Where("teacher_id = ?", teacherID).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSheetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *sheetRepository) SaveStudentSheet(sheet *model.StudentSheet) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pdf_path", "digital_sheet", "updated_at"}),
	}).Create(sheet).Error
}

func (r *sheetRepository) UpdateStudentDigitalSheet(studentID, digitalSheet string) error {
	res := r.db.Model(&model.StudentSheet{}).
		Where("student_id = ?", studentID).
		Update("digital_sheet", digitalSheet)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSheetNotFound
	}
	return nil
}

func (r *sheetRepository) FindStudentByID(studentID string) (*model.StudentSheet, error) {
	var sheet model.StudentSheet
	err := r.db.Where("student_id = ?", studentID).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSheetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}
