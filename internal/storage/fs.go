package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lshigami/gradepro/config"
	"github.com/lshigami/gradepro/internal/model"
)

// FileStore keeps uploaded PDFs and the CSV export of each parsed snapshot
// under a single uploads directory.
type FileStore struct {
	baseDir string
}

func NewFileStore(cfg *config.Config) (*FileStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", cfg.UploadDir, err)
	}
	return &FileStore{baseDir: cfg.UploadDir}, nil
}

// SavePDF writes the uploaded file to a temp file first and renames it into
// place, so a partially written upload never shadows a previous good one.
func (s *FileStore) SavePDF(filename string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.baseDir, "upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	finalPath := filepath.Join(s.baseDir, filepath.Base(filename))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move upload into place: %w", err)
	}
	return finalPath, nil
}

// WriteTeacherCSV exports a teacher snapshot with the stable column order
// question_no, question, answer, total_marks, word_limit.
func (s *FileStore) WriteTeacherCSV(teacherID string, records []model.TeacherRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"question_no", "question", "answer", "total_marks", "word_limit"})
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(rec.QuestionNo),
			rec.Question,
			rec.Answer,
			strconv.FormatFloat(rec.TotalMarks, 'f', -1, 64),
			strconv.Itoa(rec.WordLimit),
		})
	}
	return s.writeCSV(teacherID, rows)
}

// WriteStudentCSV exports a student snapshot with columns question_no, answer.
func (s *FileStore) WriteStudentCSV(studentID string, records []model.StudentRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"question_no", "answer"})
	for _, rec := range records {
		rows = append(rows, []string{strconv.Itoa(rec.QuestionNo), rec.Answer})
	}
	return s.writeCSV(studentID, rows)
}

func (s *FileStore) writeCSV(id string, rows [][]string) error {
	path := filepath.Join(s.baseDir, filepath.Base(id)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv %s: %w", path, err)
	}
	return nil
}
