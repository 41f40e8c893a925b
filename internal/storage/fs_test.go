package storage_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lshigami/gradepro/config"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/lshigami/gradepro/internal/storage"
)

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()
	cfg := &config.Config{UploadDir: t.TempDir()}
	store, err := storage.NewFileStore(cfg)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestSavePDFWritesFile(t *testing.T) {
	store := newStore(t)

	path, err := store.SavePDF("t1.pdf", strings.NewReader("%PDF-1.4 fake content"))
	if err != nil {
		t.Fatalf("SavePDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored pdf: %v", err)
	}
	if string(data) != "%PDF-1.4 fake content" {
		t.Errorf("stored content = %q", data)
	}
	if filepath.Base(path) != "t1.pdf" {
		t.Errorf("stored as %s, want t1.pdf", filepath.Base(path))
	}
}

func TestWriteTeacherCSVColumnOrder(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir()}
	store, err := storage.NewFileStore(cfg)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	records := []model.TeacherRecord{
		{QuestionNo: 1, Question: "What is AI?", Answer: "Artificial Intelligence.", TotalMarks: 10, WordLimit: 100},
		{QuestionNo: 2, Question: "Define ML.", Answer: "Subset of AI.", TotalMarks: 7.5, WordLimit: 40},
	}
	if err := store.WriteTeacherCSV("t1", records); err != nil {
		t.Fatalf("WriteTeacherCSV: %v", err)
	}

	f, err := os.Open(filepath.Join(cfg.UploadDir, "t1.csv"))
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	wantHeader := []string{"question_no", "question", "answer", "total_marks", "word_limit"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[2][0] != "2" || rows[2][3] != "7.5" || rows[2][4] != "40" {
		t.Errorf("unexpected second record row: %v", rows[2])
	}
}

func TestWriteStudentCSV(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir()}
	store, err := storage.NewFileStore(cfg)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	records := []model.StudentRecord{{QuestionNo: 3, Answer: "CNN and RNN."}}
	if err := store.WriteStudentCSV("s1", records); err != nil {
		t.Fatalf("WriteStudentCSV: %v", err)
	}

	f, err := os.Open(filepath.Join(cfg.UploadDir, "s1.csv"))
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "3" || rows[1][1] != "CNN and RNN." {
		t.Errorf("unexpected rows: %v", rows)
	}
}
