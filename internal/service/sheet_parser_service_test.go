package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/gradepro/config"
	"github.com/lshigami/gradepro/internal/service"
)

// fakeLLM returns a canned response for every Complete call.
type fakeLLM struct {
	resp string
	err  error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt, system string) (string, error) {
	return f.resp, f.err
}

func newParser(llm service.LLMService) service.SheetParserService {
	cfg := &config.Config{}
	cfg.Grading.DefaultTotalMarks = 10
	cfg.Grading.DefaultWordLimit = 100
	return service.NewSheetParserService(llm, cfg)
}

func TestParseTeacherRecordsFencedJSON(t *testing.T) {
	llm := &fakeLLM{resp: "Here is the parsed exam:\n```json\n[\n" +
		`{"question_no": "1", "question": "What is AI?", "answer": "Artificial Intelligence."},` + "\n" +
		`{"question_no": "2", "question": "Define ML.", "answer": "A subset of AI.", "total_marks": 5, "word_limit": 40}` +
		"\n]\n```"}
	parser := newParser(llm)

	records := parser.ParseTeacherRecords(context.Background(), "raw sheet text")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].QuestionNo != 1 || records[0].Question != "What is AI?" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[0].TotalMarks != 10 || records[0].WordLimit != 100 {
		t.Errorf("defaults not applied: %+v", records[0])
	}
	if records[1].TotalMarks != 5 || records[1].WordLimit != 40 {
		t.Errorf("explicit marks metadata lost: %+v", records[1])
	}
}

func TestParseStudentRecordsBareArrayInProse(t *testing.T) {
	llm := &fakeLLM{resp: `Sure! The answers are [ {"question_no": "2", "answer": "Photosynthesis."} ] as requested.`}
	parser := newParser(llm)

	records := parser.ParseStudentRecords(context.Background(), "raw")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].QuestionNo != 2 || records[0].Answer != "Photosynthesis." {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestParseStudentRecordsAnswerNoRenamed(t *testing.T) {
	llm := &fakeLLM{resp: `[{"answer_no": "3", "answer": "Convolutional networks."}]`}
	parser := newParser(llm)

	records := parser.ParseStudentRecords(context.Background(), "raw")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].QuestionNo != 3 {
		t.Errorf("answer_no not normalized: %+v", records[0])
	}
}

func TestParseStudentRecordsSynthesizesNumbers(t *testing.T) {
	llm := &fakeLLM{resp: `[{"answer": "first"}, {"answer": "second"}, {"answer": "third"}]`}
	parser := newParser(llm)

	records := parser.ParseStudentRecords(context.Background(), "raw")
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, rec := range records {
		if rec.QuestionNo != i+1 {
			t.Errorf("record %d has question_no %d, want %d", i, rec.QuestionNo, i+1)
		}
	}
}

func TestParseStudentRecordsFallbackExtractor(t *testing.T) {
	// Trailing commas make this undecodable as JSON, forcing the block
	// fallback path.
	llm := &fakeLLM{resp: `[{"question_no": "1", "answer": "AI stands for Artificial Intelligence",}, {"question_no": "2", "answer": "Machine Learning is a subset of AI",},]`}
	parser := newParser(llm)

	records := parser.ParseStudentRecords(context.Background(), "raw")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].QuestionNo != 1 || records[0].Answer != "AI stands for Artificial Intelligence" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].QuestionNo != 2 || records[1].Answer != "Machine Learning is a subset of AI" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestParseStudentRecordsDropsNonNumericQuestionNo(t *testing.T) {
	llm := &fakeLLM{resp: `[{"question_no": "one", "answer": "dropped"}, {"question_no": "2", "answer": "kept"}]`}
	parser := newParser(llm)

	records := parser.ParseStudentRecords(context.Background(), "raw")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].QuestionNo != 2 || records[0].Answer != "kept" {
		t.Errorf("unexpected surviving record: %+v", records[0])
	}
}

func TestParseRecordsEmptyOnUnusableResponse(t *testing.T) {
	// No JSON and no {...} blocks at all: the parser yields an empty
	// sequence rather than failing.
	llm := &fakeLLM{resp: "I could not make sense of this document."}
	parser := newParser(llm)

	if got := parser.ParseStudentRecords(context.Background(), "raw"); len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
	if got := parser.ParseTeacherRecords(context.Background(), "raw"); len(got) != 0 {
		t.Errorf("got %d teacher records, want 0", len(got))
	}
}

func TestParseRecordsEmptyOnTransportFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	parser := newParser(llm)

	if got := parser.ParseStudentRecords(context.Background(), "raw"); len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}
