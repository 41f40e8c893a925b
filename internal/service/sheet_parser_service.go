package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lshigami/gradepro/config"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/rs/zerolog/log"
)

// SheetParserService turns raw extracted sheet text into canonical record
// sequences. An empty slice is a legitimate outcome (nothing decodable), not
// an error: callers treat "zero records" as its own reportable condition.
type SheetParserService interface {
	ParseTeacherRecords(ctx context.Context, rawText string) []model.TeacherRecord
	ParseStudentRecords(ctx context.Context, rawText string) []model.StudentRecord
}

type sheetParserService struct {
	llm LLMService
	cfg *config.Config
}

func NewSheetParserService(llm LLMService, cfg *config.Config) SheetParserService {
	return &sheetParserService{llm: llm, cfg: cfg}
}

const teacherParsePrompt = `Please parse the following text into a structured format with question numbers, questions, and answers.
The text contains multiple questions and answers from an exam paper, but they may be poorly formatted.
Return the result as a JSON array with the structure:
[{"question_no": "1", "question": "actual question text", "answer": "actual answer text"}, ...]

Here's the text to parse:

`

const studentParsePrompt = `Please parse the following text into a JSON array of objects with keys 'question_no' and 'answer'.
Example: [{"question_no": "1", "answer": "..."}, ...]

Here's the text to parse:

`

func (s *sheetParserService) ParseTeacherRecords(ctx context.Context, rawText string) []model.TeacherRecord {
	rows := s.extractRows(ctx, teacherParsePrompt+rawText)
	rows = normalizeRows(rows)

	records := make([]model.TeacherRecord, 0, len(rows))
	for i, row := range rows {
		qno, ok := coerceInt(row["question_no"])
		if !ok {
			log.Warn().Int("row", i).Interface("question_no", row["question_no"]).Msg("Dropping teacher record with non-numeric question_no")
			continue
		}
		totalMarks, ok := coerceFloat(row["total_marks"])
		if !ok {
			totalMarks = s.cfg.Grading.DefaultTotalMarks
		}
		wordLimit, ok := coerceInt(row["word_limit"])
		if !ok {
			wordLimit = s.cfg.Grading.DefaultWordLimit
		}
		records = append(records, model.TeacherRecord{
			QuestionNo: qno,
			Question:   coerceString(row["question"]),
			Answer:     coerceString(row["answer"]),
			TotalMarks: totalMarks,
			WordLimit:  wordLimit,
		})
	}
	return records
}

func (s *sheetParserService) ParseStudentRecords(ctx context.Context, rawText string) []model.StudentRecord {
	rows := s.extractRows(ctx, studentParsePrompt+rawText)
	rows = normalizeRows(rows)

	records := make([]model.StudentRecord, 0, len(rows))
	for i, row := range rows {
		qno, ok := coerceInt(row["question_no"])
		if !ok {
			log.Warn().Int("row", i).Interface("question_no", row["question_no"]).Msg("Dropping student record with non-numeric question_no")
			continue
		}
		records = append(records, model.StudentRecord{
			QuestionNo: qno,
			Answer:     coerceString(row["answer"]),
		})
	}
	return records
}

// extractRows runs the structured-extraction prompt and decodes the response
// into loose row maps, falling back to the block-level extractor when the
// JSON is malformed. Upstream failure yields zero rows, never an error.
func (s *sheetParserService) extractRows(ctx context.Context, prompt string) []map[string]any {
	content, err := s.llm.Complete(ctx, prompt, "")
	if err != nil {
		log.Error().Err(err).Msg("Structured extraction call failed; treating sheet as empty")
		return nil
	}

	jsonStr := extractJSONPayload(content)

	var rows []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &rows); err == nil {
		return rows
	}

	log.Warn().Msg("Could not decode JSON from extraction response; using block fallback extractor")
	return fallbackExtractRows(jsonStr)
}

var (
	codeFenceRe     = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	arrayLiteralRe  = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
	blockRe         = regexp.MustCompile(`(?s)\{(.*?)\}`)
	questionNoRe    = regexp.MustCompile(`"question_no"\s*:\s*"([^"]+)"`)
	answerNoRe      = regexp.MustCompile(`"answer_no"\s*:\s*"([^"]+)"`)
	trailingQuoteRe = regexp.MustCompile(`(?s)"\s*,?\s*$`)
)

// extractJSONPayload strips a markdown code fence if present; otherwise it
// looks for the first array-shaped substring, and failing that returns the
// whole response for the decoder to judge.
func extractJSONPayload(content string) string {
	if m := codeFenceRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := arrayLiteralRe.FindString(content); m != "" {
		return m
	}
	return content
}

// fallbackExtractRows splits the response into {...} blocks and scrapes each
// one. Unmatched fields become nil/empty rather than dropping the block.
func fallbackExtractRows(jsonStr string) []map[string]any {
	blocks := blockRe.FindAllStringSubmatch(jsonStr, -1)
	rows := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		blk := b[1]

		var qno any
		if m := questionNoRe.FindStringSubmatch(blk); m != nil {
			qno = m[1]
		} else if m := answerNoRe.FindStringSubmatch(blk); m != nil {
			qno = m[1]
		}

		ans := ""
		if idx := strings.Index(blk, `"answer"`); idx != -1 {
			if parts := strings.SplitN(blk[idx:], ":", 2); len(parts) == 2 {
				val := strings.TrimSpace(parts[1])
				val = strings.TrimLeft(val, `"`)
				val = trailingQuoteRe.ReplaceAllString(val, "")
				ans = strings.TrimSpace(val)
			}
		}

		rows = append(rows, map[string]any{"question_no": qno, "answer": ans})
	}
	return rows
}

// normalizeRows renames answer_no to question_no and, when no row carries a
// question number at all, synthesizes sequential ones so every parsed row
// stays addressable.
func normalizeRows(rows []map[string]any) []map[string]any {
	anyNumbered := false
	for _, row := range rows {
		if v, ok := row["question_no"]; !ok || v == nil {
			if alt, ok := row["answer_no"]; ok {
				row["question_no"] = alt
			}
		}
		if v, ok := row["question_no"]; ok && v != nil {
			anyNumbered = true
		}
	}
	if !anyNumbered {
		for i, row := range rows {
			row["question_no"] = i + 1
		}
	}
	return rows
}

func coerceInt(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int:
		return x, true
	case float64:
		return int(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		trimmed := strings.TrimSpace(x)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case int:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
