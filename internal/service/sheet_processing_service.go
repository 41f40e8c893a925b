package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lshigami/gradepro/internal/metrics"
	"github.com/lshigami/gradepro/internal/repository"
	"github.com/lshigami/gradepro/internal/storage"
	"github.com/rs/zerolog/log"
)

const processingTimeout = 10 * time.Minute

// SheetProcessingService runs the deferred pipeline for one uploaded sheet:
// extract text, parse records, persist the digital snapshot (JSON in the
// database plus a CSV export). Each call is an independent run; the methods
// are meant to be invoked from a goroutine after the upload response is sent.
type SheetProcessingService interface {
	ProcessTeacherSheet(teacherID, pdfPath string)
	ProcessStudentSheet(studentID, pdfPath string)
}

type sheetProcessingService struct {
	extractor TextExtractor
	parser    SheetParserService
	sheetRepo repository.SheetRepository
	files     *storage.FileStore
}

func NewSheetProcessingService(
	extractor TextExtractor,
	parser SheetParserService,
	sheetRepo repository.SheetRepository,
	files *storage.FileStore,
) SheetProcessingService {
	return &sheetProcessingService{
		extractor: extractor,
		parser:    parser,
		sheetRepo: sheetRepo,
		files:     files,
	}
}

func (s *sheetProcessingService) ProcessTeacherSheet(teacherID, pdfPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), processingTimeout)
	defer cancel()

	rawText, err := s.extractor.ExtractText(ctx, pdfPath)
	if err != nil {
		// Extraction failure is fatal for this document: the snapshot stays
		// unprocessed and evaluation reports "not yet processed".
		log.Error().Err(err).Str("teacherID", teacherID).Msg("Text extraction failed for teacher sheet")
		metrics.SheetsProcessed.WithLabelValues("teacher", "extraction_failed").Inc()
		return
	}

	records := s.parser.ParseTeacherRecords(ctx, rawText)
	if len(records) == 0 {
		log.Warn().Str("teacherID", teacherID).Msg("Teacher sheet parsed to zero records")
	}

	payload, err := json.Marshal(records)
	if err != nil {
		log.Error().Err(err).Str("teacherID", teacherID).Msg("Failed to serialize teacher records")
		metrics.SheetsProcessed.WithLabelValues("teacher", "error").Inc()
		return
	}
	if err := s.sheetRepo.UpdateTeacherDigitalSheet(teacherID, string(payload)); err != nil {
		log.Error().Err(err).Str("teacherID", teacherID).Msg("Failed to store teacher digital sheet")
		metrics.SheetsProcessed.WithLabelValues("teacher", "error").Inc()
		return
	}
	if err := s.files.WriteTeacherCSV(teacherID, records); err != nil {
		log.Warn().Err(err).Str("teacherID", teacherID).Msg("Failed to export teacher CSV snapshot")
	}

	metrics.SheetsProcessed.WithLabelValues("teacher", "ok").Inc()
	log.Info().Str("teacherID", teacherID).Int("records", len(records)).Msg("Processed teacher sheet")
}

func (s *sheetProcessingService) ProcessStudentSheet(studentID, pdfPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), processingTimeout)
	defer cancel()

	rawText, err := s.extractor.ExtractText(ctx, pdfPath)
	if err != nil {
		log.Error().Err(err).Str("studentID", studentID).Msg("Text extraction failed for student sheet")
		metrics.SheetsProcessed.WithLabelValues("student", "extraction_failed").Inc()
		return
	}

	records := s.parser.ParseStudentRecords(ctx, rawText)
	if len(records) == 0 {
		log.Warn().Str("studentID", studentID).Msg("Student sheet parsed to zero records")
	}

	payload, err := json.Marshal(records)
	if err != nil {
		log.Error().Err(err).Str("studentID", studentID).Msg("Failed to serialize student records")
		metrics.SheetsProcessed.WithLabelValues("student", "error").Inc()
		return
	}
	if err := s.sheetRepo.UpdateStudentDigitalSheet(studentID, string(payload)); err != nil {
		log.Error().Err(err).Str("studentID", studentID).Msg("Failed to store student digital sheet")
		metrics.SheetsProcessed.WithLabelValues("student", "error").Inc()
		return
	}
	if err := s.files.WriteStudentCSV(studentID, records); err != nil {
		log.Warn().Err(err).Str("studentID", studentID).Msg("Failed to export student CSV snapshot")
	}

	metrics.SheetsProcessed.WithLabelValues("student", "ok").Inc()
	log.Info().Str("studentID", studentID).Int("records", len(records)).Msg("Processed student sheet")
}
