package controller

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/gradepro/internal/dto"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/lshigami/gradepro/internal/repository"
	"github.com/lshigami/gradepro/internal/service"
	"github.com/lshigami/gradepro/internal/storage"
	"github.com/rs/zerolog/log"
)

type SheetController struct {
	sheetRepo  repository.SheetRepository
	processing service.SheetProcessingService
	files      *storage.FileStore
}

func NewSheetController(
	sheetRepo repository.SheetRepository,
	processing service.SheetProcessingService,
	files *storage.FileStore,
) *SheetController {
	return &SheetController{sheetRepo: sheetRepo, processing: processing, files: files}
}

// UploadTeacherSheet godoc
// @Summary Upload a teacher's answer sheet PDF
// @Description Stores the PDF, records the teacher sheet, and parses it into a digital snapshot in the background. The teacher id is the filename without extension.
// @Tags Sheets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Teacher answer sheet PDF"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Not a PDF file"
// @Failure 500 {object} dto.ErrorResponse "Upload could not be stored"
// @Router /api/upload/teacher-answer [post]
func (c *SheetController) UploadTeacherSheet(ctx *gin.Context) {
	id, pdfPath, ok := c.acceptUpload(ctx)
	if !ok {
		return
	}

	if err := c.sheetRepo.SaveTeacherSheet(&model.TeacherSheet{TeacherID: id, PdfPath: pdfPath}); err != nil {
		log.Warn().Err(err).Str("teacherID", id).Msg("Could not store teacher sheet row; background processing will not persist")
	}

	go c.processing.ProcessTeacherSheet(id, pdfPath)

	ctx.JSON(http.StatusOK, dto.UploadResponse{
		Message:   "Teacher PDF uploaded successfully, processing in background",
		TeacherID: id,
	})
}

// UploadStudentSheet godoc
// @Summary Upload a student's answer sheet PDF
// @Description Stores the PDF, records the student sheet, and parses it into a digital snapshot in the background. The student id is the filename without extension.
// @Tags Sheets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Student answer sheet PDF"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Not a PDF file"
// @Failure 500 {object} dto.ErrorResponse "Upload could not be stored"
// @Router /api/upload/student-answer [post]
func (c *SheetController) UploadStudentSheet(ctx *gin.Context) {
	id, pdfPath, ok := c.acceptUpload(ctx)
	if !ok {
		return
	}

	if err := c.sheetRepo.SaveStudentSheet(&model.StudentSheet{StudentID: id, PdfPath: pdfPath}); err != nil {
		log.Warn().Err(err).Str("studentID", id).Msg("Could not store student sheet row; background processing will not persist")
	}

	go c.processing.ProcessStudentSheet(id, pdfPath)

	ctx.JSON(http.StatusOK, dto.UploadResponse{
		Message:   "Student PDF uploaded successfully, processing in background",
		StudentID: id,
	})
}

// acceptUpload validates the multipart PDF and writes it into the upload
// directory. Returns the sheet id (filename base) and the stored path.
func (c *SheetController) acceptUpload(ctx *gin.Context) (id, pdfPath string, ok bool) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing file in request", Details: []string{err.Error()}})
		return "", "", false
	}

	filename := filepath.Base(fileHeader.Filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Only PDF files are allowed"})
		return "", "", false
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read uploaded file", Details: []string{err.Error()}})
		return "", "", false
	}
	defer src.Close()

	pdfPath, err = c.files.SavePDF(filename, src)
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("Failed to store uploaded PDF")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store uploaded file", Details: []string{err.Error()}})
		return "", "", false
	}

	id = strings.TrimSuffix(filename, filepath.Ext(filename))
	return id, pdfPath, true
}
