package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/gradepro/internal/dto"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/lshigami/gradepro/internal/repository"
	"github.com/lshigami/gradepro/internal/service"
	"github.com/rs/zerolog/log"
)

type EvaluationController struct {
	evaluation service.EvaluationService
	evalRepo   repository.EvaluationRepository
}

func NewEvaluationController(evaluation service.EvaluationService, evalRepo repository.EvaluationRepository) *EvaluationController {
	return &EvaluationController{evaluation: evaluation, evalRepo: evalRepo}
}

// EvaluateStudentSheet godoc
// @Summary Evaluate a student's answer sheet against a teacher's model answers
// @Description Grades the stored student snapshot against the stored teacher snapshot and persists the report keyed by the (student_id, teacher_id) pair.
// @Tags Evaluation
// @Accept x-www-form-urlencoded
// @Produce json
// @Param student_id formData string true "Student sheet id"
// @Param teacher_id formData string true "Teacher sheet id"
// @Success 200 {object} dto.EvaluationResponse
// @Failure 400 {object} dto.ErrorResponse "Missing ids"
// @Failure 404 {object} dto.ErrorResponse "Sheet not found or not processed yet"
// @Failure 422 {object} dto.ErrorResponse "Sheet processed but contains no records"
// @Failure 500 {object} dto.ErrorResponse "Evaluation error"
// @Router /evaluateStudentSheet [post]
func (c *EvaluationController) EvaluateStudentSheet(ctx *gin.Context) {
	var req dto.EvaluateRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "student_id and teacher_id are required", Details: []string{err.Error()}})
		return
	}

	log.Info().Str("studentID", req.StudentID).Str("teacherID", req.TeacherID).Msg("Evaluating student sheet")

	report, persisted, err := c.evaluation.Evaluate(ctx.Request.Context(), req.StudentID, req.TeacherID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSheetNotFound), errors.Is(err, service.ErrSheetNotProcessed):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrEmptySheet):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Msg("EvaluateStudentSheet: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Evaluation failed", Details: []string{err.Error()}})
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.EvaluationResponse{
		StudentID:       req.StudentID,
		TeacherID:       req.TeacherID,
		TotalMarks:      report.TotalMarks,
		QuestionResults: report.QuestionResults,
		Persisted:       persisted,
	})
}

// GetAllResults godoc
// @Summary List all stored evaluation results
// @Tags Evaluation
// @Produce json
// @Success 200 {object} map[string][]dto.ResultSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /getAllResults [get]
func (c *EvaluationController) GetAllResults(ctx *gin.Context) {
	results, err := c.evalRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("GetAllResults: repository error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve results", Details: []string{err.Error()}})
		return
	}

	summaries := make([]dto.ResultSummaryDTO, 0, len(results))
	for _, result := range results {
		var summary dto.ResultSummaryDTO
		if err := copier.Copy(&summary, &result); err != nil {
			log.Error().Err(err).Uint("resultID", result.ID).Msg("GetAllResults: error copying result to summary DTO")
			continue
		}
		summaries = append(summaries, summary)
	}
	ctx.JSON(http.StatusOK, gin.H{"results": summaries})
}

// GetResult godoc
// @Summary Get the most recent evaluation result for a student
// @Description Returns the newest stored report for the student. Pass teacher_id to select the report for a specific (student, teacher) pair.
// @Tags Evaluation
// @Produce json
// @Param student_id path string true "Student sheet id"
// @Param teacher_id query string false "Teacher sheet id"
// @Success 200 {object} dto.ResultDetailDTO
// @Failure 404 {object} dto.ErrorResponse "No result for this student"
// @Failure 500 {object} dto.ErrorResponse
// @Router /getResult/{student_id} [get]
func (c *EvaluationController) GetResult(ctx *gin.Context) {
	studentID := ctx.Param("student_id")

	var result *model.EvaluationResult
	var err error
	if teacherID := ctx.Query("teacher_id"); teacherID != "" {
		result, err = c.evalRepo.FindByPair(studentID, teacherID)
	} else {
		result, err = c.evalRepo.FindLatestByStudent(studentID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrResultNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No result found for student " + studentID})
			return
		}
		log.Error().Err(err).Str("studentID", studentID).Msg("GetResult: repository error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve result", Details: []string{err.Error()}})
		return
	}

	var detail dto.ResultDetailDTO
	if err := copier.Copy(&detail, result); err != nil {
		log.Error().Err(err).Uint("resultID", result.ID).Msg("GetResult: error copying result to DTO")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to prepare result"})
		return
	}
	if err := json.Unmarshal([]byte(result.ResultJSON), &detail.Report); err != nil {
		log.Error().Err(err).Uint("resultID", result.ID).Msg("GetResult: stored report is not valid JSON")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Stored report is corrupt"})
		return
	}

	ctx.JSON(http.StatusOK, detail)
}
