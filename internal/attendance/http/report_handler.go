// Package http provides HTTP handlers for the attendance reporting API.
// Reports decrypt archived card identifiers; the endpoints are read-only and
// never mint keys.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/attendance/internal/attendance/http/dto"
	attendanceUsecase "github.com/allisson/attendance/internal/attendance/usecase"
	"github.com/allisson/attendance/internal/httputil"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerUsecase "github.com/allisson/attendance/internal/ledger/usecase"
	customValidation "github.com/allisson/attendance/internal/validation"
)

// ReportHandler handles HTTP requests for attendance reports.
type ReportHandler struct {
	decryptor attendanceUsecase.Decryptor
	ledger    ledgerUsecase.Ledger
	logger    *slog.Logger
}

// NewReportHandler creates a new report handler with required dependencies.
func NewReportHandler(
	decryptor attendanceUsecase.Decryptor,
	ledger ledgerUsecase.Ledger,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		decryptor: decryptor,
		ledger:    ledger,
		logger:    logger,
	}
}

// RegistrationsHandler returns the decrypted registration records of a course.
// GET /v1/reports/:course/registrations
func (h *ReportHandler) RegistrationsHandler(c *gin.Context) {
	params := dto.ReportParams{Course: c.Param("course")}
	if err := params.ValidateForRegistrations(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	op := keysDomain.Operation{Kind: keysDomain.KindRegistration, Course: params.Course}
	h.report(c, op)
}

// LessonHandler returns the decrypted check-in records of one lesson.
// GET /v1/reports/:course/lessons/:lesson
func (h *ReportHandler) LessonHandler(c *gin.Context) {
	params := dto.ReportParams{Course: c.Param("course"), Lesson: c.Param("lesson")}
	if err := params.ValidateForLessons(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	op := keysDomain.Operation{Kind: keysDomain.KindLesson, Course: params.Course, Qualifier: params.Lesson}
	h.report(c, op)
}

// ExamHandler returns the decrypted participation records of one exam date.
// GET /v1/reports/:course/exams/:date
func (h *ReportHandler) ExamHandler(c *gin.Context) {
	params := dto.ReportParams{Course: c.Param("course"), Date: c.Param("date")}
	if err := params.ValidateForExams(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	op := keysDomain.Operation{Kind: keysDomain.KindExam, Course: params.Course, Qualifier: params.Date}
	h.report(c, op)
}

// RegistrationsCountHandler returns the registration count of a course.
// GET /v1/reports/:course/registrations/count
func (h *ReportHandler) RegistrationsCountHandler(c *gin.Context) {
	params := dto.ReportParams{Course: c.Param("course")}
	if err := params.ValidateForRegistrations(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	op := keysDomain.Operation{Kind: keysDomain.KindRegistration, Course: params.Course}
	h.count(c, op)
}

// LessonCountHandler returns the check-in count of one lesson.
// GET /v1/reports/:course/lessons/:lesson/count
func (h *ReportHandler) LessonCountHandler(c *gin.Context) {
	params := dto.ReportParams{Course: c.Param("course"), Lesson: c.Param("lesson")}
	if err := params.ValidateForLessons(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	op := keysDomain.Operation{Kind: keysDomain.KindLesson, Course: params.Course, Qualifier: params.Lesson}
	h.count(c, op)
}

// ExamCountHandler returns the participation count of one exam date.
// GET /v1/reports/:course/exams/:date/count
func (h *ReportHandler) ExamCountHandler(c *gin.Context) {
	params := dto.ReportParams{Course: c.Param("course"), Date: c.Param("date")}
	if err := params.ValidateForExams(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	op := keysDomain.Operation{Kind: keysDomain.KindExam, Course: params.Course, Qualifier: params.Date}
	h.count(c, op)
}

func (h *ReportHandler) report(c *gin.Context, op keysDomain.Operation) {
	results, err := h.decryptor.DecryptBatch(c.Request.Context(), op)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultsToReportResponse(op.Course, op.Label(), results))
}

func (h *ReportHandler) count(c *gin.Context, op keysDomain.Operation) {
	count, err := h.ledger.CountByOperation(c.Request.Context(), op)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Course: op.Course, Label: op.Label(), Count: count})
}
