// Package dto provides data transfer objects for the reporting API.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	attendanceUsecase "github.com/allisson/attendance/internal/attendance/usecase"
	customValidation "github.com/allisson/attendance/internal/validation"
)

// ReportParams carries the path parameters of a report request.
type ReportParams struct {
	Course string
	Lesson string
	Date   string
}

// ValidateForRegistrations checks the parameters of a registration report.
func (p ReportParams) ValidateForRegistrations() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Course, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace),
	)
}

// ValidateForLessons checks the parameters of a lesson report.
func (p ReportParams) ValidateForLessons() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Course, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace),
		validation.Field(&p.Lesson, validation.Required, customValidation.NotBlank),
	)
}

// ValidateForExams checks the parameters of an exam report.
func (p ReportParams) ValidateForExams() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Course, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace),
		validation.Field(&p.Date, validation.Required, customValidation.ExamDate),
	)
}

// RecordResponse is one decrypted ledger record. CardID is null and Error is
// set when the record's ciphertext failed to decrypt; siblings are
// unaffected.
type RecordResponse struct {
	ID            string    `json:"id"`
	CardID        *string   `json:"card_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Matriculation string    `json:"matriculation"`
	Annotation    string    `json:"annotation,omitempty"`
	Position      int64     `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
	Error         string    `json:"error,omitempty"`
}

// ReportResponse is a decrypted report batch.
type ReportResponse struct {
	Course string           `json:"course"`
	Label  string           `json:"label"`
	Data   []RecordResponse `json:"data"`
}

// CountResponse is a record count for one operation.
type CountResponse struct {
	Course string `json:"course"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

// MapResultsToReportResponse converts batch decryption results to a report
// response.
func MapResultsToReportResponse(course, label string, results []attendanceUsecase.DecryptedRecord) ReportResponse {
	data := make([]RecordResponse, 0, len(results))
	for _, result := range results {
		item := RecordResponse{
			ID:            result.Record.ID.String(),
			FirstName:     result.Record.FirstName,
			LastName:      result.Record.LastName,
			Matriculation: result.Record.Matriculation,
			Annotation:    result.Record.Annotation,
			Position:      result.Record.Position,
			CreatedAt:     result.Record.CreatedAt,
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		} else {
			cardID := result.CardID
			item.CardID = &cardID
		}
		data = append(data, item)
	}

	return ReportResponse{Course: course, Label: label, Data: data}
}
