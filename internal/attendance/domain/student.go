// Package domain defines the attendance model: students, recording
// outcomes, and the scan session state machine.
package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/attendance/internal/errors"
	appvalidation "github.com/allisson/attendance/internal/validation"
)

// Student is one directory entry, keyed by the card identifier the student
// scans with. Rows are insert-if-absent and never mutated; the matriculation
// number is unique across the directory.
type Student struct {
	CardID        string
	FirstName     string
	LastName      string
	Matriculation string
	CreatedAt     time.Time
}

// Validate checks the registration fields.
func (s *Student) Validate() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.CardID, validation.Required, appvalidation.NotBlank),
		validation.Field(&s.FirstName, validation.Required, appvalidation.NotBlank),
		validation.Field(&s.LastName, validation.Required, appvalidation.NotBlank),
		validation.Field(&s.Matriculation, validation.Required, appvalidation.NotBlank, appvalidation.NoWhitespace),
	)
	if err != nil {
		return apperrors.Wrap(ErrStudentInvalid, err.Error())
	}
	return nil
}
