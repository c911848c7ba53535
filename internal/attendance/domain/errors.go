package domain

import (
	"github.com/allisson/attendance/internal/errors"
)

// Attendance error definitions.
var (
	// ErrStudentInvalid indicates a registration with missing or blank fields.
	ErrStudentInvalid = errors.Wrap(errors.ErrInvalidInput, "invalid student")

	// ErrStudentUnknown indicates a scanned card with no directory entry.
	ErrStudentUnknown = errors.Wrap(errors.ErrNotFound, "student unknown")

	// ErrMatriculationTaken indicates a registration whose matriculation
	// number already belongs to another card.
	ErrMatriculationTaken = errors.Wrap(errors.ErrConflict, "matriculation already registered")

	// ErrDirectoryUnavailable indicates the student directory could not be
	// reached.
	ErrDirectoryUnavailable = errors.Wrap(errors.ErrUnavailable, "student directory unavailable")

	// ErrSessionState indicates an operation applied in the wrong session
	// state.
	ErrSessionState = errors.Wrap(errors.ErrConflict, "invalid session state")

	// ErrSessionClosed indicates input arriving after the session ended.
	ErrSessionClosed = errors.Wrap(errors.ErrConflict, "session closed")
)
