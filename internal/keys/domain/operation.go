// Package domain defines the core types for keyed-operation encryption:
// operation identities, key material, and the errors shared by the key
// resolution pipeline.
package domain

import (
	apperrors "github.com/allisson/attendance/internal/errors"
)

// Kind identifies the type of attendance operation a key is scoped to.
type Kind string

const (
	// KindRegistration covers a course's whole registration stream.
	KindRegistration Kind = "Registrazione"

	// KindLesson covers a single lesson's check-in stream.
	KindLesson Kind = "Lezione"

	// KindExam covers a single exam date's check-in stream.
	KindExam Kind = "Esame"
)

// Valid reports whether the kind is one of the supported operation kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRegistration, KindLesson, KindExam:
		return true
	}
	return false
}

// Operation identifies one registration, lesson, or exam stream within a
// course. Two operations are the same stream only when kind, course, and
// qualifier all match exactly; every distinct operation owns its own key
// material.
type Operation struct {
	Kind      Kind
	Course    string
	Qualifier string // lesson name or exam date; empty for registration
}

// Label returns the key-row label for the operation: the fixed registration
// label for registrations, otherwise the qualifier (lesson name or exam date).
func (o Operation) Label() string {
	if o.Kind == KindRegistration {
		return string(KindRegistration)
	}
	return o.Qualifier
}

// Validate checks the structural rules of an operation identity: a known
// kind, a non-empty course, and a qualifier present exactly when the kind
// requires one.
func (o Operation) Validate() error {
	if !o.Kind.Valid() {
		return apperrors.Wrap(ErrInvalidOperation, "unknown operation kind")
	}
	if o.Course == "" {
		return apperrors.Wrap(ErrInvalidOperation, "course is required")
	}
	switch o.Kind {
	case KindRegistration:
		if o.Qualifier != "" {
			return apperrors.Wrap(ErrInvalidOperation, "registration takes no qualifier")
		}
	case KindLesson, KindExam:
		if o.Qualifier == "" {
			return apperrors.Wrap(ErrInvalidOperation, "qualifier is required")
		}
	}
	return nil
}
