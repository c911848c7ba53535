// Package domain defines the append-only attendance ledger model.
package domain

import (
	"time"

	"github.com/google/uuid"

	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// Record is one appended ledger row. The card identifier is stored only as
// ciphertext under the owning operation's key; student identity fields and
// the annotation are plaintext by contract with the reporting surface.
//
// Position, PrevDigest and Digest realize the per-course hash chain: each
// record's digest covers its own content plus the digest of the previous
// record, so removing or rewriting any row breaks verification of every row
// after it.
type Record struct {
	ID            uuid.UUID
	Kind          keysDomain.Kind
	Course        string
	Qualifier     string
	Ciphertext    []byte
	FirstName     string
	LastName      string
	Matriculation string
	Annotation    string
	Position      int64
	PrevDigest    []byte
	Digest        []byte
	CreatedAt     time.Time
}

// Operation returns the operation identity this record belongs to.
func (r *Record) Operation() keysDomain.Operation {
	op := keysDomain.Operation{Kind: r.Kind, Course: r.Course}
	if r.Kind != keysDomain.KindRegistration {
		op.Qualifier = r.Qualifier
	}
	return op
}
