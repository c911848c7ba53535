// Package usecase implements attendance recording and report decryption.
package usecase

import (
	"context"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

// StudentDirectory abstracts student persistence. Implementations live in
// internal/attendance/repository.
type StudentDirectory interface {
	// InsertIfAbsent stores the student unless the card is already
	// registered, reporting whether this call created the entry.
	InsertIfAbsent(ctx context.Context, student *attendanceDomain.Student) (bool, error)

	// FindByCardID looks up the student owning a card, failing with
	// attendanceDomain.ErrStudentUnknown when absent.
	FindByCardID(ctx context.Context, cardID string) (*attendanceDomain.Student, error)
}

// Recorder handles card scans: registrations and presence check-ins.
type Recorder interface {
	// RegisterStudent enrolls a student in the course directory and appends
	// an encrypted registration record. A card already in the directory
	// yields OutcomeDuplicate without a second record.
	RegisterStudent(ctx context.Context, course string, student *attendanceDomain.Student) (attendanceDomain.Outcome, error)

	// RecordPresence processes one card scan inside a running session and
	// classifies it as Accepted, Duplicate or StudentUnknown. Only Accepted
	// appends a ledger record.
	RecordPresence(ctx context.Context, session *attendanceDomain.Session, cardID string) (attendanceDomain.Outcome, error)
}

// DecryptedRecord is one batch decryption result. Either CardID is set or
// Err carries the per-record failure; failures never abort the batch.
type DecryptedRecord struct {
	Record *ledgerDomain.Record
	CardID string
	Err    error
}

// Decryptor recovers card identifiers from an operation's archived records.
type Decryptor interface {
	// DecryptBatch decrypts every record of the operation. A missing key
	// aborts the whole batch with keysDomain.ErrKeyMissing; a corrupted
	// record only fails its own entry.
	DecryptBatch(ctx context.Context, op keysDomain.Operation) ([]DecryptedRecord, error)
}
