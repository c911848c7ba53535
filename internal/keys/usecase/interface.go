// Package usecase implements key resolution for attendance operations.
package usecase

import (
	"context"

	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// KeyStore abstracts key-row persistence. Implementations live in
// internal/keys/repository.
type KeyStore interface {
	// TryInsert atomically stores material for op unless a row already
	// exists. Returns the authoritative stored material and whether this
	// call created the row.
	TryInsert(ctx context.Context, op keysDomain.Operation, material keysDomain.KeyMaterial) (keysDomain.KeyMaterial, bool, error)

	// Lookup reads the stored material for op, failing with
	// keysDomain.ErrKeyMissing when no row exists.
	Lookup(ctx context.Context, op keysDomain.Operation) (keysDomain.KeyMaterial, error)

	// ListByCourse returns every key row of a course for the sheet export.
	ListByCourse(ctx context.Context, course string) ([]keysDomain.KeyRow, error)
}

// KeyResolver resolves the key material an operation encrypts under.
type KeyResolver interface {
	// ResolveOrCreate returns the operation's material, issuing fresh
	// material on first use. Idempotent: every call for the same operation
	// returns bit-identical material.
	ResolveOrCreate(ctx context.Context, op keysDomain.Operation) (keysDomain.KeyMaterial, error)

	// ResolveExisting returns the operation's material without ever
	// creating it. Fails with keysDomain.ErrKeyMissing when absent.
	ResolveExisting(ctx context.Context, op keysDomain.Operation) (keysDomain.KeyMaterial, error)

	// ExportSheet renders the course's key sheet for external archival.
	ExportSheet(ctx context.Context, course string) (string, error)
}
