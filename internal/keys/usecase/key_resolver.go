package usecase

import (
	"context"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	keysService "github.com/allisson/attendance/internal/keys/service"
)

// keyResolver implements KeyResolver on top of a KeyStore and a Generator.
//
// Creation is get-or-create with first-writer-wins semantics. The store's
// TryInsert settles cross-process races at the unique index; singleflight
// collapses concurrent in-process resolutions of the same operation so only
// one goroutine generates material and talks to the store. A generated
// candidate that loses the race is discarded in favor of the stored row, so
// the invariant holds that exactly one key material ever exists per
// operation.
type keyResolver struct {
	store     KeyStore
	generator keysService.Generator
	group     singleflight.Group
}

// NewKeyResolver creates a new KeyResolver.
func NewKeyResolver(store KeyStore, generator keysService.Generator) KeyResolver {
	return &keyResolver{store: store, generator: generator}
}

// ResolveOrCreate returns the material for op, creating it on first use.
func (r *keyResolver) ResolveOrCreate(ctx context.Context, op keysDomain.Operation) (keysDomain.KeyMaterial, error) {
	if err := op.Validate(); err != nil {
		return keysDomain.KeyMaterial{}, err
	}

	// The NUL separator cannot appear in course names or labels, so the
	// flight key is collision free.
	flightKey := op.Course + "\x00" + op.Label()

	result, err, _ := r.group.Do(flightKey, func() (interface{}, error) {
		return r.resolveOrCreate(ctx, op)
	})
	if err != nil {
		return keysDomain.KeyMaterial{}, err
	}

	return result.(keysDomain.KeyMaterial), nil
}

func (r *keyResolver) resolveOrCreate(ctx context.Context, op keysDomain.Operation) (keysDomain.KeyMaterial, error) {
	material, err := r.store.Lookup(ctx, op)
	if err == nil {
		return material, nil
	}
	if !apperrors.Is(err, keysDomain.ErrKeyMissing) {
		return keysDomain.KeyMaterial{}, err
	}

	candidate, err := r.generator.Generate()
	if err != nil {
		return keysDomain.KeyMaterial{}, apperrors.Wrap(err, "failed to generate key material")
	}

	stored, _, err := r.store.TryInsert(ctx, op, candidate)
	if err != nil {
		return keysDomain.KeyMaterial{}, err
	}

	return stored, nil
}

// ResolveExisting returns the material for op without creating it.
func (r *keyResolver) ResolveExisting(ctx context.Context, op keysDomain.Operation) (keysDomain.KeyMaterial, error) {
	if err := op.Validate(); err != nil {
		return keysDomain.KeyMaterial{}, err
	}

	return r.store.Lookup(ctx, op)
}

// ExportSheet renders the course's full key sheet.
func (r *keyResolver) ExportSheet(ctx context.Context, course string) (string, error) {
	if course == "" {
		return "", apperrors.Wrap(keysDomain.ErrInvalidOperation, "course is required")
	}

	rows, err := r.store.ListByCourse(ctx, course)
	if err != nil {
		return "", err
	}

	return keysDomain.RenderSheet(rows), nil
}
