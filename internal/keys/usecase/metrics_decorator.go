package usecase

import (
	"context"
	"time"

	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	"github.com/allisson/attendance/internal/metrics"
)

// keyResolverWithMetrics decorates KeyResolver with metrics instrumentation.
type keyResolverWithMetrics struct {
	next    KeyResolver
	metrics metrics.BusinessMetrics
}

// NewKeyResolverWithMetrics wraps a KeyResolver with metrics recording.
func NewKeyResolverWithMetrics(resolver KeyResolver, m metrics.BusinessMetrics) KeyResolver {
	return &keyResolverWithMetrics{
		next:    resolver,
		metrics: m,
	}
}

// ResolveOrCreate records metrics for get-or-create key resolution.
func (k *keyResolverWithMetrics) ResolveOrCreate(
	ctx context.Context,
	op keysDomain.Operation,
) (keysDomain.KeyMaterial, error) {
	start := time.Now()
	material, err := k.next.ResolveOrCreate(ctx, op)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_resolve_or_create", status)
	k.metrics.RecordDuration(ctx, "keys", "key_resolve_or_create", time.Since(start), status)

	return material, err
}

// ResolveExisting records metrics for lookup-only key resolution.
func (k *keyResolverWithMetrics) ResolveExisting(
	ctx context.Context,
	op keysDomain.Operation,
) (keysDomain.KeyMaterial, error) {
	start := time.Now()
	material, err := k.next.ResolveExisting(ctx, op)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_resolve_existing", status)
	k.metrics.RecordDuration(ctx, "keys", "key_resolve_existing", time.Since(start), status)

	return material, err
}

// ExportSheet records metrics for key sheet exports.
func (k *keyResolverWithMetrics) ExportSheet(ctx context.Context, course string) (string, error) {
	start := time.Now()
	sheet, err := k.next.ExportSheet(ctx, course)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_sheet_export", status)
	k.metrics.RecordDuration(ctx, "keys", "key_sheet_export", time.Since(start), status)

	return sheet, err
}
