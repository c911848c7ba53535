package usecase

import (
	"context"
	"time"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	"github.com/allisson/attendance/internal/metrics"
)

// recorderWithMetrics decorates Recorder with metrics instrumentation.
type recorderWithMetrics struct {
	next    Recorder
	metrics metrics.BusinessMetrics
}

// NewRecorderWithMetrics wraps a Recorder with metrics recording.
func NewRecorderWithMetrics(rec Recorder, m metrics.BusinessMetrics) Recorder {
	return &recorderWithMetrics{
		next:    rec,
		metrics: m,
	}
}

// RegisterStudent records metrics for registrations, using the outcome as
// the status on success.
func (r *recorderWithMetrics) RegisterStudent(
	ctx context.Context,
	course string,
	student *attendanceDomain.Student,
) (attendanceDomain.Outcome, error) {
	start := time.Now()
	outcome, err := r.next.RegisterStudent(ctx, course, student)

	status := string(outcome)
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "attendance", "register_student", status)
	r.metrics.RecordDuration(ctx, "attendance", "register_student", time.Since(start), status)

	return outcome, err
}

// RecordPresence records metrics for presence check-ins.
func (r *recorderWithMetrics) RecordPresence(
	ctx context.Context,
	session *attendanceDomain.Session,
	cardID string,
) (attendanceDomain.Outcome, error) {
	start := time.Now()
	outcome, err := r.next.RecordPresence(ctx, session, cardID)

	status := string(outcome)
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "attendance", "record_presence", status)
	r.metrics.RecordDuration(ctx, "attendance", "record_presence", time.Since(start), status)

	return outcome, err
}

// decryptorWithMetrics decorates Decryptor with metrics instrumentation.
type decryptorWithMetrics struct {
	next    Decryptor
	metrics metrics.BusinessMetrics
}

// NewDecryptorWithMetrics wraps a Decryptor with metrics recording.
func NewDecryptorWithMetrics(dec Decryptor, m metrics.BusinessMetrics) Decryptor {
	return &decryptorWithMetrics{
		next:    dec,
		metrics: m,
	}
}

// DecryptBatch records metrics for report decryption batches.
func (d *decryptorWithMetrics) DecryptBatch(
	ctx context.Context,
	op keysDomain.Operation,
) ([]DecryptedRecord, error) {
	start := time.Now()
	results, err := d.next.DecryptBatch(ctx, op)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "attendance", "decrypt_batch", status)
	d.metrics.RecordDuration(ctx, "attendance", "decrypt_batch", time.Since(start), status)

	return results, err
}
