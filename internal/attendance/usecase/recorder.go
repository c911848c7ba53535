package usecase

import (
	"context"
	"log/slog"
	"time"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	keysService "github.com/allisson/attendance/internal/keys/service"
	keysUsecase "github.com/allisson/attendance/internal/keys/usecase"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
	ledgerUsecase "github.com/allisson/attendance/internal/ledger/usecase"
)

// lessonTimeLayout formats the check-in time annotation of lesson records.
const lessonTimeLayout = "15:04:05"

// examGradePlaceholder is the annotation of a fresh exam record. The grade
// is filled in out of band after correction.
const examGradePlaceholder = " "

// recorder implements Recorder.
//
// Side effects run in a fixed order: directory access first, then key
// resolution, encryption and the ledger append. A failure after the
// directory insert leaves the insert committed and returns the error, so a
// retried registration converges instead of double-enrolling.
type recorder struct {
	directory StudentDirectory
	resolver  keysUsecase.KeyResolver
	cipher    keysService.Cipher
	ledger    ledgerUsecase.Ledger
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecorder creates a new Recorder.
func NewRecorder(
	directory StudentDirectory,
	resolver keysUsecase.KeyResolver,
	cipher keysService.Cipher,
	ledger ledgerUsecase.Ledger,
	logger *slog.Logger,
) Recorder {
	return &recorder{
		directory: directory,
		resolver:  resolver,
		cipher:    cipher,
		ledger:    ledger,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterStudent enrolls a student and appends the registration record.
func (r *recorder) RegisterStudent(
	ctx context.Context,
	course string,
	student *attendanceDomain.Student,
) (attendanceDomain.Outcome, error) {
	if err := student.Validate(); err != nil {
		return "", err
	}

	op := keysDomain.Operation{Kind: keysDomain.KindRegistration, Course: course}
	if err := op.Validate(); err != nil {
		return "", err
	}

	inserted, err := r.directory.InsertIfAbsent(ctx, student)
	if err != nil {
		// Registration is idempotent by matriculation: the same student
		// presenting a different card is a duplicate, not a failure.
		if apperrors.Is(err, attendanceDomain.ErrMatriculationTaken) {
			r.logger.Info("matriculation already registered",
				slog.String("course", course),
				slog.String("matriculation", student.Matriculation),
			)
			return attendanceDomain.OutcomeDuplicate, nil
		}
		return "", err
	}
	if !inserted {
		r.logger.Info("card already registered",
			slog.String("course", course),
			slog.String("matriculation", student.Matriculation),
		)
		return attendanceDomain.OutcomeDuplicate, nil
	}

	if err := r.appendRecord(ctx, op, student, ""); err != nil {
		// The directory insert stays committed; the caller retries the
		// record emission.
		return "", apperrors.Wrap(err, "student enrolled but registration record failed")
	}

	r.logger.Info("student registered",
		slog.String("course", course),
		slog.String("matriculation", student.Matriculation),
	)
	return attendanceDomain.OutcomeAccepted, nil
}

// RecordPresence processes one card scan inside a running session.
func (r *recorder) RecordPresence(
	ctx context.Context,
	session *attendanceDomain.Session,
	cardID string,
) (attendanceDomain.Outcome, error) {
	if err := session.ScanReceived(); err != nil {
		return "", err
	}
	defer func() { _ = session.ScanProcessed() }()

	if session.Seen(cardID) {
		return attendanceDomain.OutcomeDuplicate, nil
	}

	student, err := r.directory.FindByCardID(ctx, cardID)
	if err != nil {
		if apperrors.Is(err, attendanceDomain.ErrStudentUnknown) {
			r.logger.Warn("unknown card scanned",
				slog.String("course", session.Operation().Course),
			)
			return attendanceDomain.OutcomeStudentUnknown, nil
		}
		return "", err
	}

	op := session.Operation()
	if err := r.appendRecord(ctx, op, student, r.annotation(op)); err != nil {
		return "", err
	}

	session.MarkSeen(cardID)
	return attendanceDomain.OutcomeAccepted, nil
}

// annotation returns the record annotation for the operation kind: check-in
// time for lessons, the blank grade placeholder for exams.
func (r *recorder) annotation(op keysDomain.Operation) string {
	switch op.Kind {
	case keysDomain.KindLesson:
		return r.now().Format(lessonTimeLayout)
	case keysDomain.KindExam:
		return examGradePlaceholder
	default:
		return ""
	}
}

// appendRecord resolves the operation's key, encrypts the card identifier
// and appends the ledger record.
func (r *recorder) appendRecord(
	ctx context.Context,
	op keysDomain.Operation,
	student *attendanceDomain.Student,
	annotation string,
) error {
	material, err := r.resolver.ResolveOrCreate(ctx, op)
	if err != nil {
		return err
	}

	ciphertext, err := r.cipher.Encrypt(material.Key, material.IV, []byte(student.CardID))
	if err != nil {
		return apperrors.Wrap(err, "failed to encrypt card identifier")
	}

	record := &ledgerDomain.Record{
		Kind:          op.Kind,
		Course:        op.Course,
		Qualifier:     op.Qualifier,
		Ciphertext:    ciphertext,
		FirstName:     student.FirstName,
		LastName:      student.LastName,
		Matriculation: student.Matriculation,
		Annotation:    annotation,
	}

	return r.ledger.Append(ctx, record)
}
