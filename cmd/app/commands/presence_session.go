package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	attendanceService "github.com/allisson/attendance/internal/attendance/service"
	attendanceUsecase "github.com/allisson/attendance/internal/attendance/usecase"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// stopWord ends a presence session from the card input stream.
const stopWord = "stop"

// RunPresenceSession runs an interactive check-in session for a lesson or
// exam. Card identifiers arrive one per line; each accepted scan appends an
// encrypted record. Typing "stop" or closing the input ends the session.
//
// Requirements: database must be migrated and accessible.
func RunPresenceSession(
	ctx context.Context,
	recorder attendanceUsecase.Recorder,
	logger *slog.Logger,
	op keysDomain.Operation,
	io IOTuple,
) error {
	if err := op.Validate(); err != nil {
		return err
	}

	logger.Info("starting presence session",
		slog.String("course", op.Course),
		slog.String("label", op.Label()),
	)

	session := attendanceDomain.NewSession(op)
	if err := session.Start(); err != nil {
		return err
	}

	reader := attendanceService.NewLineReader(io.Reader)
	writer := io.Writer

	_, _ = fmt.Fprintf(writer, "Recording %s for %s\n", op.Label(), op.Course)
	_, _ = fmt.Fprintf(writer, "Scan cards; type %q or close input to finish.\n", stopWord)

	for {
		cardID, err := reader.Read(ctx)
		if err != nil {
			if errors.Is(err, attendanceService.ErrReaderClosed) {
				break
			}
			_ = session.End()
			return err
		}
		if cardID == stopWord {
			break
		}

		outcome, err := recorder.RecordPresence(ctx, session, cardID)
		if err != nil {
			_ = session.End()
			return fmt.Errorf("failed to record presence: %w", err)
		}

		switch outcome {
		case attendanceDomain.OutcomeAccepted:
			_, _ = fmt.Fprintf(writer, "Recorded card %s\n", cardID)
		case attendanceDomain.OutcomeDuplicate:
			_, _ = fmt.Fprintf(writer, "Duplicate card %s ignored\n", cardID)
		case attendanceDomain.OutcomeStudentUnknown:
			_, _ = fmt.Fprintf(writer, "Unknown card %s, no record appended\n", cardID)
		}
	}

	if err := session.End(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(writer, "Session closed: %d presences recorded\n", session.RosterSize())
	logger.Info("presence session closed",
		slog.String("course", op.Course),
		slog.String("label", op.Label()),
		slog.Int("recorded", session.RosterSize()),
	)

	return nil
}
