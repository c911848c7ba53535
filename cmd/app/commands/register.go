package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	stdio "io"
	"log/slog"
	"strings"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	attendanceUsecase "github.com/allisson/attendance/internal/attendance/usecase"
)

// RunRegister runs an interactive registration session for a course. Each
// round prompts for the student's data and a card scan, then enrolls the
// student and appends the encrypted registration record. An empty first name
// ends the session.
//
// Requirements: database must be migrated and accessible.
func RunRegister(
	ctx context.Context,
	recorder attendanceUsecase.Recorder,
	logger *slog.Logger,
	course string,
	io IOTuple,
) error {
	logger.Info("starting registration session", slog.String("course", course))

	scanner := bufio.NewScanner(io.Reader)
	writer := io.Writer

	_, _ = fmt.Fprintf(writer, "Registration session for %s\n", course)
	_, _ = fmt.Fprintln(writer, "Enter an empty first name to finish.")

	registered := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		firstName, ok := prompt(scanner, writer, "First name: ")
		if !ok || firstName == "" {
			break
		}

		lastName, ok := prompt(scanner, writer, "Last name: ")
		if !ok {
			break
		}

		matriculation, ok := prompt(scanner, writer, "Matriculation: ")
		if !ok {
			break
		}

		cardID, ok := prompt(scanner, writer, "Scan card: ")
		if !ok {
			break
		}

		student := &attendanceDomain.Student{
			CardID:        cardID,
			FirstName:     firstName,
			LastName:      lastName,
			Matriculation: matriculation,
		}

		outcome, err := recorder.RegisterStudent(ctx, course, student)
		if err != nil {
			if errors.Is(err, attendanceDomain.ErrStudentInvalid) {
				_, _ = fmt.Fprintf(writer, "Rejected: %v\n", err)
				continue
			}
			return fmt.Errorf("failed to register student: %w", err)
		}

		switch outcome {
		case attendanceDomain.OutcomeAccepted:
			registered++
			_, _ = fmt.Fprintf(writer, "Registered %s %s (card %s)\n", firstName, lastName, cardID)
		case attendanceDomain.OutcomeDuplicate:
			_, _ = fmt.Fprintf(writer, "Student %s (card %s) is already registered\n", matriculation, cardID)
		}
	}

	_, _ = fmt.Fprintf(writer, "Session closed: %d students registered\n", registered)
	logger.Info("registration session closed",
		slog.String("course", course),
		slog.Int("registered", registered),
	)

	return nil
}

// prompt writes the prompt and reads one trimmed line. The second return
// value is false when input is exhausted.
func prompt(scanner *bufio.Scanner, writer stdio.Writer, label string) (string, bool) {
	_, _ = fmt.Fprint(writer, label)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
