package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	attendanceMocks "github.com/allisson/attendance/internal/attendance/usecase/mocks"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

func lessonOp() keysDomain.Operation {
	return keysDomain.Operation{Kind: keysDomain.KindLesson, Course: "CS101", Qualifier: "Lecture 5"}
}

func TestRunPresenceSession(t *testing.T) {
	ctx := context.Background()

	t.Run("records scans until stop word", func(t *testing.T) {
		mockRecorder := &attendanceMocks.MockRecorder{}
		mockRecorder.On("RecordPresence", ctx, mock.Anything, "42").
			Return(attendanceDomain.OutcomeAccepted, nil).Once()
		mockRecorder.On("RecordPresence", ctx, mock.Anything, "42").
			Return(attendanceDomain.OutcomeDuplicate, nil).Once()
		mockRecorder.On("RecordPresence", ctx, mock.Anything, "99").
			Return(attendanceDomain.OutcomeStudentUnknown, nil).Once()

		userInput := "42\n42\n99\nstop\n"
		var out bytes.Buffer
		io := IOTuple{Reader: bytes.NewBufferString(userInput), Writer: &out}

		err := RunPresenceSession(ctx, mockRecorder, testLogger(), lessonOp(), io)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Recorded card 42")
		require.Contains(t, out.String(), "Duplicate card 42 ignored")
		require.Contains(t, out.String(), "Unknown card 99, no record appended")
		require.Contains(t, out.String(), "Session closed")
		mockRecorder.AssertExpectations(t)
	})

	t.Run("closes on exhausted input", func(t *testing.T) {
		mockRecorder := &attendanceMocks.MockRecorder{}

		var out bytes.Buffer
		io := IOTuple{Reader: bytes.NewBufferString(""), Writer: &out}

		err := RunPresenceSession(ctx, mockRecorder, testLogger(), lessonOp(), io)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Session closed")
	})

	t.Run("invalid operation rejected before starting", func(t *testing.T) {
		mockRecorder := &attendanceMocks.MockRecorder{}

		op := keysDomain.Operation{Kind: keysDomain.KindLesson, Course: ""}
		var out bytes.Buffer
		io := IOTuple{Reader: bytes.NewBufferString("42\n"), Writer: &out}

		err := RunPresenceSession(ctx, mockRecorder, testLogger(), op, io)

		require.Error(t, err)
		mockRecorder.AssertNotCalled(t, "RecordPresence", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("infrastructure error ends the session", func(t *testing.T) {
		mockRecorder := &attendanceMocks.MockRecorder{}
		mockRecorder.On("RecordPresence", ctx, mock.Anything, "42").
			Return(attendanceDomain.Outcome(""), attendanceDomain.ErrDirectoryUnavailable)

		var out bytes.Buffer
		io := IOTuple{Reader: bytes.NewBufferString("42\n"), Writer: &out}

		err := RunPresenceSession(ctx, mockRecorder, testLogger(), lessonOp(), io)

		require.ErrorIs(t, err, attendanceDomain.ErrDirectoryUnavailable)
	})
}
