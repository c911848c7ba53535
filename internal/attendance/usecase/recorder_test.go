package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	attendanceMocks "github.com/allisson/attendance/internal/attendance/usecase/mocks"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	keysService "github.com/allisson/attendance/internal/keys/service"
	keysUsecaseMocks "github.com/allisson/attendance/internal/keys/usecase/mocks"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generateMaterial(t *testing.T) keysDomain.KeyMaterial {
	t.Helper()

	material, err := keysService.NewGenerator().Generate()
	require.NoError(t, err)
	return material
}

func mariaRossi() *attendanceDomain.Student {
	return &attendanceDomain.Student{
		CardID:        "42",
		FirstName:     "Maria",
		LastName:      "Rossi",
		Matriculation: "M001",
	}
}

type recorderFixture struct {
	directory *attendanceMocks.MockStudentDirectory
	resolver  *keysUsecaseMocks.MockKeyResolver
	ledger    *attendanceMocks.MockLedger
	recorder  Recorder
}

func newRecorderFixture() *recorderFixture {
	f := &recorderFixture{
		directory: &attendanceMocks.MockStudentDirectory{},
		resolver:  &keysUsecaseMocks.MockKeyResolver{},
		ledger:    &attendanceMocks.MockLedger{},
	}
	f.recorder = NewRecorder(f.directory, f.resolver, keysService.NewAESCFB(), f.ledger, testLogger())
	return f
}

func TestRecorder_RegisterStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted appends an encrypted registration record", func(t *testing.T) {
		f := newRecorderFixture()
		material := generateMaterial(t)
		student := mariaRossi()
		registrationOp := keysDomain.Operation{Kind: keysDomain.KindRegistration, Course: "CS101"}

		f.directory.On("InsertIfAbsent", ctx, student).Return(true, nil).Once()
		f.resolver.On("ResolveOrCreate", ctx, registrationOp).Return(material, nil).Once()

		var appended *ledgerDomain.Record
		f.ledger.On("Append", ctx, mock.AnythingOfType("*domain.Record")).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*ledgerDomain.Record)
			}).
			Return(nil).Once()

		outcome, err := f.recorder.RegisterStudent(ctx, "CS101", student)
		require.NoError(t, err)
		assert.Equal(t, attendanceDomain.OutcomeAccepted, outcome)

		require.NotNil(t, appended)
		assert.Equal(t, keysDomain.KindRegistration, appended.Kind)
		assert.Equal(t, "CS101", appended.Course)
		assert.Empty(t, appended.Qualifier)
		assert.Empty(t, appended.Annotation)
		assert.Equal(t, "Maria", appended.FirstName)
		assert.Equal(t, "Rossi", appended.LastName)
		assert.Equal(t, "M001", appended.Matriculation)

		plain, err := keysService.NewAESCFB().Decrypt(material.Key, material.IV, appended.Ciphertext)
		require.NoError(t, err)
		assert.Equal(t, "42", string(plain))

		f.directory.AssertExpectations(t)
		f.resolver.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
	})

	t.Run("registered card yields duplicate without a record", func(t *testing.T) {
		f := newRecorderFixture()
		student := mariaRossi()

		f.directory.On("InsertIfAbsent", ctx, student).Return(false, nil).Once()

		outcome, err := f.recorder.RegisterStudent(ctx, "CS101", student)
		require.NoError(t, err)
		assert.Equal(t, attendanceDomain.OutcomeDuplicate, outcome)

		f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		f.resolver.AssertNotCalled(t, "ResolveOrCreate", mock.Anything, mock.Anything)
	})

	t.Run("invalid student is rejected before any side effect", func(t *testing.T) {
		f := newRecorderFixture()
		student := mariaRossi()
		student.Matriculation = ""

		_, err := f.recorder.RegisterStudent(ctx, "CS101", student)
		assert.ErrorIs(t, err, attendanceDomain.ErrStudentInvalid)
		f.directory.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
	})

	t.Run("taken matriculation yields duplicate without a record", func(t *testing.T) {
		f := newRecorderFixture()
		student := mariaRossi()
		student.CardID = "99"

		f.directory.On("InsertIfAbsent", ctx, student).
			Return(false, attendanceDomain.ErrMatriculationTaken).Once()

		outcome, err := f.recorder.RegisterStudent(ctx, "CS101", student)
		require.NoError(t, err)
		assert.Equal(t, attendanceDomain.OutcomeDuplicate, outcome)

		f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		f.resolver.AssertNotCalled(t, "ResolveOrCreate", mock.Anything, mock.Anything)
	})

	t.Run("append failure leaves the enrollment committed", func(t *testing.T) {
		f := newRecorderFixture()
		material := generateMaterial(t)
		student := mariaRossi()

		f.directory.On("InsertIfAbsent", ctx, student).Return(true, nil).Once()
		f.resolver.On("ResolveOrCreate", ctx, mock.Anything).Return(material, nil).Once()
		f.ledger.On("Append", ctx, mock.Anything).Return(ledgerDomain.ErrLedgerUnavailable).Once()

		_, err := f.recorder.RegisterStudent(ctx, "CS101", student)
		assert.ErrorIs(t, err, ledgerDomain.ErrLedgerUnavailable)
	})
}

func TestRecorder_RecordPresence(t *testing.T) {
	ctx := context.Background()
	lessonOp := keysDomain.Operation{Kind: keysDomain.KindLesson, Course: "CS101", Qualifier: "Lecture 5"}

	startedSession := func(t *testing.T, op keysDomain.Operation) *attendanceDomain.Session {
		t.Helper()
		session := attendanceDomain.NewSession(op)
		require.NoError(t, session.Start())
		return session
	}

	t.Run("accepted then duplicate appends a single record", func(t *testing.T) {
		f := newRecorderFixture()
		material := generateMaterial(t)
		session := startedSession(t, lessonOp)

		f.directory.On("FindByCardID", ctx, "42").Return(mariaRossi(), nil).Once()
		f.resolver.On("ResolveOrCreate", ctx, lessonOp).Return(material, nil).Once()
		f.ledger.On("Append", ctx, mock.Anything).Return(nil).Once()

		first, err := f.recorder.RecordPresence(ctx, session, "42")
		require.NoError(t, err)
		assert.Equal(t, attendanceDomain.OutcomeAccepted, first)
		assert.True(t, session.Seen("42"))

		second, err := f.recorder.RecordPresence(ctx, session, "42")
		require.NoError(t, err)
		assert.Equal(t, attendanceDomain.OutcomeDuplicate, second)
		assert.Equal(t, 1, session.RosterSize())

		f.ledger.AssertNumberOfCalls(t, "Append", 1)
		assert.Equal(t, attendanceDomain.SessionAwaitingScan, session.State())
	})

	t.Run("unknown card emits nothing", func(t *testing.T) {
		f := newRecorderFixture()
		session := startedSession(t, lessonOp)

		f.directory.On("FindByCardID", ctx, "99").
			Return(nil, attendanceDomain.ErrStudentUnknown).Once()

		outcome, err := f.recorder.RecordPresence(ctx, session, "99")
		require.NoError(t, err)
		assert.Equal(t, attendanceDomain.OutcomeStudentUnknown, outcome)
		assert.False(t, session.Seen("99"))
		f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("lesson record carries the check-in time", func(t *testing.T) {
		f := newRecorderFixture()
		material := generateMaterial(t)
		session := startedSession(t, lessonOp)

		checkIn := time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)
		f.recorder.(*recorder).now = func() time.Time { return checkIn }

		f.directory.On("FindByCardID", ctx, "42").Return(mariaRossi(), nil).Once()
		f.resolver.On("ResolveOrCreate", ctx, lessonOp).Return(material, nil).Once()

		var appended *ledgerDomain.Record
		f.ledger.On("Append", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*ledgerDomain.Record)
			}).
			Return(nil).Once()

		_, err := f.recorder.RecordPresence(ctx, session, "42")
		require.NoError(t, err)
		assert.Equal(t, "10:30:00", appended.Annotation)
	})

	t.Run("exam record carries the blank grade placeholder", func(t *testing.T) {
		f := newRecorderFixture()
		material := generateMaterial(t)
		examOp := keysDomain.Operation{Kind: keysDomain.KindExam, Course: "CS101", Qualifier: "15-06-2026"}
		session := startedSession(t, examOp)

		f.directory.On("FindByCardID", ctx, "42").Return(mariaRossi(), nil).Once()
		f.resolver.On("ResolveOrCreate", ctx, examOp).Return(material, nil).Once()

		var appended *ledgerDomain.Record
		f.ledger.On("Append", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*ledgerDomain.Record)
			}).
			Return(nil).Once()

		_, err := f.recorder.RecordPresence(ctx, session, "42")
		require.NoError(t, err)
		assert.Equal(t, " ", appended.Annotation)
		assert.Equal(t, "15-06-2026", appended.Qualifier)
	})

	t.Run("scan on a closed session is rejected", func(t *testing.T) {
		f := newRecorderFixture()
		session := startedSession(t, lessonOp)
		require.NoError(t, session.End())

		_, err := f.recorder.RecordPresence(ctx, session, "42")
		assert.ErrorIs(t, err, attendanceDomain.ErrSessionClosed)
	})

	t.Run("append failure does not mark the card seen", func(t *testing.T) {
		f := newRecorderFixture()
		material := generateMaterial(t)
		session := startedSession(t, lessonOp)

		f.directory.On("FindByCardID", ctx, "42").Return(mariaRossi(), nil).Once()
		f.resolver.On("ResolveOrCreate", ctx, lessonOp).Return(material, nil).Once()
		f.ledger.On("Append", ctx, mock.Anything).Return(ledgerDomain.ErrLedgerUnavailable).Once()

		_, err := f.recorder.RecordPresence(ctx, session, "42")
		assert.ErrorIs(t, err, ledgerDomain.ErrLedgerUnavailable)
		assert.False(t, session.Seen("42"), "a failed emission must stay retryable")
	})
}
