// Package mocks provides mock implementations for testing attendance
// consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	attendanceDomain "github.com/allisson/attendance/internal/attendance/domain"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

// MockStudentDirectory is a mock implementation of StudentDirectory for testing.
type MockStudentDirectory struct {
	mock.Mock
}

// InsertIfAbsent mocks the InsertIfAbsent method of StudentDirectory.
func (m *MockStudentDirectory) InsertIfAbsent(
	ctx context.Context,
	student *attendanceDomain.Student,
) (bool, error) {
	args := m.Called(ctx, student)
	return args.Bool(0), args.Error(1)
}

// FindByCardID mocks the FindByCardID method of StudentDirectory.
func (m *MockStudentDirectory) FindByCardID(
	ctx context.Context,
	cardID string,
) (*attendanceDomain.Student, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceDomain.Student), args.Error(1)
}

// MockLedger is a mock implementation of ledger usecase Ledger for testing.
type MockLedger struct {
	mock.Mock
}

// Append mocks the Append method of Ledger.
func (m *MockLedger) Append(ctx context.Context, record *ledgerDomain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// RecordsByOperation mocks the RecordsByOperation method of Ledger.
func (m *MockLedger) RecordsByOperation(
	ctx context.Context,
	op keysDomain.Operation,
) ([]*ledgerDomain.Record, error) {
	args := m.Called(ctx, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledgerDomain.Record), args.Error(1)
}

// CountByOperation mocks the CountByOperation method of Ledger.
func (m *MockLedger) CountByOperation(ctx context.Context, op keysDomain.Operation) (int64, error) {
	args := m.Called(ctx, op)
	return args.Get(0).(int64), args.Error(1)
}

// VerifyCourse mocks the VerifyCourse method of Ledger.
func (m *MockLedger) VerifyCourse(ctx context.Context, course string) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

// MockRecorder is a mock implementation of Recorder for testing.
type MockRecorder struct {
	mock.Mock
}

// RegisterStudent mocks the RegisterStudent method of Recorder.
func (m *MockRecorder) RegisterStudent(
	ctx context.Context,
	course string,
	student *attendanceDomain.Student,
) (attendanceDomain.Outcome, error) {
	args := m.Called(ctx, course, student)
	return args.Get(0).(attendanceDomain.Outcome), args.Error(1)
}

// RecordPresence mocks the RecordPresence method of Recorder.
func (m *MockRecorder) RecordPresence(
	ctx context.Context,
	session *attendanceDomain.Session,
	cardID string,
) (attendanceDomain.Outcome, error) {
	args := m.Called(ctx, session, cardID)
	return args.Get(0).(attendanceDomain.Outcome), args.Error(1)
}
