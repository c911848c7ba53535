// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	attendanceUsecase "github.com/allisson/attendance/internal/attendance/usecase"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// MockDecryptor is a mock implementation of Decryptor for testing.
type MockDecryptor struct {
	mock.Mock
}

// DecryptBatch mocks the DecryptBatch method of Decryptor.
func (m *MockDecryptor) DecryptBatch(
	ctx context.Context,
	op keysDomain.Operation,
) ([]attendanceUsecase.DecryptedRecord, error) {
	args := m.Called(ctx, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]attendanceUsecase.DecryptedRecord), args.Error(1)
}
