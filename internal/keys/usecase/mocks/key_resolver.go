// Package mocks provides mock implementations for testing key consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// MockKeyResolver is a mock implementation of KeyResolver for testing.
type MockKeyResolver struct {
	mock.Mock
}

// ResolveOrCreate mocks the ResolveOrCreate method of KeyResolver.
func (m *MockKeyResolver) ResolveOrCreate(
	ctx context.Context,
	op keysDomain.Operation,
) (keysDomain.KeyMaterial, error) {
	args := m.Called(ctx, op)
	return args.Get(0).(keysDomain.KeyMaterial), args.Error(1)
}

// ResolveExisting mocks the ResolveExisting method of KeyResolver.
func (m *MockKeyResolver) ResolveExisting(
	ctx context.Context,
	op keysDomain.Operation,
) (keysDomain.KeyMaterial, error) {
	args := m.Called(ctx, op)
	return args.Get(0).(keysDomain.KeyMaterial), args.Error(1)
}

// ExportSheet mocks the ExportSheet method of KeyResolver.
func (m *MockKeyResolver) ExportSheet(ctx context.Context, course string) (string, error) {
	args := m.Called(ctx, course)
	return args.String(0), args.Error(1)
}
