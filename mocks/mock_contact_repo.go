package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/domain"
)

// MockContactRepo is a mock implementation of port.ContactRepository.
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepo) GetByID(ctx context.Context, contactID uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepo) List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, int, error) {
	args := m.Called(ctx, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Contact), args.Int(1), args.Error(2)
}

func (m *MockContactRepo) Update(ctx context.Context, contact *domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepo) Delete(ctx context.Context, contactID uuid.UUID) error {
	args := m.Called(ctx, contactID)
	return args.Error(0)
}
