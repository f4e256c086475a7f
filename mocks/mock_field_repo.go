package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/domain"
)

// MockFieldRepo is a mock implementation of port.FieldRepository.
type MockFieldRepo struct {
	mock.Mock
}

func (m *MockFieldRepo) Create(ctx context.Context, field *domain.SignatureField) error {
	args := m.Called(ctx, field)
	return args.Error(0)
}

func (m *MockFieldRepo) GetByID(ctx context.Context, fieldID uuid.UUID) (*domain.SignatureField, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignatureField), args.Error(1)
}

func (m *MockFieldRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.SignatureField, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SignatureField), args.Error(1)
}

func (m *MockFieldRepo) Update(ctx context.Context, field *domain.SignatureField) error {
	args := m.Called(ctx, field)
	return args.Error(0)
}

func (m *MockFieldRepo) SetValue(ctx context.Context, fieldID uuid.UUID, value string, signedAt time.Time) error {
	args := m.Called(ctx, fieldID, value, signedAt)
	return args.Error(0)
}

func (m *MockFieldRepo) Delete(ctx context.Context, fieldID uuid.UUID) error {
	args := m.Called(ctx, fieldID)
	return args.Error(0)
}
