package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/domain"
)

// MockSignatureRepo is a mock implementation of port.SignatureRepository.
type MockSignatureRepo struct {
	mock.Mock
}

func (m *MockSignatureRepo) Create(ctx context.Context, sig *domain.Signature) error {
	args := m.Called(ctx, sig)
	return args.Error(0)
}

func (m *MockSignatureRepo) GetByField(ctx context.Context, fieldID uuid.UUID) (*domain.Signature, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signature), args.Error(1)
}

func (m *MockSignatureRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.Signature, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Signature), args.Error(1)
}
