package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/domain"
)

// MockSignerRepo is a mock implementation of port.SignerRepository.
type MockSignerRepo struct {
	mock.Mock
}

func (m *MockSignerRepo) Create(ctx context.Context, signer *domain.SignerWorkflow) error {
	args := m.Called(ctx, signer)
	return args.Error(0)
}

func (m *MockSignerRepo) GetByID(ctx context.Context, signerID uuid.UUID) (*domain.SignerWorkflow, error) {
	args := m.Called(ctx, signerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignerWorkflow), args.Error(1)
}

func (m *MockSignerRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.SignerWorkflow, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignerWorkflow), args.Error(1)
}

func (m *MockSignerRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.SignerWorkflow, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SignerWorkflow), args.Error(1)
}

func (m *MockSignerRepo) SetTokenHash(ctx context.Context, signerID uuid.UUID, tokenHash string) error {
	args := m.Called(ctx, signerID, tokenHash)
	return args.Error(0)
}

func (m *MockSignerRepo) UpdateOrder(ctx context.Context, signerID uuid.UUID, order int) error {
	args := m.Called(ctx, signerID, order)
	return args.Error(0)
}

func (m *MockSignerRepo) UpdateStatus(ctx context.Context, signerID uuid.UUID, status domain.SignerStatus, at time.Time) error {
	args := m.Called(ctx, signerID, status, at)
	return args.Error(0)
}

func (m *MockSignerRepo) Delete(ctx context.Context, signerID uuid.UUID) error {
	args := m.Called(ctx, signerID)
	return args.Error(0)
}
