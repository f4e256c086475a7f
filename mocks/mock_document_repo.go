package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentRepo) UpdateStatus(ctx context.Context, docID uuid.UUID, status domain.DocumentStatus) error {
	args := m.Called(ctx, docID, status)
	return args.Error(0)
}

func (m *MockDocumentRepo) MarkSent(ctx context.Context, docID uuid.UUID, expiresAt *time.Time) error {
	args := m.Called(ctx, docID, expiresAt)
	return args.Error(0)
}

func (m *MockDocumentRepo) MarkCompleted(ctx context.Context, docID uuid.UUID, completedS3Key, completedHash string, completedAt time.Time) error {
	args := m.Called(ctx, docID, completedS3Key, completedHash, completedAt)
	return args.Error(0)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, docID uuid.UUID) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}
