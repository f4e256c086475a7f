package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/domain"
)

// MockAuditLogRepo is a mock implementation of port.AuditLogRepository.
type MockAuditLogRepo struct {
	mock.Mock
}

func (m *MockAuditLogRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	args := m.Called(ctx, documentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Int(1), args.Error(2)
}

func (m *MockAuditLogRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}
