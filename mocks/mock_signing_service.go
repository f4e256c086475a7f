package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/service"
)

// MockSigningService is a mock implementation of service.SigningService.
type MockSigningService struct {
	mock.Mock
}

func (m *MockSigningService) View(ctx context.Context, rawToken, ip string) (*service.SigningView, error) {
	args := m.Called(ctx, rawToken, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SigningView), args.Error(1)
}

func (m *MockSigningService) SignField(ctx context.Context, rawToken string, fieldID uuid.UUID, input service.SignFieldInput, ip string) (*service.SigningView, error) {
	args := m.Called(ctx, rawToken, fieldID, input, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SigningView), args.Error(1)
}

func (m *MockSigningService) Decline(ctx context.Context, rawToken, reason, ip string) error {
	args := m.Called(ctx, rawToken, reason, ip)
	return args.Error(0)
}
