package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"heliosign/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendSigningRequest(ctx context.Context, req port.SigningRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockEmailSender) SendCompletionNotice(ctx context.Context, toEmail, toName, documentTitle string) error {
	args := m.Called(ctx, toEmail, toName, documentTitle)
	return args.Error(0)
}
