package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"heliosign/internal/domain"
	"heliosign/internal/service"
	"heliosign/mocks"
)

func TestContactService_Create(t *testing.T) {
	contactRepo := new(mocks.MockContactRepo)
	svc := service.NewContactService(contactRepo)

	contactRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Contact")).Return(nil)

	contact, err := svc.Create(context.Background(), service.ContactInput{
		Name:    "Homeowner One",
		Email:   "owner@example.com",
		Company: "N/A",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Homeowner One", contact.Name)
	contactRepo.AssertExpectations(t)
}

func TestContactService_Update_NotFound(t *testing.T) {
	contactRepo := new(mocks.MockContactRepo)
	svc := service.NewContactService(contactRepo)

	contactID := uuid.New()
	contactRepo.On("GetByID", mock.Anything, contactID).Return(nil, domain.ErrNotFound)

	_, err := svc.Update(context.Background(), contactID, service.ContactInput{
		Name:  "Renamed",
		Email: "renamed@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContactService_Update_ReplacesFields(t *testing.T) {
	contactRepo := new(mocks.MockContactRepo)
	svc := service.NewContactService(contactRepo)

	contactID := uuid.New()
	contactRepo.On("GetByID", mock.Anything, contactID).Return(&domain.Contact{
		ID: contactID, Name: "Old Name", Email: "old@example.com", Phone: "555-0100",
	}, nil)
	contactRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.ID == contactID && c.Name == "New Name" && c.Phone == ""
	})).Return(nil)

	contact, err := svc.Update(context.Background(), contactID, service.ContactInput{
		Name:  "New Name",
		Email: "new@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", contact.Email)
	contactRepo.AssertExpectations(t)
}
