package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"heliosign/internal/domain"
	"heliosign/internal/port"
)

// ContactInput is the DTO for creating or updating a CRM contact.
type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// ContactService manages the CRM contact book used to prefill signers.
type ContactService interface {
	Create(ctx context.Context, input ContactInput) (*domain.Contact, error)
	Get(ctx context.Context, contactID uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, int, error)
	Update(ctx context.Context, contactID uuid.UUID, input ContactInput) (*domain.Contact, error)
	Delete(ctx context.Context, contactID uuid.UUID) error
}

type contactService struct {
	contactRepo port.ContactRepository
}

// NewContactService creates a new contact service.
func NewContactService(contactRepo port.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) Create(ctx context.Context, input ContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("contactService.Create: %w", err)
	}
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, contactID uuid.UUID) (*domain.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("contactService.Get: %w", err)
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, int, error) {
	contacts, total, err := s.contactRepo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("contactService.List: %w", err)
	}
	return contacts, total, nil
}

func (s *contactService) Update(ctx context.Context, contactID uuid.UUID, input ContactInput) (*domain.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("contactService.Update: %w", err)
	}

	contact.Name = input.Name
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.Company = input.Company

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("contactService.Update: %w", err)
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, contactID uuid.UUID) error {
	if err := s.contactRepo.Delete(ctx, contactID); err != nil {
		return fmt.Errorf("contactService.Delete: %w", err)
	}
	return nil
}
