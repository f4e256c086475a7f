package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"heliosign/internal/domain"
	"heliosign/internal/port"
)

type contactRepo struct {
	db *sqlx.DB
}

// NewContactRepo creates a new PostgreSQL-backed ContactRepository.
func NewContactRepo(db *sqlx.DB) port.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now().UTC()

	query := `INSERT INTO contacts (id, name, email, phone, company, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Company, contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("contactRepo.Create: %w", err)
	}
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, contactID uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.GetContext(ctx, &contact, "SELECT * FROM contacts WHERE id = $1", contactID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("contactRepo.GetByID: %w", err)
	}
	return &contact, nil
}

func (r *contactRepo) List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM contacts WHERE name ILIKE $1 OR email ILIKE $1 OR company ILIKE $1",
		pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("contactRepo.List count: %w", err)
	}

	var contacts []domain.Contact
	err = r.db.SelectContext(ctx, &contacts,
		`SELECT * FROM contacts
		 WHERE name ILIKE $1 OR email ILIKE $1 OR company ILIKE $1
		 ORDER BY name ASC
		 LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("contactRepo.List: %w", err)
	}
	return contacts, total, nil
}

func (r *contactRepo) Update(ctx context.Context, contact *domain.Contact) error {
	query := `UPDATE contacts SET name = $1, email = $2, phone = $3, company = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		contact.Name, contact.Email, contact.Phone, contact.Company, contact.ID)
	if err != nil {
		return fmt.Errorf("contactRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *contactRepo) Delete(ctx context.Context, contactID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = $1", contactID)
	if err != nil {
		return fmt.Errorf("contactRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
