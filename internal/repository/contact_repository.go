package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/model"
)

// ContactRepositoryInterface defines methods used by service
type ContactRepositoryInterface interface {
	GetByID(ctx context.Context, ownerID, id string) (*model.Contact, error)
	List(ctx context.Context, ownerID string) ([]model.Contact, error)
	Create(ctx context.Context, c *model.Contact) error
	Delete(ctx context.Context, ownerID, id string) error
}

// ContactRepository is the concrete implementation
type ContactRepository struct {
	DB *sql.DB
}

const contactColumns = `id, user_id, name, role, email, linkedin_url, phone, company_id,
        company_name_cache, notes, tags, created_at`

func scanContact(row interface{ Scan(...any) error }, c *model.Contact) error {
	return row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Role, &c.Email, &c.LinkedInURL, &c.Phone,
		&c.CompanyID, &c.CompanyNameCache, &c.Notes, (*pq.StringArray)(&c.Tags), &c.CreatedAt)
}

// GetByID fetches a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
	var c model.Contact
	if err := scanContact(r.DB.QueryRowContext(ctx, query, id, ownerID), &c); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("contact", id)
		}
		return nil, err
	}
	return &c, nil
}

// List fetches all of an owner's contacts, by name
func (r *ContactRepository) List(ctx context.Context, ownerID string) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO contacts (id, user_id, name, role, email, linkedin_url, phone, company_id,
            company_name_cache, notes, tags, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.OwnerID, c.Name, c.Role, c.Email, c.LinkedInURL, c.Phone,
		c.CompanyID, c.CompanyNameCache, c.Notes, pq.Array(nonNil(c.Tags)), c.CreatedAt)
	return err
}

func (r *ContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	return expectOne(res, appErrors.NewNotFound("contact", id))
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
