package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/model"
)

type CompanyRepositoryInterface interface {
	GetByID(ctx context.Context, ownerID, id string) (*model.Company, error)
	FindByName(ctx context.Context, ownerID, name string) (*model.Company, error)
	List(ctx context.Context, ownerID string) ([]model.Company, error)
	Create(ctx context.Context, c *model.Company) error
	Delete(ctx context.Context, ownerID, id string) error
}

type CompanyRepository struct {
	DB *sql.DB
}

const companyColumns = `id, user_id, name, website, linkedin_url, notes, created_at`

func scanCompany(row interface{ Scan(...any) error }, c *model.Company) error {
	return row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Website, &c.LinkedInURL, &c.Notes, &c.CreatedAt)
}

func (r *CompanyRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id=$1 AND user_id=$2`
	var c model.Company
	if err := scanCompany(r.DB.QueryRowContext(ctx, query, id, ownerID), &c); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("company", id)
		}
		return nil, err
	}
	return &c, nil
}

// FindByName returns nil, nil when the owner has no company with that name.
func (r *CompanyRepository) FindByName(ctx context.Context, ownerID, name string) (*model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id=$1 AND lower(name)=lower($2) LIMIT 1`
	var c model.Company
	if err := scanCompany(r.DB.QueryRowContext(ctx, query, ownerID, name), &c); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) List(ctx context.Context, ownerID string) ([]model.Company, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE user_id=$1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []model.Company{}
	for rows.Next() {
		var c model.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// Create inserts c. If the owner already has a company with the same name the
// existing row is loaded into c instead.
func (r *CompanyRepository) Create(ctx context.Context, c *model.Company) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO companies (id, user_id, name, website, linkedin_url, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.OwnerID, c.Name, c.Website, c.LinkedInURL, c.Notes, c.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		existing, findErr := r.FindByName(ctx, c.OwnerID, c.Name)
		if findErr != nil {
			return findErr
		}
		if existing != nil {
			*c = *existing
			return nil
		}
	}
	return err
}

func (r *CompanyRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM companies WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	return expectOne(res, appErrors.NewNotFound("company", id))
}

var _ CompanyRepositoryInterface = (*CompanyRepository)(nil)
