// Package repositories contains PostgreSQL data access for techstacks-engine.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/techstacks/techstacks-engine/pkg/apperrors"
	"github.com/techstacks/techstacks-engine/pkg/database"
	"github.com/techstacks/techstacks-engine/pkg/models"
)

const technologyColumns = `
	id, name, vendor_name, vendor_url, product_url, logo_url, description,
	tier, slug_title, owner_id, created_by, created_at, last_modified_by,
	last_modified_at, logo_approved, is_locked`

// TechnologyRepository defines the interface for technology data access.
// Mutations append the matching history row in the same transaction as
// the entity write, so the two can never diverge.
type TechnologyRepository interface {
	// Create inserts a new technology with a generated id, fills tech
	// with the persisted row, and appends an INSERT history record.
	Create(ctx context.Context, tech *models.Technology) error

	// Update saves an existing technology by id, fills tech with the
	// persisted row, and appends an UPDATE history record.
	// Returns apperrors.ErrNotFound if the id does not exist.
	Update(ctx context.Context, tech *models.Technology) error

	// Delete removes the technology and appends a DELETE history record
	// holding the pre-deletion snapshot with the deleting actor and time.
	// Returns apperrors.ErrNotFound if the id does not exist.
	Delete(ctx context.Context, existing *models.Technology, deletedBy string, deletedAt time.Time) error

	// GetByID returns the technology with the given id, or
	// apperrors.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Technology, error)

	// GetBySlug returns the technology with the given slug title using a
	// case-insensitive match, or apperrors.ErrNotFound.
	GetBySlug(ctx context.Context, slug string) (*models.Technology, error)

	// List returns up to limit technologies in store order.
	List(ctx context.Context, limit int) ([]*models.Technology, error)
}

// technologyRepository implements TechnologyRepository using PostgreSQL.
type technologyRepository struct {
	db *database.DB
}

// NewTechnologyRepository creates a new technology repository.
func NewTechnologyRepository(db *database.DB) TechnologyRepository {
	return &technologyRepository{db: db}
}

var _ TechnologyRepository = (*technologyRepository)(nil)

func (r *technologyRepository) Create(ctx context.Context, tech *models.Technology) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	query := `
		INSERT INTO technologies (
			name, vendor_name, vendor_url, product_url, logo_url, description,
			tier, slug_title, owner_id, created_by, created_at,
			last_modified_by, last_modified_at, logo_approved, is_locked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING` + technologyColumns

	row := tx.QueryRow(ctx, query,
		tech.Name, tech.VendorName, tech.VendorURL, tech.ProductURL,
		tech.LogoURL, tech.Description, tech.Tier, tech.SlugTitle,
		tech.OwnerID, tech.CreatedBy, tech.CreatedAt,
		tech.LastModifiedBy, tech.LastModifiedAt, tech.LogoApproved, tech.IsLocked,
	)
	persisted, err := scanTechnology(row)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %q already exists: %w", tech.SlugTitle, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create technology: %w", err)
	}
	*tech = *persisted

	history := models.NewTechnologyHistory(models.OperationInsert, tech)
	if err := insertHistory(ctx, tx, history); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *technologyRepository) Update(ctx context.Context, tech *models.Technology) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	query := `
		UPDATE technologies SET
			name = $2, vendor_name = $3, vendor_url = $4, product_url = $5,
			logo_url = $6, description = $7, tier = $8, slug_title = $9,
			owner_id = $10, created_by = $11, created_at = $12,
			last_modified_by = $13, last_modified_at = $14,
			logo_approved = $15, is_locked = $16
		WHERE id = $1
		RETURNING` + technologyColumns

	row := tx.QueryRow(ctx, query,
		tech.ID, tech.Name, tech.VendorName, tech.VendorURL, tech.ProductURL,
		tech.LogoURL, tech.Description, tech.Tier, tech.SlugTitle,
		tech.OwnerID, tech.CreatedBy, tech.CreatedAt,
		tech.LastModifiedBy, tech.LastModifiedAt, tech.LogoApproved, tech.IsLocked,
	)
	persisted, err := scanTechnology(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %q already exists: %w", tech.SlugTitle, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update technology: %w", err)
	}
	*tech = *persisted

	history := models.NewTechnologyHistory(models.OperationUpdate, tech)
	if err := insertHistory(ctx, tx, history); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *technologyRepository) Delete(ctx context.Context, existing *models.Technology, deletedBy string, deletedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	result, err := tx.Exec(ctx, `DELETE FROM technologies WHERE id = $1`, existing.ID)
	if err != nil {
		return fmt.Errorf("failed to delete technology: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// The history row records the deleting actor and time; the entity's
	// own last_modified fields stay at their pre-deletion values.
	history := models.NewTechnologyHistory(models.OperationDelete, existing)
	history.LastModifiedBy = deletedBy
	history.LastModifiedAt = deletedAt
	if err := insertHistory(ctx, tx, history); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *technologyRepository) GetByID(ctx context.Context, id int64) (*models.Technology, error) {
	query := `SELECT` + technologyColumns + ` FROM technologies WHERE id = $1`

	tech, err := scanTechnology(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get technology: %w", err)
	}

	return tech, nil
}

func (r *technologyRepository) GetBySlug(ctx context.Context, slug string) (*models.Technology, error) {
	query := `SELECT` + technologyColumns + ` FROM technologies WHERE slug_title = lower($1)`

	tech, err := scanTechnology(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get technology by slug: %w", err)
	}

	return tech, nil
}

func (r *technologyRepository) List(ctx context.Context, limit int) ([]*models.Technology, error) {
	query := `SELECT` + technologyColumns + ` FROM technologies LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list technologies: %w", err)
	}
	defer rows.Close()

	var techs []*models.Technology
	for rows.Next() {
		tech, err := scanTechnology(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technology: %w", err)
		}
		techs = append(techs, tech)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating technologies: %w", err)
	}

	return techs, nil
}

func scanTechnology(row pgx.Row) (*models.Technology, error) {
	var tech models.Technology
	err := row.Scan(
		&tech.ID,
		&tech.Name,
		&tech.VendorName,
		&tech.VendorURL,
		&tech.ProductURL,
		&tech.LogoURL,
		&tech.Description,
		&tech.Tier,
		&tech.SlugTitle,
		&tech.OwnerID,
		&tech.CreatedBy,
		&tech.CreatedAt,
		&tech.LastModifiedBy,
		&tech.LastModifiedAt,
		&tech.LogoApproved,
		&tech.IsLocked,
	)
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func insertHistory(ctx context.Context, tx pgx.Tx, history *models.TechnologyHistory) error {
	query := `
		INSERT INTO technology_history (
			id, technology_id, operation, name, vendor_name, vendor_url,
			product_url, logo_url, description, tier, slug_title, owner_id,
			created_by, created_at, last_modified_by, last_modified_at,
			logo_approved, is_locked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := tx.Exec(ctx, query,
		history.ID, history.TechnologyID, history.Operation,
		history.Name, history.VendorName, history.VendorURL,
		history.ProductURL, history.LogoURL, history.Description,
		history.Tier, history.SlugTitle, history.OwnerID,
		history.CreatedBy, history.CreatedAt,
		history.LastModifiedBy, history.LastModifiedAt,
		history.LogoApproved, history.IsLocked,
	)
	if err != nil {
		return fmt.Errorf("failed to append technology history: %w", err)
	}

	return nil
}
