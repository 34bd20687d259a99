package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/techstacks/techstacks-engine/pkg/database"
	"github.com/techstacks/techstacks-engine/pkg/models"
)

const historyColumns = `
	id, technology_id, operation, name, vendor_name, vendor_url,
	product_url, logo_url, description, tier, slug_title, owner_id,
	created_by, created_at, last_modified_by, last_modified_at,
	logo_approved, is_locked`

// TechnologyHistoryRepository provides read access to the technology
// audit trail. Writes happen inside TechnologyRepository transactions;
// nothing ever updates or deletes history rows.
type TechnologyHistoryRepository interface {
	// ListByTechnology returns history records for a technology id,
	// newest first. Works for deleted technologies too.
	ListByTechnology(ctx context.Context, technologyID int64) ([]*models.TechnologyHistory, error)

	// ListBySlug returns history records whose snapshot carries the given
	// slug title, newest first. The slug match is case-insensitive and
	// resolves even after the technology itself has been removed.
	ListBySlug(ctx context.Context, slug string) ([]*models.TechnologyHistory, error)
}

// technologyHistoryRepository implements TechnologyHistoryRepository
// using PostgreSQL.
type technologyHistoryRepository struct {
	db *database.DB
}

// NewTechnologyHistoryRepository creates a new history repository.
func NewTechnologyHistoryRepository(db *database.DB) TechnologyHistoryRepository {
	return &technologyHistoryRepository{db: db}
}

var _ TechnologyHistoryRepository = (*technologyHistoryRepository)(nil)

func (r *technologyHistoryRepository) ListByTechnology(ctx context.Context, technologyID int64) ([]*models.TechnologyHistory, error) {
	query := `
		SELECT` + historyColumns + `
		FROM technology_history
		WHERE technology_id = $1
		ORDER BY last_modified_at DESC`

	rows, err := r.db.Query(ctx, query, technologyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query technology history: %w", err)
	}
	defer rows.Close()

	return collectHistory(rows)
}

func (r *technologyHistoryRepository) ListBySlug(ctx context.Context, slug string) ([]*models.TechnologyHistory, error) {
	query := `
		SELECT` + historyColumns + `
		FROM technology_history
		WHERE slug_title = lower($1)
		ORDER BY last_modified_at DESC`

	rows, err := r.db.Query(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query technology history by slug: %w", err)
	}
	defer rows.Close()

	return collectHistory(rows)
}

func collectHistory(rows pgx.Rows) ([]*models.TechnologyHistory, error) {
	var records []*models.TechnologyHistory
	for rows.Next() {
		var h models.TechnologyHistory
		err := rows.Scan(
			&h.ID,
			&h.TechnologyID,
			&h.Operation,
			&h.Name,
			&h.VendorName,
			&h.VendorURL,
			&h.ProductURL,
			&h.LogoURL,
			&h.Description,
			&h.Tier,
			&h.SlugTitle,
			&h.OwnerID,
			&h.CreatedBy,
			&h.CreatedAt,
			&h.LastModifiedBy,
			&h.LastModifiedAt,
			&h.LogoApproved,
			&h.IsLocked,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technology history: %w", err)
		}
		records = append(records, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating technology history: %w", err)
	}

	return records, nil
}
