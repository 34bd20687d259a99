package repositories

import (
	"context"
	"fmt"

	"github.com/techstacks/techstacks-engine/pkg/database"
)

// TechnologyStackRepository provides the reverse lookup from a technology
// to the stacks referencing it. Stacks are owned elsewhere; this service
// only reads the join.
type TechnologyStackRepository interface {
	// StackIDsUsingTechnology returns the distinct ids of stacks holding
	// a technology_choices row for the given technology.
	StackIDsUsingTechnology(ctx context.Context, technologyID int64) ([]int64, error)
}

// technologyStackRepository implements TechnologyStackRepository using
// PostgreSQL.
type technologyStackRepository struct {
	db *database.DB
}

// NewTechnologyStackRepository creates a new stack repository.
func NewTechnologyStackRepository(db *database.DB) TechnologyStackRepository {
	return &technologyStackRepository{db: db}
}

var _ TechnologyStackRepository = (*technologyStackRepository)(nil)

func (r *technologyStackRepository) StackIDsUsingTechnology(ctx context.Context, technologyID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT ts.id
		FROM technology_stacks ts
		JOIN technology_choices tc ON tc.technology_stack_id = ts.id
		WHERE tc.technology_id = $1
		ORDER BY ts.id`

	rows, err := r.db.Query(ctx, query, technologyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stacks using technology: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan stack id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stack ids: %w", err)
	}

	return ids, nil
}
