package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techstacks/techstacks-engine/pkg/apperrors"
	"github.com/techstacks/techstacks-engine/pkg/models"
	"github.com/techstacks/techstacks-engine/pkg/testhelpers"
)

// newTechnology builds a valid technology row for integration tests.
// Name and slug must be unique per test to stay clear of the slug index.
func newTechnology(name, slug string) *models.Technology {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Technology{
		Name:           name,
		VendorName:     "Acme",
		VendorURL:      "https://acme.example.com",
		ProductURL:     "https://acme.example.com/" + slug,
		LogoURL:        "https://acme.example.com/" + slug + ".png",
		Description:    "Test technology",
		Tier:           "Server",
		SlugTitle:      slug,
		OwnerID:        "user-1",
		CreatedBy:      "alice",
		CreatedAt:      now,
		LastModifiedBy: "alice",
		LastModifiedAt: now,
		LogoApproved:   true,
	}
}

func TestTechnologyRepositoryCreate(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	historyRepo := NewTechnologyHistoryRepository(testDB.DB)
	ctx := context.Background()

	tech := newTechnology("Create Target", "create-target")
	require.NoError(t, repo.Create(ctx, tech))
	assert.Positive(t, tech.ID)

	fetched, err := repo.GetByID(ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, "Create Target", fetched.Name)
	assert.Equal(t, "create-target", fetched.SlugTitle)
	assert.Equal(t, "user-1", fetched.OwnerID)
	assert.True(t, fetched.LogoApproved)

	// The INSERT history row lands in the same transaction.
	records, err := historyRepo.ListByTechnology(ctx, tech.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.OperationInsert, records[0].Operation)
	assert.Equal(t, "create-target", records[0].SlugTitle)
}

func TestTechnologyRepositoryCreateDuplicateSlug(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	ctx := context.Background()

	first := newTechnology("Dup Slug", "dup-slug")
	require.NoError(t, repo.Create(ctx, first))

	second := newTechnology("Dup Slug Again", "dup-slug")
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestTechnologyRepositoryUpdate(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	historyRepo := NewTechnologyHistoryRepository(testDB.DB)
	ctx := context.Background()

	tech := newTechnology("Update Target", "update-target")
	require.NoError(t, repo.Create(ctx, tech))

	tech.Name = "Update Target v2"
	tech.SlugTitle = "update-target-v2"
	tech.LastModifiedBy = "bob"
	tech.LastModifiedAt = time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Update(ctx, tech))

	fetched, err := repo.GetByID(ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, "Update Target v2", fetched.Name)
	assert.Equal(t, "bob", fetched.LastModifiedBy)

	records, err := historyRepo.ListByTechnology(ctx, tech.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.OperationUpdate, records[0].Operation)
	assert.Equal(t, models.OperationInsert, records[1].Operation)
}

func TestTechnologyRepositoryUpdateMissing(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	ctx := context.Background()

	ghost := newTechnology("Ghost", "ghost-update")
	ghost.ID = 999999

	assert.ErrorIs(t, repo.Update(ctx, ghost), apperrors.ErrNotFound)
}

func TestTechnologyRepositoryDelete(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	historyRepo := NewTechnologyHistoryRepository(testDB.DB)
	ctx := context.Background()

	tech := newTechnology("Delete Target", "delete-target")
	require.NoError(t, repo.Create(ctx, tech))

	deletedAt := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Delete(ctx, tech, "root", deletedAt))

	_, err := repo.GetByID(ctx, tech.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The audit trail survives the row, carrying the deleting actor.
	records, err := historyRepo.ListByTechnology(ctx, tech.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.OperationDelete, records[0].Operation)
	assert.Equal(t, "root", records[0].LastModifiedBy)
	assert.Equal(t, deletedAt, records[0].LastModifiedAt.UTC())
	assert.Equal(t, "Delete Target", records[0].Name)

	// Slug lookup through history keeps working after deletion.
	bySlug, err := historyRepo.ListBySlug(ctx, "Delete-Target")
	require.NoError(t, err)
	assert.Len(t, bySlug, 2)
}

func TestTechnologyRepositoryDeleteMissing(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	ctx := context.Background()

	ghost := newTechnology("Ghost", "ghost-delete")
	ghost.ID = 999999

	err := repo.Delete(ctx, ghost, "root", time.Now().UTC())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTechnologyRepositoryGetBySlugCaseInsensitive(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	ctx := context.Background()

	tech := newTechnology("Case Target", "case-target")
	require.NoError(t, repo.Create(ctx, tech))

	fetched, err := repo.GetBySlug(ctx, "Case-Target")
	require.NoError(t, err)
	assert.Equal(t, tech.ID, fetched.ID)

	_, err = repo.GetBySlug(ctx, "no-such-slug")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTechnologyRepositoryList(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTechnology("List A", "list-a")))
	require.NoError(t, repo.Create(ctx, newTechnology("List B", "list-b")))

	techs, err := repo.List(ctx, 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(techs), 2)

	capped, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestTechnologyStackRepository(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewTechnologyRepository(testDB.DB)
	stackRepo := NewTechnologyStackRepository(testDB.DB)
	ctx := context.Background()

	tech := newTechnology("Stacked Tech", "stacked-tech")
	require.NoError(t, repo.Create(ctx, tech))

	var stackID int64
	err := testDB.DB.QueryRow(ctx, `
		INSERT INTO technology_stacks (name, slug_title, owner_id, created_at, last_modified_at)
		VALUES ('Test Stack', 'test-stack', 'user-1', now(), now())
		RETURNING id`).Scan(&stackID)
	require.NoError(t, err)

	_, err = testDB.DB.Exec(ctx, `
		INSERT INTO technology_choices (technology_id, technology_stack_id)
		VALUES ($1, $2)`, tech.ID, stackID)
	require.NoError(t, err)

	ids, err := stackRepo.StackIDsUsingTechnology(ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{stackID}, ids)

	// A technology with no choices yields an empty result.
	lonely := newTechnology("Lonely Tech", "lonely-tech")
	require.NoError(t, repo.Create(ctx, lonely))

	empty, err := stackRepo.StackIDsUsingTechnology(ctx, lonely.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
