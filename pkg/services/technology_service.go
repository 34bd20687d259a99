// Package services contains the business logic for techstacks-engine.
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/techstacks/techstacks-engine/pkg/apperrors"
	"github.com/techstacks/techstacks-engine/pkg/auth"
	"github.com/techstacks/techstacks-engine/pkg/models"
	"github.com/techstacks/techstacks-engine/pkg/repositories"
	"github.com/techstacks/techstacks-engine/pkg/slug"
)

// ListLimit caps how many technologies a single listing returns.
const ListLimit = 100

// TechnologyService orchestrates technology mutations and lookups.
// Mutations take an explicit actor; reads never consult authorization
// or touch history.
type TechnologyService interface {
	// Create persists a new technology owned by the actor and returns the
	// row as persisted, including the generated id.
	Create(ctx context.Context, actor auth.Actor, tech *models.Technology) (*models.Technology, error)

	// Update saves caller-supplied fields onto the existing technology,
	// preserving governance fields, and returns the persisted row.
	Update(ctx context.Context, actor auth.Actor, id int64, tech *models.Technology) (*models.Technology, error)

	// Delete removes a technology and returns the deleted id.
	Delete(ctx context.Context, actor auth.Actor, id int64) (int64, error)

	// GetByIDOrSlug resolves a numeric token by id and any other token by
	// case-insensitive slug title.
	GetByIDOrSlug(ctx context.Context, token string) (*models.Technology, error)

	// List returns up to ListLimit technologies.
	List(ctx context.Context) ([]*models.Technology, error)

	// StacksUsing returns the distinct ids of stacks using a technology.
	StacksUsing(ctx context.Context, technologyID int64) ([]int64, error)

	// PreviousVersions returns the audit trail for a technology, newest
	// first. Slug tokens resolve through the history snapshots, so the
	// trail stays reachable after the technology is deleted.
	PreviousVersions(ctx context.Context, token string) ([]*models.TechnologyHistory, error)
}

type technologyService struct {
	repo        repositories.TechnologyRepository
	historyRepo repositories.TechnologyHistoryRepository
	stackRepo   repositories.TechnologyStackRepository
	logger      *zap.Logger
}

// NewTechnologyService creates a new TechnologyService.
func NewTechnologyService(
	repo repositories.TechnologyRepository,
	historyRepo repositories.TechnologyHistoryRepository,
	stackRepo repositories.TechnologyStackRepository,
	logger *zap.Logger,
) TechnologyService {
	return &technologyService{
		repo:        repo,
		historyRepo: historyRepo,
		stackRepo:   stackRepo,
		logger:      logger.Named("technology-service"),
	}
}

var _ TechnologyService = (*technologyService)(nil)

func (s *technologyService) Create(ctx context.Context, actor auth.Actor, tech *models.Technology) (*models.Technology, error) {
	if !CanCreateTechnology(actor) {
		return nil, fmt.Errorf("create technology: %w", apperrors.ErrForbidden)
	}
	if strings.TrimSpace(tech.Name) == "" {
		return nil, fmt.Errorf("technology name is required: %w", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	tech.OwnerID = actor.ID
	tech.CreatedBy = actor.Name
	tech.CreatedAt = now
	tech.LastModifiedBy = actor.Name
	tech.LastModifiedAt = now
	// Explicit logo approval is disabled; every new logo starts approved.
	tech.LogoApproved = true
	tech.SlugTitle = slug.Make(tech.Name)

	if err := s.repo.Create(ctx, tech); err != nil {
		return nil, fmt.Errorf("create technology: %w", err)
	}

	s.logger.Info("Created technology",
		zap.Int64("id", tech.ID),
		zap.String("slug", tech.SlugTitle),
		zap.String("owner_id", tech.OwnerID))

	return tech, nil
}

func (s *technologyService) Update(ctx context.Context, actor auth.Actor, id int64, tech *models.Technology) (*models.Technology, error) {
	// Existence is checked before permission: a Forbidden answer is only
	// meaningful for a technology that exists.
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update technology %d: %w", id, err)
	}

	if !CanUpdateTechnology(actor, existing) {
		return nil, fmt.Errorf("technology %d is locked: %w", id, apperrors.ErrForbidden)
	}
	if strings.TrimSpace(tech.Name) == "" {
		return nil, fmt.Errorf("technology name is required: %w", apperrors.ErrValidation)
	}

	updated := reconcileTechnology(existing, tech)
	updated.LastModifiedBy = actor.Name
	updated.LastModifiedAt = time.Now().UTC()
	updated.SlugTitle = slug.Make(updated.Name)

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update technology %d: %w", id, err)
	}

	s.logger.Info("Updated technology",
		zap.Int64("id", updated.ID),
		zap.String("slug", updated.SlugTitle))

	return updated, nil
}

func (s *technologyService) Delete(ctx context.Context, actor auth.Actor, id int64) (int64, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete technology %d: %w", id, err)
	}

	if !CanDeleteTechnology(actor, existing) {
		return 0, fmt.Errorf("actor %s does not own technology %d: %w", actor.ID, id, apperrors.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, existing, actor.Name, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("delete technology %d: %w", id, err)
	}

	s.logger.Info("Deleted technology",
		zap.Int64("id", id),
		zap.String("deleted_by", actor.ID))

	return id, nil
}

func (s *technologyService) GetByIDOrSlug(ctx context.Context, token string) (*models.Technology, error) {
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		tech, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get technology %d: %w", id, err)
		}
		return tech, nil
	}

	tech, err := s.repo.GetBySlug(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get technology %q: %w", token, err)
	}
	return tech, nil
}

func (s *technologyService) List(ctx context.Context) ([]*models.Technology, error) {
	techs, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	return techs, nil
}

func (s *technologyService) StacksUsing(ctx context.Context, technologyID int64) ([]int64, error) {
	ids, err := s.stackRepo.StackIDsUsingTechnology(ctx, technologyID)
	if err != nil {
		return nil, fmt.Errorf("stacks using technology %d: %w", technologyID, err)
	}
	return ids, nil
}

func (s *technologyService) PreviousVersions(ctx context.Context, token string) ([]*models.TechnologyHistory, error) {
	var records []*models.TechnologyHistory
	var err error

	if id, parseErr := strconv.ParseInt(token, 10, 64); parseErr == nil {
		records, err = s.historyRepo.ListByTechnology(ctx, id)
	} else {
		records, err = s.historyRepo.ListBySlug(ctx, token)
	}
	if err != nil {
		return nil, fmt.Errorf("previous versions of %q: %w", token, err)
	}

	return records, nil
}

// reconcileTechnology merges a caller-supplied payload onto the existing
// row, overriding the fields callers must not control. The result is a
// new value; neither input is mutated.
//
// owner_id, created_by and created_at are write-once; logo_approved and
// is_locked always carry forward the persisted values, regardless of what
// the payload claims.
func reconcileTechnology(existing, incoming *models.Technology) *models.Technology {
	sanitized := *incoming
	sanitized.ID = existing.ID
	sanitized.OwnerID = existing.OwnerID
	sanitized.CreatedBy = existing.CreatedBy
	sanitized.CreatedAt = existing.CreatedAt
	sanitized.LogoApproved = existing.LogoApproved
	sanitized.IsLocked = existing.IsLocked
	return &sanitized
}
