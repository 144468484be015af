package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skillforge/skillforge-server/internal/domain"
	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/id"
	"github.com/skillforge/skillforge-server/internal/store"
)

// TagService orchestrates catalog tag operations. Tags are platform-wide;
// any educator can reference any tag on their courses.
type TagService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store *store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// CreateTag creates a tag with a unique, case-insensitive name.
func (s *TagService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("tag name must not be empty")
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:        tagID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.CreateTag(ctx, tag)
	if errors.Is(err, store.ErrTagNameExists) {
		return nil, domainerrors.AlreadyExists("tag name already in use")
	}
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tagID, "name", name)

	return tag, nil
}

// GetTag retrieves a tag by ID.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if errors.Is(err, store.ErrTagNotFound) {
		return nil, domainerrors.NotFound("tag not found")
	}
	return tag, err
}

// ListTags returns all tags with their current course counts. Counts are
// computed from the catalog rather than stored, so they cannot drift.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, course := range courses {
		for _, tagID := range course.TagIDs {
			counts[tagID]++
		}
	}
	for _, tag := range tags {
		tag.CourseCount = counts[tag.ID]
	}

	return tags, nil
}

// RenameTag changes a tag's display name, keeping uniqueness.
func (s *TagService) RenameTag(ctx context.Context, tagID, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("tag name must not be empty")
	}

	tag, err := s.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	tag.Name = name
	tag.UpdatedAt = time.Now()

	err = s.store.UpdateTag(ctx, tag)
	if errors.Is(err, store.ErrTagNameExists) {
		return nil, domainerrors.AlreadyExists("tag name already in use")
	}
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}

	s.logger.Info("tag renamed", "tag_id", tagID, "name", name)

	return tag, nil
}

// DeleteTag removes a tag and detaches it from every course carrying it.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	err := s.store.DeleteTag(ctx, tagID)
	if errors.Is(err, store.ErrTagNotFound) {
		return domainerrors.NotFound("tag not found")
	}
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("tag deleted", "tag_id", tagID)

	return nil
}
