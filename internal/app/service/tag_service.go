package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/redis"
	"github.com/ikkim/hotel-admin-backend/pkg/tags"
	"gorm.io/gorm"
)

var (
	ErrTagExists       = errors.New("tag already exists")
	ErrTagNameRequired = errors.New("tag name is required")
	ErrUnknownTag      = errors.New("unknown tag")
)

// UnknownTagsError reports tag ids or names missing from the catalog
type UnknownTagsError struct {
	IDs         []uint
	Names       []string
	Suggestions map[string]string
}

func (e *UnknownTagsError) Error() string {
	var parts []string
	if len(e.IDs) > 0 {
		parts = append(parts, fmt.Sprintf("ids %v", e.IDs))
	}
	for _, n := range e.Names {
		if s, ok := e.Suggestions[n]; ok {
			parts = append(parts, fmt.Sprintf("%q (did you mean %q?)", n, s))
		} else {
			parts = append(parts, fmt.Sprintf("%q", n))
		}
	}
	return "unknown tags: " + strings.Join(parts, ", ")
}

func (e *UnknownTagsError) Unwrap() error {
	return ErrUnknownTag
}

// TagCache is the subset of the Redis store the catalog uses
type TagCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	InvalidateTagCatalog(ctx context.Context) error
}

type TagService interface {
	ListTags(ctx context.Context, category string) ([]model.Tag, error)
	CreateTag(ctx context.Context, name, category string) (*model.Tag, error)
	ImportTags(ctx context.Context, list []model.Tag) (int64, error)
	Catalog(ctx context.Context) (*tags.Catalog, error)
	// ResolveIDs maps catalog ids to tag names, failing on any unknown id
	ResolveIDs(ctx context.Context, ids []uint) ([]string, error)
	// CheckNames fails when a name is not in the catalog
	CheckNames(ctx context.Context, names []string) ([]string, error)
}

type tagService struct {
	repo  repository.TagRepository
	cache TagCache
	ttl   time.Duration
}

// NewTagService builds the catalog service; cache may be nil
func NewTagService(repo repository.TagRepository, cache TagCache, ttl time.Duration) TagService {
	return &tagService{repo: repo, cache: cache, ttl: ttl}
}

func (s *tagService) ListTags(ctx context.Context, category string) ([]model.Tag, error) {
	category = strings.TrimSpace(category)
	key := redis.TagCatalogKey(category)

	if s.cache != nil {
		var cached []model.Tag
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warn("Tag cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if found {
			return cached, nil
		}
	}

	list, err := s.repo.FindAll(category)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, list, s.ttl); err != nil {
			logger.Warn("Tag cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return list, nil
}

func (s *tagService) CreateTag(ctx context.Context, name, category string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}
	tag := &model.Tag{Name: name, Category: strings.TrimSpace(category)}
	if err := s.repo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	s.invalidate(ctx)

	logger.Info("Tag created", map[string]interface{}{
		"tag_id":   tag.ID,
		"name":     tag.Name,
		"category": tag.Category,
	})
	return tag, nil
}

// ImportTags adds tags missing from the catalog and keeps existing ones
func (s *tagService) ImportTags(ctx context.Context, list []model.Tag) (int64, error) {
	clean := make([]model.Tag, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, t := range list {
		name := strings.TrimSpace(t.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		clean = append(clean, model.Tag{Name: name, Category: strings.TrimSpace(t.Category)})
	}
	added, err := s.repo.Upsert(clean)
	if err != nil {
		return 0, err
	}
	if added > 0 {
		s.invalidate(ctx)
	}
	return added, nil
}

func (s *tagService) Catalog(ctx context.Context) (*tags.Catalog, error) {
	list, err := s.ListTags(ctx, "")
	if err != nil {
		return nil, err
	}
	entries := make([]tags.Tag, len(list))
	for i, t := range list {
		entries[i] = tags.Tag{ID: t.ID, Name: t.Name, Category: t.Category}
	}
	return tags.NewCatalog(entries), nil
}

func (s *tagService) ResolveIDs(ctx context.Context, ids []uint) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	r := catalog.IDsToNames(ids)
	if !r.Complete() {
		return nil, &UnknownTagsError{IDs: r.Unmatched}
	}
	return r.Resolved, nil
}

// CheckNames returns names in catalog spelling, deduplicated
func (s *tagService) CheckNames(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	r := catalog.NamesToIDs(names)
	if !r.Complete() {
		unmatched := append([]string(nil), r.Unmatched...)
		sort.Strings(unmatched)
		return nil, &UnknownTagsError{Names: unmatched, Suggestions: r.Suggestions}
	}
	return catalog.IDsToNames(r.Resolved).Resolved, nil
}

func (s *tagService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTagCatalog(ctx); err != nil {
		logger.Warn("Failed to invalidate tag cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
