package services

import (
	"context"
	"errors"
	"strings"

	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

// TourRepository defines persistence operations for tours.
type TourRepository interface {
	Get(ctx context.Context, id int) (types.Tour, error)
	GetByNameAndCategory(ctx context.Context, name, category string) (types.Tour, error)
	List(ctx context.Context, category, filter string, nameOnly bool) ([]types.Tour, error)
	Create(ctx context.Context, tour types.Tour) (types.Tour, error)
	Update(ctx context.Context, tour types.Tour) (types.Tour, error)
	Delete(ctx context.Context, id int) error
}

// CatalogService encapsulates tour catalog use-cases.
type CatalogService struct {
	repo TourRepository
}

func NewCatalogService(repo TourRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Buckets returns the catalog partitioned into its two category buckets,
// each independently narrowed by the same filter. nameOnly restricts the
// filter to tour names (dashboard search); otherwise descriptions match
// too (public catalog search).
func (s *CatalogService) Buckets(ctx context.Context, filter string, nameOnly bool) (cities, places []types.Tour, err error) {
	cities, err = s.repo.List(ctx, types.CategoryCity, filter, nameOnly)
	if err != nil {
		return nil, nil, err
	}
	places, err = s.repo.List(ctx, types.CategoryPlace, filter, nameOnly)
	if err != nil {
		return nil, nil, err
	}
	return cities, places, nil
}

// List returns tours across both categories, optionally filtered by name.
func (s *CatalogService) List(ctx context.Context, filter string) ([]types.Tour, error) {
	return s.repo.List(ctx, "", filter, true)
}

func (s *CatalogService) Get(ctx context.Context, id int) (types.Tour, error) {
	return s.repo.Get(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, tour types.Tour) (types.Tour, error) {
	if err := validateTour(&tour); err != nil {
		return types.Tour{}, err
	}
	return s.repo.Create(ctx, tour)
}

func (s *CatalogService) Update(ctx context.Context, tour types.Tour) (types.Tour, error) {
	if err := validateTour(&tour); err != nil {
		return types.Tour{}, err
	}
	return s.repo.Update(ctx, tour)
}

func (s *CatalogService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// SetImageKey records the object-storage key of an uploaded tour image.
func (s *CatalogService) SetImageKey(ctx context.Context, id int, key string) error {
	tour, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	tour.ImageKey = key
	_, err = s.repo.Update(ctx, tour)
	return err
}

// Seed creates the given tours unless a tour with the same name and
// category already exists, making repeated seeding a no-op. It returns
// how many tours were actually created.
func (s *CatalogService) Seed(ctx context.Context, tours []types.Tour) (int, error) {
	created := 0
	for _, tour := range tours {
		_, err := s.repo.GetByNameAndCategory(ctx, tour.Name, tour.Category)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return created, err
		}
		if _, err := s.repo.Create(ctx, tour); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func validateTour(tour *types.Tour) error {
	tour.Name = strings.TrimSpace(tour.Name)

	validation := &ValidationError{}
	if tour.Name == "" {
		validation.add("name", "required")
	}
	if !types.ValidCategory(tour.Category) {
		validation.add("category", "must be ciudad or lugar")
	}
	if !validation.ok() {
		return validation
	}
	return nil
}
