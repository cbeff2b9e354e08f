package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"
)

// Service fronts the catalog repository with a menu cache. Cache failures are
// logged and the repository answers; browsing never breaks because Redis is
// down.
type Service struct {
	repo   Repository
	cache  MenuCache
	logger *log.Logger
	sfg    singleflight.Group // collapses concurrent misses for the same menu
}

func NewService(repo Repository, cache MenuCache, logger *log.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) Restaurant(ctx context.Context, restaurantID string) (*Restaurant, error) {
	return s.repo.GetRestaurant(ctx, restaurantID)
}

func (s *Service) ListRestaurants(ctx context.Context, city, cuisine string) ([]Restaurant, error) {
	return s.repo.ListRestaurants(ctx, city, cuisine)
}

func (s *Service) MenuItem(ctx context.Context, restaurantID, itemID string) (*MenuItem, error) {
	return s.repo.GetMenuItem(ctx, restaurantID, itemID)
}

func (s *Service) Menu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	v, err, _ := s.sfg.Do(restaurantID, func() (interface{}, error) {
		items, err := s.cache.Get(ctx, restaurantID)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Printf("menu cache get error: %v", err)
		}

		items, err = s.repo.ListMenu(ctx, restaurantID)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), restaurantID, items); err != nil {
				s.logger.Printf("menu cache set error: %v", err)
			}
		}()

		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]MenuItem), nil
}

// SetMenuItemAvailability updates the item and drops the cached menu so the
// next read sees the change.
func (s *Service) SetMenuItemAvailability(ctx context.Context, restaurantID, itemID string, available bool) (bool, error) {
	updated, err := s.repo.SetMenuItemAvailability(ctx, restaurantID, itemID, available)
	if err != nil {
		return false, err
	}
	if updated {
		if err := s.cache.Delete(ctx, restaurantID); err != nil {
			s.logger.Printf("menu cache invalidate error: %v", err)
		}
	}
	return updated, nil
}
