package service

import (
	"context"
	"fmt"
	"log/slog"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/geo"
	"localloop-backend/internal/logger"
	"localloop-backend/internal/repository"
)

// freeTierListingLimit caps how many items a free-tier user may list.
const freeTierListingLimit = 3

type itemService struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
	distance *geo.DistanceService
	log      *slog.Logger
}

func NewItemService(itemRepo repository.ItemRepository, userRepo repository.UserRepository, distance *geo.DistanceService) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		userRepo: userRepo,
		distance: distance,
		log:      logger.WithService("item"),
	}
}

func validateItemInput(in ItemInput) error {
	if in.Title == "" {
		return fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("price must be non-negative: %w", domain.ErrValidation)
	}
	return nil
}

func (s *itemService) CreateItem(ctx context.Context, ownerID int32, in ItemInput) (*domain.Item, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsPremium() {
		count, err := s.itemRepo.CountByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if count >= freeTierListingLimit {
			return nil, fmt.Errorf("free tier allows at most %d listings: %w", freeTierListingLimit, domain.ErrForbidden)
		}
	}

	zip := in.ZipCode
	if zip == "" {
		zip = owner.ZipCode
	}
	item := &domain.Item{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Images:      in.Images,
		ZipCode:     zip,
		Status:      domain.ItemStatusAvailable,
	}
	s.geocode(ctx, item)

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("item created", "item_id", item.ID, "owner_id", ownerID, "category", item.Category)
	return item, nil
}

// geocode fills in coordinates from the zip table when possible. Items
// without a known zip still list; they just never show up in nearby search.
func (s *itemService) geocode(ctx context.Context, item *domain.Item) {
	if item.ZipCode == "" || s.distance == nil {
		return
	}
	z, err := s.distance.Locate(ctx, item.ZipCode)
	if err != nil {
		s.log.Debug("zip lookup failed", "zip", item.ZipCode, "error", err)
		return
	}
	lat, lon := z.Latitude, z.Longitude
	item.Latitude = &lat
	item.Longitude = &lon
}

func (s *itemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner, err := s.userRepo.GetByID(ctx, item.OwnerID); err == nil {
		item.Owner = owner
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, ownerID, id int32, in ItemInput) (*domain.Item, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("user %d does not own item %d: %w", ownerID, id, domain.ErrForbidden)
	}

	item.Title = in.Title
	item.Description = in.Description
	item.Category = in.Category
	item.Price = in.Price
	item.Images = in.Images
	if in.ZipCode != "" && in.ZipCode != item.ZipCode {
		item.ZipCode = in.ZipCode
		item.Latitude = nil
		item.Longitude = nil
		s.geocode(ctx, item)
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("item updated", "item_id", item.ID)
	return item, nil
}

func (s *itemService) DeleteItem(ctx context.Context, ownerID, id int32) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.OwnerID != ownerID {
		return fmt.Errorf("user %d does not own item %d: %w", ownerID, id, domain.ErrForbidden)
	}
	switch item.Status {
	case domain.ItemStatusLent, domain.ItemStatusBorrowed:
		return fmt.Errorf("item %d is currently lent out: %w", id, domain.ErrInvalidState)
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("item deleted", "item_id", id, "owner_id", ownerID)
	return nil
}

func (s *itemService) ListMyItems(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	return s.itemRepo.ListByOwner(ctx, ownerID)
}

func (s *itemService) SearchItems(ctx context.Context, query, category string, maxPrice float64, page, pageSize int32) ([]domain.Item, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.itemRepo.Search(ctx, query, category, maxPrice, page, pageSize)
}

func (s *itemService) NearbyItems(ctx context.Context, zip string, radiusKm float64) ([]NearbyItem, error) {
	if zip == "" {
		return nil, fmt.Errorf("zip code is required: %w", domain.ErrValidation)
	}
	if radiusKm <= 0 {
		radiusKm = 25
	}

	origin, err := s.distance.Locate(ctx, zip)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListAvailableWithLocation(ctx)
	if err != nil {
		return nil, err
	}

	var nearby []NearbyItem
	for _, item := range items {
		if item.Latitude == nil || item.Longitude == nil {
			continue
		}
		d := geo.Haversine(origin.Latitude, origin.Longitude, *item.Latitude, *item.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, NearbyItem{Item: item, DistanceKm: d})
		}
	}
	return nearby, nil
}
