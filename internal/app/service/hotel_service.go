package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrHotelNotFound     = errors.New("hotel not found")
	ErrHotelAccessDenied = errors.New("hotel belongs to another merchant")
)

const (
	MinStar = 1
	MaxStar = 5
	// DefaultStar applies when a hotel is created without a rating
	DefaultStar = 3
)

type CreateHotelInput struct {
	Name        string
	Address     string
	Description string
	Star        int
	OpeningDate *time.Time
	TagIDs      []uint
	Images      []ImageFile
}

// UpdateHotelInput holds a partial update; nil fields are left unchanged.
// TagIDs wins over Tags when both are set.
type UpdateHotelInput struct {
	Name        *string
	Address     *string
	Description *string
	Star        *int
	OpeningDate *time.Time
	Tags        []string
	TagIDs      []uint
}

func (in UpdateHotelInput) empty() bool {
	return in.Name == nil && in.Address == nil && in.Description == nil &&
		in.Star == nil && in.OpeningDate == nil && in.Tags == nil && in.TagIDs == nil
}

// HotelService is the merchant view of hotels: only the caller's own listings
type HotelService interface {
	CreateHotel(ctx context.Context, merchantID uint, input CreateHotelInput) (*model.Hotel, error)
	ListHotels(merchantID uint, q HotelListQuery) (*HotelPage, error)
	GetHotel(merchantID, hotelID uint) (*model.Hotel, error)
	UpdateHotel(ctx context.Context, merchantID, hotelID uint, input UpdateHotelInput) (*model.Hotel, error)
	DeleteHotel(merchantID, hotelID uint) error
}

type hotelService struct {
	hotelRepo     repository.HotelRepository
	tags          TagService
	images        ImageService
	notifications NotificationService
}

func NewHotelService(
	hotelRepo repository.HotelRepository,
	tags TagService,
	images ImageService,
	notifications NotificationService,
) HotelService {
	return &hotelService{
		hotelRepo:     hotelRepo,
		tags:          tags,
		images:        images,
		notifications: notifications,
	}
}

func validateStar(verr *ValidationError, star int) {
	if star < MinStar || star > MaxStar {
		verr.add("star", fmt.Sprintf("must be between %d and %d", MinStar, MaxStar))
	}
}

func (s *hotelService) CreateHotel(ctx context.Context, merchantID uint, input CreateHotelInput) (*model.Hotel, error) {
	logger.Info("Creating hotel", map[string]interface{}{
		"merchant_id": merchantID,
		"name":        input.Name,
		"images":      len(input.Images),
		"tag_ids":     input.TagIDs,
	})

	verr := &ValidationError{}
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" {
		verr.add("name", "is required")
	}
	if address == "" {
		verr.add("address", "is required")
	}
	star := input.Star
	if star == 0 {
		star = DefaultStar
	} else {
		validateStar(verr, star)
	}
	if input.OpeningDate == nil {
		verr.add("openingDate", "is required")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	tagNames, err := s.tags.ResolveIDs(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}

	urls, err := s.images.Store(ctx, upload.HotelImages, "hotels", input.Images)
	if err != nil {
		return nil, err
	}

	hotel := &model.Hotel{
		MerchantID:  merchantID,
		Name:        name,
		Address:     address,
		Description: strings.TrimSpace(input.Description),
		Star:        star,
		OpeningDate: input.OpeningDate,
		Tags:        datatypes.JSONSlice[string](tagNames),
		Images:      hotelImages(urls),
		Status:      workflow.InitialStatus,
	}
	if err := s.hotelRepo.Create(hotel); err != nil {
		s.images.Remove(ctx, urls)
		return nil, err
	}

	if s.notifications != nil {
		s.notifications.HotelSubmitted(hotel)
	}
	return hotel, nil
}

// hotelImages marks the first image as main and the rest as facility
func hotelImages(urls []string) datatypes.JSONSlice[model.HotelImage] {
	images := make(datatypes.JSONSlice[model.HotelImage], 0, len(urls))
	for i, u := range urls {
		t := model.ImageFacility
		if i == 0 {
			t = model.ImageMain
		}
		images = append(images, model.HotelImage{URL: u, Type: t})
	}
	return images
}

func (s *hotelService) ListHotels(merchantID uint, q HotelListQuery) (*HotelPage, error) {
	q.MerchantID = &merchantID
	return listHotels(s.hotelRepo, q)
}

// owned loads a hotel and checks it belongs to merchantID
func (s *hotelService) owned(merchantID, hotelID uint, withRooms bool) (*model.Hotel, error) {
	hotel, err := s.hotelRepo.FindByID(hotelID, withRooms)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if hotel.MerchantID != merchantID {
		logger.Warn("Merchant tried to access another merchant's hotel", map[string]interface{}{
			"merchant_id": merchantID,
			"hotel_id":    hotelID,
			"owner_id":    hotel.MerchantID,
		})
		return nil, ErrHotelAccessDenied
	}
	return hotel, nil
}

func (s *hotelService) GetHotel(merchantID, hotelID uint) (*model.Hotel, error) {
	return s.owned(merchantID, hotelID, true)
}

// UpdateHotel applies field edits. Status is never changed here, including
// for rejected hotels.
func (s *hotelService) UpdateHotel(ctx context.Context, merchantID, hotelID uint, input UpdateHotelInput) (*model.Hotel, error) {
	hotel, err := s.owned(merchantID, hotelID, false)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return s.owned(merchantID, hotelID, true)
	}

	fields := make(map[string]interface{})
	verr := &ValidationError{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name == "" {
			verr.add("name", "must not be blank")
		} else {
			fields["name"] = name
		}
	}
	if input.Address != nil {
		if address := strings.TrimSpace(*input.Address); address == "" {
			verr.add("address", "must not be blank")
		} else {
			fields["address"] = address
		}
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Star != nil {
		validateStar(verr, *input.Star)
		fields["star"] = *input.Star
	}
	if input.OpeningDate != nil {
		fields["opening_date"] = *input.OpeningDate
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	switch {
	case input.TagIDs != nil:
		names, err := s.tags.ResolveIDs(ctx, input.TagIDs)
		if err != nil {
			return nil, err
		}
		fields["tags"] = datatypes.JSONSlice[string](names)
	case input.Tags != nil:
		names, err := s.tags.CheckNames(ctx, input.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = datatypes.JSONSlice[string](names)
	}

	if err := s.hotelRepo.UpdateFields(hotel.ID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}

	logger.Info("Hotel updated", map[string]interface{}{
		"hotel_id":    hotel.ID,
		"merchant_id": merchantID,
		"fields":      len(fields),
		"status":      hotel.Status,
	})
	return s.owned(merchantID, hotelID, true)
}

func (s *hotelService) DeleteHotel(merchantID, hotelID uint) error {
	hotel, err := s.owned(merchantID, hotelID, false)
	if err != nil {
		return err
	}
	if err := s.hotelRepo.Delete(hotel.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHotelNotFound
		}
		return err
	}
	logger.Info("Hotel deleted", map[string]interface{}{
		"hotel_id":    hotel.ID,
		"merchant_id": merchantID,
	})
	return nil
}
