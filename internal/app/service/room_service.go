package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrAvailableExceedsTotal = errors.New("available rooms exceed total rooms")
)

type CreateRoomInput struct {
	Type         string
	Area         float64
	BedType      string
	MaxOccupancy int
	Price        float64
	TotalRooms   int
	Available    int
	Amenities    []string
	Images       []ImageFile
}

// UpdateRoomInput holds a partial update; nil fields are left unchanged
type UpdateRoomInput struct {
	Type         *string
	Area         *float64
	BedType      *string
	MaxOccupancy *int
	Price        *float64
	TotalRooms   *int
	Available    *int
	Amenities    []string
}

type RoomService interface {
	CreateRoom(ctx context.Context, merchantID, hotelID uint, input CreateRoomInput) (*model.Room, error)
	UpdateRoom(merchantID, roomID uint, input UpdateRoomInput) (*model.Room, error)
	DeleteRoom(merchantID, hotelID, roomID uint) error
}

type roomService struct {
	hotelRepo repository.HotelRepository
	roomRepo  repository.RoomRepository
	images    ImageService
}

func NewRoomService(hotelRepo repository.HotelRepository, roomRepo repository.RoomRepository, images ImageService) RoomService {
	return &roomService{hotelRepo: hotelRepo, roomRepo: roomRepo, images: images}
}

type roomNumbers struct {
	area         float64
	maxOccupancy int
	price        float64
	totalRooms   int
	available    int
}

func (n roomNumbers) validate(verr *ValidationError) error {
	if n.area <= 0 {
		verr.add("area", "must be greater than 0")
	}
	if n.maxOccupancy <= 0 {
		verr.add("maxOccupancy", "must be greater than 0")
	}
	if n.price < 0 {
		verr.add("price", "must not be negative")
	}
	if n.totalRooms < 0 {
		verr.add("totalRooms", "must not be negative")
	}
	if n.available < 0 {
		verr.add("available", "must not be negative")
	}
	if err := verr.orNil(); err != nil {
		return err
	}
	if n.available > n.totalRooms {
		return fmt.Errorf("%w: %d available, %d total", ErrAvailableExceedsTotal, n.available, n.totalRooms)
	}
	return nil
}

// ownedHotel checks the hotel exists and belongs to merchantID
func (s *roomService) ownedHotel(merchantID, hotelID uint) (*model.Hotel, error) {
	hotel, err := s.hotelRepo.FindByID(hotelID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if hotel.MerchantID != merchantID {
		return nil, ErrHotelAccessDenied
	}
	return hotel, nil
}

func (s *roomService) CreateRoom(ctx context.Context, merchantID, hotelID uint, input CreateRoomInput) (*model.Room, error) {
	logger.Info("Creating room", map[string]interface{}{
		"merchant_id": merchantID,
		"hotel_id":    hotelID,
		"type":        input.Type,
		"images":      len(input.Images),
	})

	hotel, err := s.ownedHotel(merchantID, hotelID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	roomType := strings.TrimSpace(input.Type)
	if roomType == "" {
		verr.add("type", "is required")
	}
	nums := roomNumbers{input.Area, input.MaxOccupancy, input.Price, input.TotalRooms, input.Available}
	if err := nums.validate(verr); err != nil {
		return nil, err
	}

	urls, err := s.images.Store(ctx, upload.RoomImages, fmt.Sprintf("hotels/%d/rooms", hotel.ID), input.Images)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		HotelID:      hotel.ID,
		Type:         roomType,
		Area:         input.Area,
		BedType:      strings.TrimSpace(input.BedType),
		MaxOccupancy: input.MaxOccupancy,
		Price:        input.Price,
		TotalRooms:   input.TotalRooms,
		Available:    input.Available,
		Images:       datatypes.JSONSlice[string](nonNil(urls)),
		Amenities:    datatypes.JSONSlice[string](cleanList(input.Amenities)),
	}
	if err := s.roomRepo.Create(room); err != nil {
		s.images.Remove(ctx, urls)
		return nil, err
	}
	return room, nil
}

func (s *roomService) UpdateRoom(merchantID, roomID uint, input UpdateRoomInput) (*model.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if _, err := s.ownedHotel(merchantID, room.HotelID); err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	fields := make(map[string]interface{})
	verr := &ValidationError{}
	nums := roomNumbers{room.Area, room.MaxOccupancy, room.Price, room.TotalRooms, room.Available}

	if input.Type != nil {
		if t := strings.TrimSpace(*input.Type); t == "" {
			verr.add("type", "must not be blank")
		} else {
			fields["type"] = t
		}
	}
	if input.BedType != nil {
		fields["bed_type"] = strings.TrimSpace(*input.BedType)
	}
	if input.Area != nil {
		nums.area = *input.Area
		fields["area"] = *input.Area
	}
	if input.MaxOccupancy != nil {
		nums.maxOccupancy = *input.MaxOccupancy
		fields["max_occupancy"] = *input.MaxOccupancy
	}
	if input.Price != nil {
		nums.price = *input.Price
		fields["price"] = *input.Price
	}
	if input.TotalRooms != nil {
		nums.totalRooms = *input.TotalRooms
		fields["total_rooms"] = *input.TotalRooms
	}
	if input.Available != nil {
		nums.available = *input.Available
		fields["available"] = *input.Available
	}
	if input.Amenities != nil {
		fields["amenities"] = datatypes.JSONSlice[string](cleanList(input.Amenities))
	}
	// the merged result must hold, not just the submitted fields
	if err := nums.validate(verr); err != nil {
		return nil, err
	}

	if err := s.roomRepo.UpdateFields(room.HotelID, room.ID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.roomRepo.FindByID(room.ID)
}

func (s *roomService) DeleteRoom(merchantID, hotelID, roomID uint) error {
	if _, err := s.ownedHotel(merchantID, hotelID); err != nil {
		return err
	}
	if err := s.roomRepo.Delete(hotelID, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	logger.Info("Room deleted", map[string]interface{}{
		"hotel_id": hotelID,
		"room_id":  roomID,
	})
	return nil
}

// cleanList trims entries and drops blanks and duplicates
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
