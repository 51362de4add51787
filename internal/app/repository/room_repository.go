package repository

import (
	"errors"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(room *model.Room) error
	FindByID(roomID uint) (*model.Room, error)
	FindInHotel(hotelID, roomID uint) (*model.Room, error)
	FindByHotel(hotelID uint) ([]model.Room, error)
	UpdateFields(hotelID, roomID uint, fields map[string]interface{}) error
	Delete(hotelID, roomID uint) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *model.Room) error {
	logger.Debug("Creating room in database", map[string]interface{}{
		"hotel_id": room.HotelID,
		"type":     room.Type,
	})

	if err := r.db.Create(room).Error; err != nil {
		logger.Error("Failed to create room in database", err, map[string]interface{}{
			"hotel_id": room.HotelID,
		})
		return err
	}
	return nil
}

func (r *roomRepository) FindByID(roomID uint) (*model.Room, error) {
	var room model.Room
	if err := r.db.First(&room, roomID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find room by ID in database", err, map[string]interface{}{
				"room_id": roomID,
			})
		}
		return nil, err
	}
	return &room, nil
}

// FindInHotel only matches rooms belonging to hotelID
func (r *roomRepository) FindInHotel(hotelID, roomID uint) (*model.Room, error) {
	var room model.Room
	err := r.db.Where("id = ? AND hotel_id = ?", roomID, hotelID).First(&room).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find room in database", err, map[string]interface{}{
				"hotel_id": hotelID,
				"room_id":  roomID,
			})
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByHotel(hotelID uint) ([]model.Room, error) {
	var rooms []model.Room
	if err := r.db.Where("hotel_id = ?", hotelID).Order("id ASC").Find(&rooms).Error; err != nil {
		logger.Error("Failed to list rooms in database", err, map[string]interface{}{
			"hotel_id": hotelID,
		})
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) UpdateFields(hotelID, roomID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	logger.Debug("Updating room fields in database", map[string]interface{}{
		"hotel_id": hotelID,
		"room_id":  roomID,
	})

	result := r.db.Model(&model.Room{}).
		Where("id = ? AND hotel_id = ?", roomID, hotelID).
		Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update room in database", result.Error, map[string]interface{}{
			"room_id": roomID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *roomRepository) Delete(hotelID, roomID uint) error {
	logger.Debug("Deleting room from database", map[string]interface{}{
		"hotel_id": hotelID,
		"room_id":  roomID,
	})

	result := r.db.Where("id = ? AND hotel_id = ?", roomID, hotelID).Delete(&model.Room{})
	if result.Error != nil {
		logger.Error("Failed to delete room from database", result.Error, map[string]interface{}{
			"room_id": roomID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
