package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
	"gorm.io/gorm"
)

// ErrStatusChanged means another request moved the hotel to a different
// status between read and write
var ErrStatusChanged = errors.New("hotel status changed concurrently")

type HotelSort string

const (
	HotelSortCreatedAt HotelSort = "createdAt"
	HotelSortUpdatedAt HotelSort = "updatedAt"
	HotelSortName      HotelSort = "name"
	HotelSortStar      HotelSort = "star"
	HotelSortRating    HotelSort = "rating"
	HotelSortStatus    HotelSort = "status"
)

var hotelSortColumns = map[HotelSort]string{
	HotelSortCreatedAt: "hotels.created_at",
	HotelSortUpdatedAt: "hotels.updated_at",
	HotelSortName:      "hotels.name",
	HotelSortStar:      "hotels.star",
	HotelSortRating:    "hotels.rating",
	HotelSortStatus:    "hotels.status",
}

// ParseHotelSort accepts camelCase or snake_case column names
func ParseHotelSort(raw string) (HotelSort, bool) {
	switch strings.ToLower(strings.ReplaceAll(raw, "_", "")) {
	case "", "createdat":
		return HotelSortCreatedAt, true
	case "updatedat":
		return HotelSortUpdatedAt, true
	case "name":
		return HotelSortName, true
	case "star":
		return HotelSortStar, true
	case "rating":
		return HotelSortRating, true
	case "status":
		return HotelSortStatus, true
	}
	return "", false
}

type HotelFilter struct {
	MerchantID    *uint
	Statuses      []workflow.Status
	Keyword       string
	SortBy        HotelSort
	SortAscending bool
	Limit         int
	Offset        int
	WithRooms     bool
}

// StatusChange describes one workflow transition to persist
type StatusChange struct {
	HotelID    uint
	ActorID    uint
	From       workflow.Status
	To         workflow.Status
	Comment    *string
	ReviewedAt time.Time
}

type HotelRepository interface {
	Create(hotel *model.Hotel) error
	FindByID(id uint, withRooms bool) (*model.Hotel, error)
	FindWithFilter(filter HotelFilter) ([]model.Hotel, int64, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	ApplyStatusChange(change StatusChange) error
	Delete(id uint) error
	CountByStatus(status workflow.Status) (int64, error)
	OldestWithStatus(status workflow.Status) (*model.Hotel, error)
	StatusLogs(hotelID uint) ([]model.HotelStatusLog, error)
}

type hotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) Create(hotel *model.Hotel) error {
	logger.Debug("Creating hotel in database", map[string]interface{}{
		"name":        hotel.Name,
		"merchant_id": hotel.MerchantID,
	})

	if err := r.db.Create(hotel).Error; err != nil {
		logger.Error("Failed to create hotel in database", err, map[string]interface{}{
			"name":        hotel.Name,
			"merchant_id": hotel.MerchantID,
		})
		return err
	}

	logger.Debug("Hotel created in database", map[string]interface{}{
		"hotel_id": hotel.ID,
	})
	return nil
}

func (r *hotelRepository) FindByID(id uint, withRooms bool) (*model.Hotel, error) {
	query := r.db.Model(&model.Hotel{})
	if withRooms {
		query = query.Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("rooms.id ASC")
		})
	}

	var hotel model.Hotel
	if err := query.First(&hotel, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find hotel by ID in database", err, map[string]interface{}{
				"hotel_id": id,
			})
		}
		return nil, err
	}
	return &hotel, nil
}

func (r *hotelRepository) FindWithFilter(filter HotelFilter) ([]model.Hotel, int64, error) {
	logger.Debug("Finding hotels with filter", map[string]interface{}{
		"merchant_id": filter.MerchantID,
		"statuses":    filter.Statuses,
		"keyword":     filter.Keyword,
		"sort_by":     filter.SortBy,
		"ascending":   filter.SortAscending,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.db.Model(&model.Hotel{})

	if filter.MerchantID != nil {
		query = query.Where("hotels.merchant_id = ?", *filter.MerchantID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("hotels.status IN ?", filter.Statuses)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("LOWER(hotels.name) LIKE ? OR LOWER(hotels.address) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count hotels", err)
		return nil, 0, err
	}

	column, ok := hotelSortColumns[filter.SortBy]
	if !ok {
		column = hotelSortColumns[HotelSortCreatedAt]
	}
	direction := " DESC"
	if filter.SortAscending {
		direction = " ASC"
	}
	query = query.Order(column + direction).Order("hotels.id" + direction)

	if filter.WithRooms {
		query = query.Preload("Rooms")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var hotels []model.Hotel
	if err := query.Find(&hotels).Error; err != nil {
		logger.Error("Failed to find hotels with filter", err)
		return nil, 0, err
	}

	logger.Debug("Hotels found with filter", map[string]interface{}{
		"count": len(hotels),
		"total": total,
	})
	return hotels, total, nil
}

func (r *hotelRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	logger.Debug("Updating hotel fields in database", map[string]interface{}{
		"hotel_id": id,
		"fields":   len(fields),
	})

	result := r.db.Model(&model.Hotel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update hotel in database", result.Error, map[string]interface{}{
			"hotel_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApplyStatusChange moves a hotel from change.From to change.To and writes
// the status log in one transaction. The update only matches while the
// hotel is still in change.From.
func (r *hotelRepository) ApplyStatusChange(change StatusChange) error {
	logger.Debug("Applying hotel status change", map[string]interface{}{
		"hotel_id": change.HotelID,
		"from":     change.From,
		"to":       change.To,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"status":      change.To,
			"reviewed_by": change.ActorID,
			"reviewed_at": change.ReviewedAt,
		}
		if change.Comment != nil {
			fields["audit_comment"] = *change.Comment
		}

		result := tx.Model(&model.Hotel{}).
			Where("id = ? AND status = ?", change.HotelID, change.From).
			Updates(fields)
		if result.Error != nil {
			logger.Error("Failed to update hotel status", result.Error, map[string]interface{}{
				"hotel_id": change.HotelID,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusChanged
		}

		entry := model.HotelStatusLog{
			HotelID:    change.HotelID,
			ActorID:    change.ActorID,
			FromStatus: change.From,
			ToStatus:   change.To,
		}
		if change.Comment != nil {
			entry.Comment = *change.Comment
		}
		if err := tx.Create(&entry).Error; err != nil {
			logger.Error("Failed to write hotel status log", err, map[string]interface{}{
				"hotel_id": change.HotelID,
			})
			return err
		}
		return nil
	})
}

// Delete soft-deletes the hotel and its rooms
func (r *hotelRepository) Delete(id uint) error {
	logger.Debug("Deleting hotel from database", map[string]interface{}{
		"hotel_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hotel_id = ?", id).Delete(&model.Room{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Hotel{}, id)
		if result.Error != nil {
			logger.Error("Failed to delete hotel from database", result.Error, map[string]interface{}{
				"hotel_id": id,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *hotelRepository) CountByStatus(status workflow.Status) (int64, error) {
	var count int64
	err := r.db.Model(&model.Hotel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// OldestWithStatus returns the earliest created hotel in status, nil when none
func (r *hotelRepository) OldestWithStatus(status workflow.Status) (*model.Hotel, error) {
	var hotels []model.Hotel
	err := r.db.Where("status = ?", status).Order("created_at ASC").Limit(1).Find(&hotels).Error
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, nil
	}
	return &hotels[0], nil
}

func (r *hotelRepository) StatusLogs(hotelID uint) ([]model.HotelStatusLog, error) {
	var logs []model.HotelStatusLog
	err := r.db.Where("hotel_id = ?", hotelID).Order("id ASC").Find(&logs).Error
	return logs, err
}
