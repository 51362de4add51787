package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/internal/metrics"
	"github.com/ikkim/hotel-admin-backend/internal/scheduler"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
	"gorm.io/gorm"
)

// ErrStatusConflict means the hotel changed status while the request ran
var ErrStatusConflict = errors.New("hotel status was changed by another request")

// AdminHotelService is the admin view: every merchant's hotels, status
// changes only
type AdminHotelService interface {
	ListHotels(q HotelListQuery) (*HotelPage, error)
	GetHotel(hotelID uint) (*model.Hotel, error)
	AuditHotel(ctx context.Context, adminID, hotelID uint, outcome workflow.AuditOutcome, comment string) (*model.Hotel, error)
	PublishHotel(ctx context.Context, adminID, hotelID uint, action workflow.PublishAction) (*model.Hotel, error)
	History(hotelID uint) ([]model.HotelStatusLog, error)
	AuditBacklog(ctx context.Context) (*scheduler.Backlog, error)
}

type adminHotelService struct {
	hotelRepo     repository.HotelRepository
	notifications NotificationService
	now           func() time.Time
}

func NewAdminHotelService(hotelRepo repository.HotelRepository, notifications NotificationService) AdminHotelService {
	return &adminHotelService{
		hotelRepo:     hotelRepo,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *adminHotelService) ListHotels(q HotelListQuery) (*HotelPage, error) {
	return listHotels(s.hotelRepo, q)
}

func (s *adminHotelService) GetHotel(hotelID uint) (*model.Hotel, error) {
	hotel, err := s.hotelRepo.FindByID(hotelID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return hotel, nil
}

func (s *adminHotelService) AuditHotel(ctx context.Context, adminID, hotelID uint, outcome workflow.AuditOutcome, comment string) (*model.Hotel, error) {
	// refuse blank rejections before touching the database
	if err := workflow.ValidateAuditComment(outcome, comment); err != nil {
		return nil, err
	}
	hotel, err := s.GetHotel(hotelID)
	if err != nil {
		return nil, err
	}
	target, err := workflow.Audit(hotel.Status, outcome, comment)
	if err != nil {
		logger.Warn("Audit refused", map[string]interface{}{
			"hotel_id": hotelID,
			"status":   hotel.Status,
			"outcome":  outcome,
			"error":    err.Error(),
		})
		return nil, err
	}

	var note *string
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		note = &trimmed
	}
	return s.apply(hotel, adminID, target, note)
}

func (s *adminHotelService) PublishHotel(ctx context.Context, adminID, hotelID uint, action workflow.PublishAction) (*model.Hotel, error) {
	hotel, err := s.GetHotel(hotelID)
	if err != nil {
		return nil, err
	}
	target, err := workflow.Publish(hotel.Status, action)
	if err != nil {
		logger.Warn("Publish refused", map[string]interface{}{
			"hotel_id": hotelID,
			"status":   hotel.Status,
			"action":   action,
			"error":    err.Error(),
		})
		return nil, err
	}
	return s.apply(hotel, adminID, target, nil)
}

// apply persists a transition already checked by the workflow, then records
// it and tells the owner
func (s *adminHotelService) apply(hotel *model.Hotel, adminID uint, target workflow.Status, comment *string) (*model.Hotel, error) {
	from := hotel.Status
	err := s.hotelRepo.ApplyStatusChange(repository.StatusChange{
		HotelID:    hotel.ID,
		ActorID:    adminID,
		From:       from,
		To:         target,
		Comment:    comment,
		ReviewedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	metrics.ObserveTransition(string(from), string(target))
	logger.Info("Hotel status changed", map[string]interface{}{
		"hotel_id": hotel.ID,
		"admin_id": adminID,
		"from":     from,
		"to":       target,
	})

	updated, err := s.GetHotel(hotel.ID)
	if err != nil {
		return nil, err
	}
	if s.notifications != nil {
		note := ""
		if comment != nil {
			note = *comment
		}
		// the transition is committed; a lost notification is only logged
		if err := s.notifications.HotelStatusChanged(updated, from, target, note); err != nil {
			logger.Warn("Status notification not delivered", map[string]interface{}{
				"hotel_id": hotel.ID,
			})
		}
	}
	return updated, nil
}

func (s *adminHotelService) History(hotelID uint) ([]model.HotelStatusLog, error) {
	if _, err := s.hotelRepo.FindByID(hotelID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	logs, err := s.hotelRepo.StatusLogs(hotelID)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []model.HotelStatusLog{}
	}
	return logs, nil
}

// AuditBacklog counts pending hotels for the backlog scheduler
func (s *adminHotelService) AuditBacklog(ctx context.Context) (*scheduler.Backlog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pending, err := s.hotelRepo.CountByStatus(workflow.StatusPending)
	if err != nil {
		return nil, err
	}
	b := &scheduler.Backlog{Pending: pending}
	oldest, err := s.hotelRepo.OldestWithStatus(workflow.StatusPending)
	if err != nil {
		return nil, err
	}
	if oldest != nil {
		created := oldest.CreatedAt
		b.OldestPending = &created
	}
	return b, nil
}
