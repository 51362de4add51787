package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/internal/scheduler"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Push event types
const (
	EventHotelStatusChanged = "hotel_status_changed"
	EventHotelSubmitted     = "hotel_submitted"
	EventAuditBacklog       = "audit_backlog"
)

// Pusher delivers live events; the websocket hub implements it
type Pusher interface {
	SendToUser(userID uint, eventType string, payload interface{}) error
	SendToRole(role string, eventType string, payload interface{}) error
}

type NotificationService interface {
	GetNotifications(userID uint, isRead *bool, page, pageSize int) (*NotificationPage, error)
	MarkAsRead(notificationID, userID uint) error
	MarkAllAsRead(userID uint) error

	HotelStatusChanged(hotel *model.Hotel, from, to workflow.Status, comment string) error
	HotelSubmitted(hotel *model.Hotel)
	AuditBacklog(b *scheduler.Backlog)
}

type NotificationPage struct {
	Total       int64                `json:"total"`
	UnreadCount int64                `json:"unreadCount"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"pageSize"`
	Items       []model.Notification `json:"items"`
}

type notificationService struct {
	repo   repository.NotificationRepository
	pusher Pusher
}

// NewNotificationService builds the service; pusher may be nil, in which
// case notifications are only stored
func NewNotificationService(repo repository.NotificationRepository, pusher Pusher) NotificationService {
	return &notificationService{repo: repo, pusher: pusher}
}

func (s *notificationService) GetNotifications(userID uint, isRead *bool, page, pageSize int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.repo.GetNotifications(userID, isRead, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Notification{}
	}
	return &NotificationPage{Total: total, UnreadCount: unread, Page: page, PageSize: pageSize, Items: items}, nil
}

func (s *notificationService) MarkAsRead(notificationID, userID uint) error {
	err := s.repo.MarkAsRead(notificationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}

// HotelStatusChanged stores an inbox entry for the owner and pushes it live
func (s *notificationService) HotelStatusChanged(hotel *model.Hotel, from, to workflow.Status, comment string) error {
	hotelID := hotel.ID
	n := &model.Notification{
		UserID:     hotel.MerchantID,
		Type:       model.NotificationHotelStatus,
		Title:      fmt.Sprintf("%s: %s", hotel.Name, workflow.Label(to)),
		Body:       comment,
		HotelID:    &hotelID,
		FromStatus: from,
		ToStatus:   to,
	}
	if err := s.repo.CreateNotification(n); err != nil {
		logger.Error("Failed to store status notification", err, map[string]interface{}{
			"hotel_id": hotel.ID,
		})
		return err
	}
	s.push(func(p Pusher) error {
		return p.SendToUser(hotel.MerchantID, EventHotelStatusChanged, n)
	})
	return nil
}

// HotelSubmitted tells online admins a listing is waiting for audit
func (s *notificationService) HotelSubmitted(hotel *model.Hotel) {
	s.push(func(p Pusher) error {
		return p.SendToRole(string(model.RoleAdmin), EventHotelSubmitted, map[string]interface{}{
			"hotelId":    hotel.ID,
			"name":       hotel.Name,
			"merchantId": hotel.MerchantID,
		})
	})
}

func (s *notificationService) AuditBacklog(b *scheduler.Backlog) {
	s.push(func(p Pusher) error {
		return p.SendToRole(string(model.RoleAdmin), EventAuditBacklog, map[string]interface{}{
			"pending":       b.Pending,
			"oldestPending": b.OldestPending,
		})
	})
}

func (s *notificationService) push(send func(Pusher) error) {
	if s.pusher == nil {
		return
	}
	if err := send(s.pusher); err != nil {
		logger.Warn("Failed to push live event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
