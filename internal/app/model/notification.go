package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

type NotificationType string

const (
	NotificationHotelStatus NotificationType = "hotel_status_changed"
)

// Notification is an inbox entry for a merchant, also pushed over websocket
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint             `gorm:"not null;index" json:"userId"`
	Type   NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`
	Title  string           `gorm:"type:varchar(200);not null" json:"title"`
	Body   string           `gorm:"type:text" json:"body"`
	IsRead bool             `gorm:"default:false;index" json:"isRead"`

	HotelID    *uint           `gorm:"index" json:"hotelId,omitempty"`
	FromStatus workflow.Status `gorm:"type:varchar(20)" json:"fromStatus,omitempty"`
	ToStatus   workflow.Status `gorm:"type:varchar(20)" json:"toStatus,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// HotelStatusLog records every status transition for audit history
type HotelStatusLog struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	HotelID    uint            `gorm:"not null;index" json:"hotelId"`
	ActorID    uint            `gorm:"not null" json:"actorId"`
	FromStatus workflow.Status `gorm:"type:varchar(20);not null" json:"fromStatus"`
	ToStatus   workflow.Status `gorm:"type:varchar(20);not null" json:"toStatus"`
	Comment    string          `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (HotelStatusLog) TableName() string {
	return "hotel_status_logs"
}
