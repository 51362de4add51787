package console

import (
	"time"

	"github.com/ikkim/hotel-admin-backend/pkg/tags"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

type Role string

const (
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
)

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type HotelImage struct {
	URL  string `json:"url"`
	Type string `json:"type"` // main or facility
}

type Hotel struct {
	ID           uint            `json:"id"`
	MerchantID   uint            `json:"merchantId"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Description  string          `json:"description"`
	Star         int             `json:"star"`
	Rating       float64         `json:"rating"`
	OpeningDate  *time.Time      `json:"openingDate,omitempty"`
	Tags         []string        `json:"tags"`
	Images       []HotelImage    `json:"images"`
	Rooms        []Room          `json:"rooms,omitempty"`
	AuditComment *string         `json:"auditComment"`
	Status       workflow.Status `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type Room struct {
	ID           uint      `json:"id"`
	HotelID      uint      `json:"hotelId"`
	Type         string    `json:"type"`
	Area         float64   `json:"area"`
	BedType      string    `json:"bedType"`
	MaxOccupancy int       `json:"maxOccupancy"`
	Price        float64   `json:"price"`
	TotalRooms   int       `json:"totalRooms"`
	Available    int       `json:"available"`
	Images       []string  `json:"images"`
	Amenities    []string  `json:"amenities"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Tag is the catalog entry type shared with pkg/tags
type Tag = tags.Tag

type HotelPage struct {
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Items    []Hotel `json:"items"`
}

// CreatedHotel is what the server returns for a new listing
type CreatedHotel struct {
	ID        uint            `json:"id"`
	Status    workflow.Status `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type StatusLog struct {
	ID         uint            `json:"id"`
	HotelID    uint            `json:"hotelId"`
	ActorID    uint            `json:"actorId"`
	FromStatus workflow.Status `json:"fromStatus"`
	ToStatus   workflow.Status `json:"toStatus"`
	Comment    string          `json:"comment,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Backlog struct {
	Pending       int64      `json:"pending"`
	OldestPending *time.Time `json:"oldestPending,omitempty"`
}

type Notification struct {
	ID         uint            `json:"id"`
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	IsRead     bool            `json:"isRead"`
	HotelID    *uint           `json:"hotelId,omitempty"`
	FromStatus workflow.Status `json:"fromStatus,omitempty"`
	ToStatus   workflow.Status `json:"toStatus,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type NotificationPage struct {
	Total       int64          `json:"total"`
	UnreadCount int64          `json:"unreadCount"`
	Page        int            `json:"page"`
	PageSize    int            `json:"pageSize"`
	Items       []Notification `json:"items"`
}

// ListQuery drives the merchant and admin hotel tables
type ListQuery struct {
	Page       int
	PageSize   int
	Statuses   []workflow.Status
	Keyword    string
	SortBy     string
	Order      string // ascend or descend
	MerchantID uint   // admin only, 0 means all merchants
}
