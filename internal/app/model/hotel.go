package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

type ImageType string

const (
	ImageMain     ImageType = "main"
	ImageFacility ImageType = "facility"
)

// HotelImage is one entry of a hotel's ordered image list
type HotelImage struct {
	URL  string    `json:"url"`
	Type ImageType `json:"type"`
}

type Hotel struct {
	ID           uint                            `gorm:"primarykey" json:"id"`
	MerchantID   uint                            `gorm:"not null;index" json:"merchantId"`
	Name         string                          `gorm:"type:varchar(100);not null;index" json:"name"`
	Address      string                          `gorm:"type:varchar(255);not null" json:"address"`
	Description  string                          `gorm:"type:text" json:"description"`
	Star         int                             `gorm:"not null;default:3" json:"star"` // 1-5
	Rating       float64                         `gorm:"default:0" json:"rating"`        // computed, never written by clients
	OpeningDate  *time.Time                      `gorm:"type:date" json:"openingDate,omitempty"`
	Tags         datatypes.JSONSlice[string]     `json:"tags"`
	Images       datatypes.JSONSlice[HotelImage] `json:"images"`
	Status       workflow.Status                 `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AuditComment *string                         `gorm:"type:text" json:"auditComment"`
	ReviewedBy   *uint                           `json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time                      `json:"reviewedAt,omitempty"`
	CreatedAt    time.Time                       `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt                  `gorm:"index" json:"-"`

	Merchant *User  `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
	Rooms    []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}

func (Hotel) TableName() string {
	return "hotels"
}

// MainImage returns the first image of type main, or the first image
func (h *Hotel) MainImage() string {
	for _, img := range h.Images {
		if img.Type == ImageMain {
			return img.URL
		}
	}
	if len(h.Images) > 0 {
		return h.Images[0].URL
	}
	return ""
}
