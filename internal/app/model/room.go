package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room is a room type offered by a hotel
type Room struct {
	ID           uint                        `gorm:"primarykey" json:"id"`
	HotelID      uint                        `gorm:"not null;index" json:"hotelId"`
	Type         string                      `gorm:"type:varchar(100);not null" json:"type"`
	Area         float64                     `gorm:"not null" json:"area"` // square meters, > 0
	BedType      string                      `gorm:"type:varchar(50)" json:"bedType"`
	MaxOccupancy int                         `gorm:"not null" json:"maxOccupancy"`
	Price        float64                     `gorm:"not null;default:0" json:"price"`
	TotalRooms   int                         `gorm:"not null;default:0" json:"totalRooms"`
	Available    int                         `gorm:"not null;default:0" json:"available"` // never above TotalRooms
	Images       datatypes.JSONSlice[string] `json:"images"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt              `gorm:"index" json:"-"`

	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"-"`
}

func (Room) TableName() string {
	return "rooms"
}
