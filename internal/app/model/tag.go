package model

import (
	"time"

	"gorm.io/gorm"
)

// Tag is an entry of the global tag catalog. Hotels store tag names, not ids.
type Tag struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"` // e.g. "spa"
	Category  string         `gorm:"type:varchar(30);index" json:"category"`            // e.g. "facility", "service"
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
