package db

import (
	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Hotel{},
		&model.Room{},
		&model.HotelStatusLog{},
		&model.Notification{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs migrations and seeds the default tag catalog on db
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedDefaultTags(db); err != nil {
		logger.Error("Failed to seed default tags", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// DefaultTags is the catalog installed on an empty database
var DefaultTags = []model.Tag{
	{Name: "免费WiFi", Category: "facility"},
	{Name: "停车场", Category: "facility"},
	{Name: "游泳池", Category: "facility"},
	{Name: "健身房", Category: "facility"},
	{Name: "SPA", Category: "facility"},
	{Name: "餐厅", Category: "facility"},
	{Name: "接机服务", Category: "service"},
	{Name: "24小时前台", Category: "service"},
	{Name: "行李寄存", Category: "service"},
	{Name: "亲子酒店", Category: "theme"},
	{Name: "商务出行", Category: "theme"},
	{Name: "近地铁", Category: "location"},
}

// SeedDefaultTags installs DefaultTags when the tags table is empty
func SeedDefaultTags(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Tags already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	tags := make([]model.Tag, len(DefaultTags))
	copy(tags, DefaultTags)
	if err := db.Create(&tags).Error; err != nil {
		return err
	}

	logger.Info("Tags seeded successfully", map[string]interface{}{
		"total_tags": len(tags),
	})
	return nil
}
