package repository

import (
	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	FindAll(category string) ([]model.Tag, error)
	FindByIDs(ids []uint) ([]model.Tag, error)
	Create(tag *model.Tag) error
	// Upsert inserts tags that do not exist yet and returns how many were added
	Upsert(tags []model.Tag) (int64, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// FindAll lists the catalog ordered by id; an empty category means all
func (r *tagRepository) FindAll(category string) ([]model.Tag, error) {
	query := r.db.Model(&model.Tag{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var tags []model.Tag
	if err := query.Order("id ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to list tags", err, map[string]interface{}{
			"category": category,
		})
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByIDs(ids []uint) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	var tags []model.Tag
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags by IDs", err)
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag in database", map[string]interface{}{
		"name":     tag.Name,
		"category": tag.Category,
	})
	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag", err, map[string]interface{}{
			"name": tag.Name,
		})
		return err
	}
	return nil
}

func (r *tagRepository) Upsert(tags []model.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tags)
	if result.Error != nil {
		logger.Error("Failed to upsert tags", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
