package repository

import (
	"context"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/cache"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag catalog operations.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// List returns the full catalog ordered by name, cache-aside through Redis.
func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := cache.Aside(ctx, cache.TagCatalogKey, &tags, cache.TagCatalogTTL, func() error {
		return r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	})
	return tags, err
}

// GetByIDs resolves tag IDs against the catalog; unknown IDs are simply
// absent from the result.
func (r *tagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return err
	}
	cache.InvalidateTagCatalog(ctx)
	return nil
}
