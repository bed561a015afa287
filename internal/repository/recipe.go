// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/cache"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"gorm.io/gorm"
)

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe, tagIDs []uint) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Recipe, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Recipe, error)
	GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Recipe, error)
	GetLikedBy(ctx context.Context, userID uint) ([]*models.Recipe, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe, tagIDs []uint, replaceTags bool) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, recipeID uint) (bool, error)
	Like(ctx context.Context, userID, recipeID uint) error
	Unlike(ctx context.Context, userID, recipeID uint) error
	CountLikes(ctx context.Context, recipeID uint) (int64, error)
}

// recipeRepository implements RecipeRepository
type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create inserts the recipe and its tag associations in one transaction.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(recipe).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Exec(
				"INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)",
				recipe.ID, tagID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Recipe, error) {
	var recipe models.Recipe

	var err error
	if currentUserID == 0 {
		// Anonymous readers all see the same row, so they share one cache
		// entry. Authenticated reads carry viewer-specific fields (liked)
		// and always hit the database.
		err = cache.Aside(ctx, cache.RecipeKey(id), &recipe, cache.RecipeTTL, func() error {
			return r.applyRecipeDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				Preload("Tags").
				First(&recipe, id).Error
		})
	} else {
		err = r.applyRecipeDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Preload("Tags").
			First(&recipe, id).Error
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns feed rows ordered newest-first.
func (r *recipeRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.applyRecipeDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags").
		Order("recipes.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.applyRecipeDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags").
		Where("recipes.user_id = ?", userID).
		Order("recipes.created_at DESC").
		Find(&recipes).Error
	return recipes, err
}

// GetLikedBy returns the recipes a user liked, most recently liked first.
// Every row is liked by definition.
func (r *recipeRepository) GetLikedBy(ctx context.Context, userID uint) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.applyRecipeDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Preload("Tags").
		Joins("JOIN likes ON likes.recipe_id = recipes.id AND likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) Search(ctx context.Context, query string, limit int) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	like := "%" + query + "%"
	err := r.applyRecipeDetails(r.db.WithContext(ctx), 0).
		Preload("User").
		Where("recipes.dish ILIKE ? OR recipes.description ILIKE ? OR recipes.ingredients ILIKE ?", like, like, like).
		Order("recipes.created_at DESC").
		Limit(limit).
		Find(&recipes).Error
	return recipes, err
}

// applyRecipeDetails appends the computed aggregate columns: like count,
// rating count, average rating (1 decimal, NULL when unrated) and the
// liked-by-me flag for the requesting user.
func (r *recipeRepository) applyRecipeDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "recipes.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.recipe_id = recipes.id) as total_likes, " +
		"(SELECT COUNT(*) FROM ratings WHERE ratings.recipe_id = recipes.id) as total_ratings, " +
		"(SELECT ROUND(AVG(score)::numeric, 1) FROM ratings WHERE ratings.recipe_id = recipes.id) as avg_rating"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.recipe_id = recipes.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// Update saves the recipe row and, when replaceTags is set, replaces the full
// tag association set, all inside one transaction.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, tagIDs []uint, replaceTags bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(recipe).Error; err != nil {
			return err
		}
		if !replaceTags {
			return nil
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Exec(
				"INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)",
				recipe.ID, tagID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		cache.InvalidateRecipe(ctx, recipe.ID)
	}
	return err
}

// Delete removes the recipe and its dependent engagement rows in one
// transaction so no orphans survive a partial failure.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM rating_replies WHERE rating_id IN (SELECT id FROM ratings WHERE recipe_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rating_reactions WHERE rating_id IN (SELECT id FROM ratings WHERE recipe_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM ratings WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM likes WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Recipe{}, id).Error
	})
	if err == nil {
		cache.InvalidateRecipe(ctx, id)
	}
	return err
}

func (r *recipeRepository) IsLiked(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) Like(ctx context.Context, userID, recipeID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps concurrent toggles from
	// tripping the unique pair index.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, recipe_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, recipe_id) DO NOTHING`,
		userID, recipeID,
	).Error
	if err != nil {
		return err
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return nil
}

func (r *recipeRepository) Unlike(ctx context.Context, userID, recipeID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Like{}).Error
	if err != nil {
		return err
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return nil
}

func (r *recipeRepository) CountLikes(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error
	return count, err
}
