package repository

import (
	"context"
	"errors"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/cache"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines the interface for rating, reaction and reply data
// operations.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	GetByID(ctx context.Context, id uint) (*models.Rating, error)
	GetByUserAndRecipe(ctx context.Context, userID, recipeID uint) (*models.Rating, error)
	ListByRecipe(ctx context.Context, recipeID, currentUserID uint) ([]*models.Rating, error)
	Stats(ctx context.Context, recipeID uint) (*models.RatingStats, error)
	Delete(ctx context.Context, id uint) error

	GetReaction(ctx context.Context, userID, ratingID uint) (*models.RatingReaction, error)
	CreateReaction(ctx context.Context, reaction *models.RatingReaction) error
	UpdateReaction(ctx context.Context, reaction *models.RatingReaction) error
	DeleteReaction(ctx context.Context, id uint) error
	CountReactions(ctx context.Context, ratingID uint) (likes, dislikes int64, err error)

	CreateReply(ctx context.Context, reply *models.RatingReply) error
	GetReplyByID(ctx context.Context, id uint) (*models.RatingReply, error)
	DeleteReply(ctx context.Context, id uint) error
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Omit("User", "Replies").Create(rating).Error; err != nil {
		return err
	}
	// The recipe's cached detail row carries rating totals.
	cache.InvalidateRecipe(ctx, rating.RecipeID)
	return nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Omit("User", "Replies").Save(rating).Error; err != nil {
		return err
	}
	cache.InvalidateRecipe(ctx, rating.RecipeID)
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetByUserAndRecipe(ctx context.Context, userID, recipeID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// ListByRecipe returns ratings newest-first with reaction tallies, the
// requesting user's own reaction and the full reply thread (oldest-first).
func (r *ratingRepository) ListByRecipe(ctx context.Context, recipeID, currentUserID uint) ([]*models.Rating, error) {
	selectQuery := "ratings.*, " +
		"(SELECT COUNT(*) FROM rating_reactions WHERE rating_reactions.rating_id = ratings.id AND rating_reactions.kind = 'like') as likes, " +
		"(SELECT COUNT(*) FROM rating_reactions WHERE rating_reactions.rating_id = ratings.id AND rating_reactions.kind = 'dislike') as dislikes"

	db := r.db.WithContext(ctx)
	if currentUserID != 0 {
		db = db.Select(selectQuery+", (SELECT kind FROM rating_reactions WHERE rating_reactions.rating_id = ratings.id AND rating_reactions.user_id = ?) as my_reaction", currentUserID)
	} else {
		db = db.Select(selectQuery + ", NULL as my_reaction")
	}

	var ratings []*models.Rating
	err := db.
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("rating_replies.created_at ASC")
		}).
		Preload("Replies.User").
		Where("ratings.recipe_id = ?", recipeID).
		Order("ratings.created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

// Stats returns the rating count and unrounded average; AvgScore stays nil
// when the recipe has no ratings.
func (r *ratingRepository) Stats(ctx context.Context, recipeID uint) (*models.RatingStats, error) {
	var stats models.RatingStats
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COUNT(*) as total_ratings, AVG(score) as avg_score").
		Where("recipe_id = ?", recipeID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Delete removes the rating together with its reactions and replies in one
// transaction.
func (r *ratingRepository) Delete(ctx context.Context, id uint) error {
	var recipeID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.Select("id", "recipe_id").First(&rating, id).Error; err != nil {
			return err
		}
		recipeID = rating.RecipeID
		if err := tx.Exec("DELETE FROM rating_reactions WHERE rating_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rating_replies WHERE rating_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Rating{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return nil
}

func (r *ratingRepository) GetReaction(ctx context.Context, userID, ratingID uint) (*models.RatingReaction, error) {
	var reaction models.RatingReaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND rating_id = ?", userID, ratingID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *ratingRepository) CreateReaction(ctx context.Context, reaction *models.RatingReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *ratingRepository) UpdateReaction(ctx context.Context, reaction *models.RatingReaction) error {
	return r.db.WithContext(ctx).Save(reaction).Error
}

func (r *ratingRepository) DeleteReaction(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RatingReaction{}, id).Error
}

func (r *ratingRepository) CountReactions(ctx context.Context, ratingID uint) (likes, dislikes int64, err error) {
	err = r.db.WithContext(ctx).
		Model(&models.RatingReaction{}).
		Where("rating_id = ? AND kind = ?", ratingID, models.ReactionLike).
		Count(&likes).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).
		Model(&models.RatingReaction{}).
		Where("rating_id = ? AND kind = ?", ratingID, models.ReactionDislike).
		Count(&dislikes).Error
	if err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

func (r *ratingRepository) CreateReply(ctx context.Context, reply *models.RatingReply) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(reply).Error; err != nil {
		return err
	}
	// Reload with the author so handlers can return the hydrated reply.
	return r.db.WithContext(ctx).Preload("User").First(reply, reply.ID).Error
}

func (r *ratingRepository) GetReplyByID(ctx context.Context, id uint) (*models.RatingReply, error) {
	var reply models.RatingReply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *ratingRepository) DeleteReply(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RatingReply{}, id).Error
}
