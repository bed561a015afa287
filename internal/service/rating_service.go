package service

import (
	"context"
	"errors"
	"strings"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/repository"

	"gorm.io/gorm"
)

type RatingService struct {
	ratingRepo repository.RatingRepository
	recipeRepo repository.RecipeRepository
}

type RateRecipeInput struct {
	UserID   uint
	RecipeID uint
	Score    int
	Comment  string
}

// RatingList pairs the recipe-level aggregates with the full rating thread.
type RatingList struct {
	Stats   *models.RatingStats `json:"stats"`
	Ratings []*models.Rating    `json:"ratings"`
}

// ReactionResult reports the reaction state after a toggle plus the fresh
// tallies.
type ReactionResult struct {
	Liked    bool  `json:"liked"`
	Disliked bool  `json:"disliked"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	recipeRepo repository.RecipeRepository,
) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		recipeRepo: recipeRepo,
	}
}

const maxCommentLen = 5000

// RateRecipe creates or updates the caller's rating. A repeat submission
// replaces the score; the previous comment survives when the new one is
// blank.
func (s *RatingService) RateRecipe(ctx context.Context, in RateRecipeInput) (*models.Rating, error) {
	if in.Score < 1 || in.Score > 5 {
		return nil, models.NewValidationError("Score must be between 1 and 5")
	}
	if len(in.Comment) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	if _, err := s.recipeRepo.GetByID(ctx, in.RecipeID, in.UserID); err != nil {
		return nil, err
	}

	existing, err := s.ratingRepo.GetByUserAndRecipe(ctx, in.UserID, in.RecipeID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		rating := &models.Rating{
			UserID:   in.UserID,
			RecipeID: in.RecipeID,
			Score:    in.Score,
			Comment:  in.Comment,
		}
		if err := s.ratingRepo.Create(ctx, rating); err != nil {
			return nil, err
		}
		return rating, nil
	}

	existing.Score = in.Score
	if strings.TrimSpace(in.Comment) != "" {
		existing.Comment = in.Comment
	}
	if err := s.ratingRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ListRatings returns the stats block and the annotated ratings for a recipe.
func (s *RatingService) ListRatings(ctx context.Context, recipeID, currentUserID uint) (*RatingList, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID, currentUserID); err != nil {
		return nil, err
	}

	stats, err := s.ratingRepo.Stats(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.ListByRecipe(ctx, recipeID, currentUserID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []*models.Rating{}
	}
	return &RatingList{Stats: stats, Ratings: ratings}, nil
}

// DeleteRating removes the caller's rating and everything hanging off it.
func (s *RatingService) DeleteRating(ctx context.Context, userID, ratingID uint) error {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Rating", ratingID)
		}
		return err
	}
	if rating.UserID != userID {
		return models.NewForbiddenError("You can only delete your own ratings")
	}
	return s.ratingRepo.Delete(ctx, ratingID)
}

// ToggleReaction cycles the caller's reaction on a rating: a fresh kind
// creates it, the same kind removes it, the opposite kind replaces it.
func (s *RatingService) ToggleReaction(ctx context.Context, userID, ratingID uint, kind string) (*ReactionResult, error) {
	if kind != models.ReactionLike && kind != models.ReactionDislike {
		return nil, models.NewValidationError("Reaction must be like or dislike")
	}

	if _, err := s.ratingRepo.GetByID(ctx, ratingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Rating", ratingID)
		}
		return nil, err
	}

	existing, err := s.ratingRepo.GetReaction(ctx, userID, ratingID)
	if err != nil {
		return nil, err
	}

	var liked, disliked bool
	switch {
	case existing == nil:
		reaction := &models.RatingReaction{
			UserID:   userID,
			RatingID: ratingID,
			Kind:     kind,
		}
		if err := s.ratingRepo.CreateReaction(ctx, reaction); err != nil {
			return nil, err
		}
		liked = kind == models.ReactionLike
		disliked = kind == models.ReactionDislike
	case existing.Kind == kind:
		if err := s.ratingRepo.DeleteReaction(ctx, existing.ID); err != nil {
			return nil, err
		}
	default:
		existing.Kind = kind
		if err := s.ratingRepo.UpdateReaction(ctx, existing); err != nil {
			return nil, err
		}
		liked = kind == models.ReactionLike
		disliked = kind == models.ReactionDislike
	}

	likes, dislikes, err := s.ratingRepo.CountReactions(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	return &ReactionResult{
		Liked:    liked,
		Disliked: disliked,
		Likes:    likes,
		Dislikes: dislikes,
	}, nil
}

// CreateReply appends a reply under a rating and returns it with the author
// loaded.
func (s *RatingService) CreateReply(ctx context.Context, userID, ratingID uint, text string) (*models.RatingReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Reply text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Reply too long (max 5000 characters)")
	}

	if _, err := s.ratingRepo.GetByID(ctx, ratingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Rating", ratingID)
		}
		return nil, err
	}

	reply := &models.RatingReply{
		UserID:   userID,
		RatingID: ratingID,
		Text:     text,
	}
	if err := s.ratingRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *RatingService) DeleteReply(ctx context.Context, userID, replyID uint) error {
	reply, err := s.ratingRepo.GetReplyByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Reply", replyID)
		}
		return err
	}
	if reply.UserID != userID {
		return models.NewForbiddenError("You can only delete your own replies")
	}
	return s.ratingRepo.DeleteReply(ctx, replyID)
}
