package service

import (
	"context"
	"testing"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ratingRepoStub is a stub for repository.RatingRepository.
type ratingRepoStub struct {
	createFn             func(context.Context, *models.Rating) error
	updateFn             func(context.Context, *models.Rating) error
	getByIDFn            func(context.Context, uint) (*models.Rating, error)
	getByUserAndRecipeFn func(context.Context, uint, uint) (*models.Rating, error)
	listByRecipeFn       func(context.Context, uint, uint) ([]*models.Rating, error)
	statsFn              func(context.Context, uint) (*models.RatingStats, error)
	deleteFn             func(context.Context, uint) error
	getReactionFn        func(context.Context, uint, uint) (*models.RatingReaction, error)
	createReactionFn     func(context.Context, *models.RatingReaction) error
	updateReactionFn     func(context.Context, *models.RatingReaction) error
	deleteReactionFn     func(context.Context, uint) error
	countReactionsFn     func(context.Context, uint) (int64, int64, error)
	createReplyFn        func(context.Context, *models.RatingReply) error
	getReplyByIDFn       func(context.Context, uint) (*models.RatingReply, error)
	deleteReplyFn        func(context.Context, uint) error
}

func (s *ratingRepoStub) Create(ctx context.Context, r *models.Rating) error { return s.createFn(ctx, r) }
func (s *ratingRepoStub) Update(ctx context.Context, r *models.Rating) error { return s.updateFn(ctx, r) }
func (s *ratingRepoStub) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	return s.getByIDFn(ctx, id)
}
func (s *ratingRepoStub) GetByUserAndRecipe(ctx context.Context, userID, recipeID uint) (*models.Rating, error) {
	return s.getByUserAndRecipeFn(ctx, userID, recipeID)
}
func (s *ratingRepoStub) ListByRecipe(ctx context.Context, recipeID, currentUserID uint) ([]*models.Rating, error) {
	return s.listByRecipeFn(ctx, recipeID, currentUserID)
}
func (s *ratingRepoStub) Stats(ctx context.Context, recipeID uint) (*models.RatingStats, error) {
	return s.statsFn(ctx, recipeID)
}
func (s *ratingRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *ratingRepoStub) GetReaction(ctx context.Context, userID, ratingID uint) (*models.RatingReaction, error) {
	return s.getReactionFn(ctx, userID, ratingID)
}
func (s *ratingRepoStub) CreateReaction(ctx context.Context, r *models.RatingReaction) error {
	return s.createReactionFn(ctx, r)
}
func (s *ratingRepoStub) UpdateReaction(ctx context.Context, r *models.RatingReaction) error {
	return s.updateReactionFn(ctx, r)
}
func (s *ratingRepoStub) DeleteReaction(ctx context.Context, id uint) error {
	return s.deleteReactionFn(ctx, id)
}
func (s *ratingRepoStub) CountReactions(ctx context.Context, ratingID uint) (int64, int64, error) {
	return s.countReactionsFn(ctx, ratingID)
}
func (s *ratingRepoStub) CreateReply(ctx context.Context, r *models.RatingReply) error {
	return s.createReplyFn(ctx, r)
}
func (s *ratingRepoStub) GetReplyByID(ctx context.Context, id uint) (*models.RatingReply, error) {
	return s.getReplyByIDFn(ctx, id)
}
func (s *ratingRepoStub) DeleteReply(ctx context.Context, id uint) error {
	return s.deleteReplyFn(ctx, id)
}

func noopRatingRepo() *ratingRepoStub {
	return &ratingRepoStub{
		createFn:             func(_ context.Context, _ *models.Rating) error { return nil },
		updateFn:             func(_ context.Context, _ *models.Rating) error { return nil },
		getByIDFn:            func(_ context.Context, _ uint) (*models.Rating, error) { return &models.Rating{}, nil },
		getByUserAndRecipeFn: func(_ context.Context, _, _ uint) (*models.Rating, error) { return nil, nil },
		listByRecipeFn:       func(_ context.Context, _, _ uint) ([]*models.Rating, error) { return nil, nil },
		statsFn:              func(_ context.Context, _ uint) (*models.RatingStats, error) { return &models.RatingStats{}, nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		getReactionFn:        func(_ context.Context, _, _ uint) (*models.RatingReaction, error) { return nil, nil },
		createReactionFn:     func(_ context.Context, _ *models.RatingReaction) error { return nil },
		updateReactionFn:     func(_ context.Context, _ *models.RatingReaction) error { return nil },
		deleteReactionFn:     func(_ context.Context, _ uint) error { return nil },
		countReactionsFn:     func(_ context.Context, _ uint) (int64, int64, error) { return 0, 0, nil },
		createReplyFn:        func(_ context.Context, _ *models.RatingReply) error { return nil },
		getReplyByIDFn:       func(_ context.Context, id uint) (*models.RatingReply, error) { return &models.RatingReply{ID: id}, nil },
		deleteReplyFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

func TestRateRecipe_CreatesNewRating(t *testing.T) {
	ratingRepo := noopRatingRepo()
	var created *models.Rating
	ratingRepo.createFn = func(_ context.Context, r *models.Rating) error {
		created = r
		return nil
	}

	svc := NewRatingService(ratingRepo, noopRecipeRepo())
	rating, err := svc.RateRecipe(context.Background(), RateRecipeInput{
		UserID: 1, RecipeID: 2, Score: 4, Comment: "muito bom",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 4, rating.Score)
	assert.Equal(t, "muito bom", rating.Comment)
}

func TestRateRecipe_UpdatePreservesCommentWhenBlank(t *testing.T) {
	ratingRepo := noopRatingRepo()
	ratingRepo.getByUserAndRecipeFn = func(_ context.Context, _, _ uint) (*models.Rating, error) {
		return &models.Rating{ID: 7, UserID: 1, RecipeID: 2, Score: 3, Comment: "original"}, nil
	}

	svc := NewRatingService(ratingRepo, noopRecipeRepo())

	rating, err := svc.RateRecipe(context.Background(), RateRecipeInput{
		UserID: 1, RecipeID: 2, Score: 5, Comment: "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Score)
	assert.Equal(t, "original", rating.Comment, "blank comment must not wipe the existing one")

	rating, err = svc.RateRecipe(context.Background(), RateRecipeInput{
		UserID: 1, RecipeID: 2, Score: 2, Comment: "mudou",
	})
	require.NoError(t, err)
	assert.Equal(t, "mudou", rating.Comment)
}

func TestRateRecipe_ScoreOutOfRange(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), noopRecipeRepo())

	for _, score := range []int{0, 6, -1} {
		_, err := svc.RateRecipe(context.Background(), RateRecipeInput{
			UserID: 1, RecipeID: 2, Score: score,
		})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestToggleReaction_CreateThenRemove(t *testing.T) {
	ratingRepo := noopRatingRepo()

	var stored *models.RatingReaction
	ratingRepo.getReactionFn = func(_ context.Context, _, _ uint) (*models.RatingReaction, error) {
		return stored, nil
	}
	ratingRepo.createReactionFn = func(_ context.Context, r *models.RatingReaction) error {
		r.ID = 1
		stored = r
		return nil
	}
	ratingRepo.deleteReactionFn = func(_ context.Context, _ uint) error {
		stored = nil
		return nil
	}
	ratingRepo.countReactionsFn = func(_ context.Context, _ uint) (int64, int64, error) {
		if stored == nil {
			return 0, 0, nil
		}
		if stored.Kind == models.ReactionLike {
			return 1, 0, nil
		}
		return 0, 1, nil
	}

	svc := NewRatingService(ratingRepo, noopRecipeRepo())

	// First like creates the reaction.
	res, err := svc.ToggleReaction(context.Background(), 1, 10, models.ReactionLike)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.False(t, res.Disliked)
	assert.Equal(t, int64(1), res.Likes)

	// Repeating the same kind removes it.
	res, err = svc.ToggleReaction(context.Background(), 1, 10, models.ReactionLike)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.False(t, res.Disliked)
	assert.Equal(t, int64(0), res.Likes)
}

func TestToggleReaction_SwitchKind(t *testing.T) {
	ratingRepo := noopRatingRepo()

	stored := &models.RatingReaction{ID: 1, UserID: 1, RatingID: 10, Kind: models.ReactionLike}
	ratingRepo.getReactionFn = func(_ context.Context, _, _ uint) (*models.RatingReaction, error) {
		return stored, nil
	}
	ratingRepo.updateReactionFn = func(_ context.Context, r *models.RatingReaction) error {
		stored = r
		return nil
	}
	ratingRepo.countReactionsFn = func(_ context.Context, _ uint) (int64, int64, error) {
		if stored.Kind == models.ReactionLike {
			return 1, 0, nil
		}
		return 0, 1, nil
	}

	svc := NewRatingService(ratingRepo, noopRecipeRepo())

	res, err := svc.ToggleReaction(context.Background(), 1, 10, models.ReactionDislike)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.True(t, res.Disliked)
	assert.Equal(t, int64(0), res.Likes)
	assert.Equal(t, int64(1), res.Dislikes)
	assert.Equal(t, models.ReactionDislike, stored.Kind)
}

func TestToggleReaction_InvalidKind(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), noopRecipeRepo())
	_, err := svc.ToggleReaction(context.Background(), 1, 10, "love")
	require.Error(t, err)
}

func TestToggleReaction_RatingNotFound(t *testing.T) {
	ratingRepo := noopRatingRepo()
	ratingRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Rating, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewRatingService(ratingRepo, noopRecipeRepo())
	_, err := svc.ToggleReaction(context.Background(), 1, 99, models.ReactionLike)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDeleteRating_OwnershipEnforced(t *testing.T) {
	ratingRepo := noopRatingRepo()
	ratingRepo.getByIDFn = func(_ context.Context, id uint) (*models.Rating, error) {
		return &models.Rating{ID: id, UserID: 2}, nil
	}

	svc := NewRatingService(ratingRepo, noopRecipeRepo())
	err := svc.DeleteRating(context.Background(), 1, 5)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// The owner can delete.
	require.NoError(t, svc.DeleteRating(context.Background(), 2, 5))
}

func TestCreateReply_Validation(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), noopRecipeRepo())

	_, err := svc.CreateReply(context.Background(), 1, 10, "   ")
	require.Error(t, err)

	reply, err := svc.CreateReply(context.Background(), 1, 10, " obrigado! ")
	require.NoError(t, err)
	assert.Equal(t, "obrigado!", reply.Text)
}

func TestDeleteReply_OwnershipEnforced(t *testing.T) {
	ratingRepo := noopRatingRepo()
	ratingRepo.getReplyByIDFn = func(_ context.Context, id uint) (*models.RatingReply, error) {
		return &models.RatingReply{ID: id, UserID: 3}, nil
	}

	svc := NewRatingService(ratingRepo, noopRecipeRepo())
	err := svc.DeleteReply(context.Background(), 1, 8)
	require.Error(t, err)

	require.NoError(t, svc.DeleteReply(context.Background(), 3, 8))
}
