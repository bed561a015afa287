// Package service holds the business rules sitting between handlers and
// repositories.
package service

import (
	"context"
	"strings"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/repository"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/storage"
)

// FeedPageSize is how many recipes a feed page carries.
const FeedPageSize = 10

const maxSearchResults = 20

type RecipeService struct {
	recipeRepo repository.RecipeRepository
	tagRepo    repository.TagRepository
	cleaner    *storage.Cleaner
}

type CreateRecipeInput struct {
	UserID      uint
	Dish        string
	Description string
	Ingredients string
	Steps       string
	PrepTime    string
	Difficulty  string
	Cost        string
	Yield       string
	CookTime    string
	ImagePath   string
	TagIDs      []uint
}

type UpdateRecipeInput struct {
	UserID      uint
	RecipeID    uint
	Dish        string
	Description string
	Ingredients string
	Steps       string
	PrepTime    string
	Difficulty  string
	Cost        string
	Yield       string
	CookTime    string
	ImagePath   string
	TagIDs      []uint
	ReplaceTags bool
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"totalLikes"`
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	cleaner *storage.Cleaner,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		tagRepo:    tagRepo,
		cleaner:    cleaner,
	}
}

const (
	maxDishLen = 200
	maxTextLen = 20000
)

func (s *RecipeService) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(in.Dish) == "" {
		return nil, models.NewValidationError("Dish name is required")
	}
	if len(in.Dish) > maxDishLen {
		return nil, models.NewValidationError("Dish name too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Ingredients) == "" {
		return nil, models.NewValidationError("Ingredients are required")
	}
	if strings.TrimSpace(in.Steps) == "" {
		return nil, models.NewValidationError("Steps are required")
	}
	if len(in.Description) > maxTextLen || len(in.Ingredients) > maxTextLen || len(in.Steps) > maxTextLen {
		return nil, models.NewValidationError("Recipe content too long (max 20000 characters)")
	}

	tagIDs, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      in.UserID,
		Dish:        in.Dish,
		Description: in.Description,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		PrepTime:    in.PrepTime,
		Difficulty:  in.Difficulty,
		Cost:        in.Cost,
		Yield:       in.Yield,
		CookTime:    in.CookTime,
		ImagePath:   in.ImagePath,
	}
	if err := s.recipeRepo.Create(ctx, recipe, tagIDs); err != nil {
		return nil, err
	}

	return s.recipeRepo.GetByID(ctx, recipe.ID, in.UserID)
}

// ListFeed returns one page of the global feed plus whether a next page
// exists. It fetches one extra row past the page size to decide hasMore
// without a second count query.
func (s *RecipeService) ListFeed(ctx context.Context, page int, currentUserID uint) ([]*models.Recipe, bool, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * FeedPageSize

	recipes, err := s.recipeRepo.List(ctx, FeedPageSize+1, offset, currentUserID)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(recipes) > FeedPageSize
	if hasMore {
		recipes = recipes[:FeedPageSize]
	}
	return recipes, hasMore, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uint, currentUserID uint) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id, currentUserID)
}

func (s *RecipeService) GetUserRecipes(ctx context.Context, userID, currentUserID uint) ([]*models.Recipe, error) {
	return s.recipeRepo.GetByUserID(ctx, userID, currentUserID)
}

func (s *RecipeService) GetLikedRecipes(ctx context.Context, userID uint) ([]*models.Recipe, error) {
	return s.recipeRepo.GetLikedBy(ctx, userID)
}

func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]*models.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.recipeRepo.Search(ctx, query, maxSearchResults)
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, in.RecipeID, in.UserID)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own recipes")
	}

	if in.Dish != "" {
		recipe.Dish = in.Dish
	}
	if in.Description != "" {
		recipe.Description = in.Description
	}
	if in.Ingredients != "" {
		recipe.Ingredients = in.Ingredients
	}
	if in.Steps != "" {
		recipe.Steps = in.Steps
	}
	if in.PrepTime != "" {
		recipe.PrepTime = in.PrepTime
	}
	if in.Difficulty != "" {
		recipe.Difficulty = in.Difficulty
	}
	if in.Cost != "" {
		recipe.Cost = in.Cost
	}
	if in.Yield != "" {
		recipe.Yield = in.Yield
	}
	if in.CookTime != "" {
		recipe.CookTime = in.CookTime
	}

	staleImage := ""
	if in.ImagePath != "" && in.ImagePath != recipe.ImagePath {
		staleImage = recipe.ImagePath
		recipe.ImagePath = in.ImagePath
	}

	var tagIDs []uint
	if in.ReplaceTags {
		tagIDs, err = s.resolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.recipeRepo.Update(ctx, recipe, tagIDs, in.ReplaceTags); err != nil {
		return nil, err
	}

	// The old image is only queued once the row is committed.
	if staleImage != "" && s.cleaner != nil {
		s.cleaner.Enqueue(staleImage)
	}

	return s.recipeRepo.GetByID(ctx, recipe.ID, in.UserID)
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID, userID)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return models.NewForbiddenError("You can only delete your own recipes")
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return err
	}

	if recipe.ImagePath != "" && s.cleaner != nil {
		s.cleaner.Enqueue(recipe.ImagePath)
	}
	return nil
}

// ToggleLike flips the like state and reports the new state with the fresh
// total.
func (s *RecipeService) ToggleLike(ctx context.Context, userID, recipeID uint) (*LikeResult, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.recipeRepo.IsLiked(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		err = s.recipeRepo.Unlike(ctx, userID, recipeID)
	} else {
		err = s.recipeRepo.Like(ctx, userID, recipeID)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.recipeRepo.CountLikes(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: !isLiked, TotalLikes: total}, nil
}

// resolveTags checks every requested tag exists in the catalog and returns
// the deduplicated ID list.
func (s *RecipeService) resolveTags(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[uint]bool, len(ids))
	var unique []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	tags, err := s.tagRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, models.NewValidationError("One or more tags do not exist")
	}
	return unique, nil
}
