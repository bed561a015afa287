package server

import (
	"encoding/json"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/service"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/recipes?page=N
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	userID, _ := s.optionalUserID(c)

	recipes, hasMore, err := s.recipeService.ListFeed(ctx, page, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}

	return c.JSON(fiber.Map{
		"recipes": recipes,
		"page":    page,
		"hasMore": hasMore,
	})
}

// GetRecipe handles GET /api/recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	recipe, err := s.recipeService.GetRecipe(ctx, id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipe)
}

// SearchRecipes handles GET /api/recipes/search?q=...
func (s *Server) SearchRecipes(c *fiber.Ctx) error {
	ctx := c.Context()

	recipes, err := s.recipeService.SearchRecipes(ctx, c.Query("q"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	return c.JSON(recipes)
}

// GetUserRecipes handles GET /api/recipes/user/:id
func (s *Server) GetUserRecipes(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	recipes, err := s.recipeService.GetUserRecipes(ctx, userIDParam, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	return c.JSON(recipes)
}

// GetMyRecipes handles GET /api/recipes/my
func (s *Server) GetMyRecipes(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	recipes, err := s.recipeService.GetUserRecipes(ctx, userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	return c.JSON(recipes)
}

// GetLikedRecipes handles GET /api/recipes/liked
func (s *Server) GetLikedRecipes(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	recipes, err := s.recipeService.GetLikedRecipes(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	return c.JSON(recipes)
}

// CreateRecipe handles POST /api/recipes (multipart form with optional image)
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	tagIDs, ok := parseTagsField(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("tags must be a JSON array of tag IDs"))
	}

	imagePath := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		filename, err := storage.SaveImage(fh, s.config.UploadDir)
		if err != nil {
			return respondServiceError(c, err)
		}
		imagePath = "/uploads/" + filename
	}

	recipe, err := s.recipeService.CreateRecipe(ctx, service.CreateRecipeInput{
		UserID:      userID,
		Dish:        c.FormValue("dish"),
		Description: c.FormValue("description"),
		Ingredients: c.FormValue("ingredients"),
		Steps:       c.FormValue("steps"),
		PrepTime:    c.FormValue("prep_time"),
		Difficulty:  c.FormValue("difficulty"),
		Cost:        c.FormValue("cost"),
		Yield:       c.FormValue("yield"),
		CookTime:    c.FormValue("cook_time"),
		ImagePath:   imagePath,
		TagIDs:      tagIDs,
	})
	if err != nil {
		// The upload is already on disk; do not leave it orphaned.
		if imagePath != "" && s.cleaner != nil {
			s.cleaner.Enqueue(imagePath)
		}
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// UpdateRecipe handles PUT /api/recipes/:id (multipart form with optional image)
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	replaceTags := c.FormValue("tags") != ""
	tagIDs, ok := parseTagsField(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("tags must be a JSON array of tag IDs"))
	}

	imagePath := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		filename, err := storage.SaveImage(fh, s.config.UploadDir)
		if err != nil {
			return respondServiceError(c, err)
		}
		imagePath = "/uploads/" + filename
	}

	recipe, err := s.recipeService.UpdateRecipe(ctx, service.UpdateRecipeInput{
		UserID:      userID,
		RecipeID:    recipeID,
		Dish:        c.FormValue("dish"),
		Description: c.FormValue("description"),
		Ingredients: c.FormValue("ingredients"),
		Steps:       c.FormValue("steps"),
		PrepTime:    c.FormValue("prep_time"),
		Difficulty:  c.FormValue("difficulty"),
		Cost:        c.FormValue("cost"),
		Yield:       c.FormValue("yield"),
		CookTime:    c.FormValue("cook_time"),
		ImagePath:   imagePath,
		TagIDs:      tagIDs,
		ReplaceTags: replaceTags,
	})
	if err != nil {
		if imagePath != "" && s.cleaner != nil {
			s.cleaner.Enqueue(imagePath)
		}
		return respondServiceError(c, err)
	}

	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.recipeService.DeleteRecipe(ctx, userID, recipeID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Recipe deleted"})
}

// ToggleLike handles POST /api/recipes/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.recipeService.ToggleLike(ctx, userID, recipeID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// parseTagsField reads the "tags" form field as a JSON array of tag IDs.
// A missing or empty field is fine; malformed JSON is not.
func parseTagsField(c *fiber.Ctx) ([]uint, bool) {
	raw := c.FormValue("tags")
	if raw == "" {
		return nil, true
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false
	}
	return ids, true
}
