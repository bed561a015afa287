package server

import (
	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/service"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RateRecipe handles POST /api/recipes/:id/avaliar. Submitting again updates
// the caller's existing rating.
func (s *Server) RateRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Score   int    `json:"score" validate:"required,gte=1,lte=5"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	rating, err := s.ratingService.RateRecipe(ctx, service.RateRecipeInput{
		UserID:   userID,
		RecipeID: recipeID,
		Score:    req.Score,
		Comment:  req.Comment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rating)
}

// GetRatings handles GET /api/recipes/:id/avaliacoes
func (s *Server) GetRatings(c *fiber.Ctx) error {
	ctx := c.Context()
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	list, err := s.ratingService.ListRatings(ctx, recipeID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(list)
}

// DeleteRating handles DELETE /api/ratings/:id
func (s *Server) DeleteRating(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ratingService.DeleteRating(ctx, userID, ratingID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Rating deleted"})
}

// ReactToRating handles POST /api/ratings/:id/react
func (s *Server) ReactToRating(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Kind string `json:"kind" validate:"required,oneof=like dislike"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	result, err := s.ratingService.ToggleReaction(ctx, userID, ratingID, req.Kind)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// ReplyToRating handles POST /api/ratings/:id/responder
func (s *Server) ReplyToRating(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	reply, err := s.ratingService.CreateReply(ctx, userID, ratingID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Reply created",
		"newReply": reply,
	})
}

// DeleteReply handles DELETE /api/replies/:id
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ratingService.DeleteReply(ctx, userID, replyID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reply deleted"})
}
