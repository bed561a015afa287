package server

import (
	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/service"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	profile, err := s.userService.GetProfile(ctx, userIDParam, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetMe handles GET /api/users/me, returning the caller's own account record
// (the public profile projection is served by GET /api/users/:id).
func (s *Server) GetMe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetAccount(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string  `json:"username"`
		Bio      *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UploadAvatar handles POST /api/users/me/avatar (multipart form)
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	fh, err := c.FormFile("avatar")
	if err != nil || fh == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Avatar file is required"))
	}

	filename, err := storage.SaveImage(fh, s.config.AvatarDir)
	if err != nil {
		return respondServiceError(c, err)
	}
	avatarPath := "/api/users/avatars/" + filename

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID: userID,
		Avatar: avatarPath,
	})
	if err != nil {
		if s.cleaner != nil {
			s.cleaner.Enqueue(avatarPath)
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Avatar updated",
		"avatar":  user.Avatar,
	})
}

// DeleteAvatar handles DELETE /api/users/me/avatar
func (s *Server) DeleteAvatar(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	if err := s.userService.RemoveAvatar(ctx, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Avatar removed"})
}

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.Follow(ctx, userID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Now following user"})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.Unfollow(ctx, userID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed user"})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.userService.ListFollowers(ctx, userIDParam)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publicUsers(users))
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.userService.ListFollowing(ctx, userIDParam)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publicUsers(users))
}

// publicUsers strips a user list down to its public fields.
func publicUsers(users []*models.User) []fiber.Map {
	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"avatar":   u.Avatar,
		})
	}
	return out
}
