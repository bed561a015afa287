package service

import (
	"context"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/repository"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/storage"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	recipeRepo repository.RecipeRepository
	cleaner    *storage.Cleaner
}

type UpdateProfileInput struct {
	UserID   uint
	Username string
	Bio      *string
	Avatar   string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	recipeRepo repository.RecipeRepository,
	cleaner *storage.Cleaner,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		recipeRepo: recipeRepo,
		cleaner:    cleaner,
	}
}

// GetAccount returns the caller's own full account record, email included.
func (s *UserService) GetAccount(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", userID)
	}
	return user, nil
}

// GetProfile builds the public projection of a user with follow counts and,
// when the caller is logged in, whether they follow this profile.
func (s *UserService) GetProfile(ctx context.Context, userID, currentUserID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", userID)
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		Avatar:    user.Avatar,
		Followers: followers,
		Following: following,
	}

	if currentUserID != 0 && currentUserID != userID {
		isFollowing, err := s.followRepo.IsFollowing(ctx, currentUserID, userID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = isFollowing
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", in.UserID)
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, err
		}
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError("Username already taken")
		}
		user.Username = in.Username
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}

	staleAvatar := ""
	if in.Avatar != "" && in.Avatar != user.Avatar {
		staleAvatar = user.Avatar
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if staleAvatar != "" && s.cleaner != nil {
		s.cleaner.Enqueue(staleAvatar)
	}
	return user, nil
}

// RemoveAvatar clears the avatar and queues the old file for removal.
func (s *UserService) RemoveAvatar(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", userID)
	}
	if user.Avatar == "" {
		return nil
	}

	stale := user.Avatar
	user.Avatar = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if s.cleaner != nil {
		s.cleaner.Enqueue(stale)
	}
	return nil
}

// Follow makes the caller follow another user. Following yourself is
// rejected; following twice is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("You cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, followedID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotFoundError("User", followedID)
	}

	return s.followRepo.Follow(ctx, followerID, followedID)
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	target, err := s.userRepo.GetByID(ctx, followedID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotFoundError("User", followedID)
	}
	return s.followRepo.Unfollow(ctx, followerID, followedID)
}

func (s *UserService) ListFollowers(ctx context.Context, userID uint) ([]*models.User, error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *UserService) ListFollowing(ctx context.Context, userID uint) ([]*models.User, error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID)
}

// DeleteAccount verifies the password and then removes the account with all
// authored content. Uploaded files go to the cleanup queue afterwards.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", userID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.NewUnauthorizedError("Incorrect password")
	}

	recipes, err := s.recipeRepo.GetByUserID(ctx, userID, 0)
	if err != nil {
		return err
	}

	if err := s.userRepo.HardDelete(ctx, userID); err != nil {
		return err
	}

	if s.cleaner != nil {
		if user.Avatar != "" {
			s.cleaner.Enqueue(user.Avatar)
		}
		for _, r := range recipes {
			if r.ImagePath != "" {
				s.cleaner.Enqueue(r.ImagePath)
			}
		}
	}
	return nil
}

func (s *UserService) mustExist(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}
