package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
)

type UpdateProfileInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Gender    *string `json:"gender,omitempty"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, currentUserID, userID int, input UpdateProfileInput) (*models.User, error)
	// SetHandicapIndex stores the player's self-reported index, the last
	// fallback when neither a custom handicap nor a federation record exists.
	SetHandicapIndex(ctx context.Context, currentUserID, userID int, index *float64) error
	Delete(ctx context.Context, currentUserID, userID int) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) authorize(ctx context.Context, currentUserID, userID int) (*models.User, error) {
	if currentUserID != userID {
		actor, err := s.userRepo.GetByID(ctx, currentUserID)
		if err != nil {
			return nil, err
		}
		if actor.Role != models.RoleAdmin {
			return nil, ErrForbiddenOperation
		}
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, currentUserID, userID int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.authorize(ctx, currentUserID, userID)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", ErrValidationFailed)
		}
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		if *input.LastName == "" {
			return nil, fmt.Errorf("%w: last name cannot be empty", ErrValidationFailed)
		}
		user.LastName = *input.LastName
	}
	if input.Gender != nil {
		user.Gender = input.Gender
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) SetHandicapIndex(ctx context.Context, currentUserID, userID int, index *float64) error {
	if _, err := s.authorize(ctx, currentUserID, userID); err != nil {
		return err
	}
	if index != nil {
		if err := models.ValidateCustomHandicap(*index); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
	}
	return s.userRepo.UpdateHandicapIndex(ctx, userID, index)
}

func (s *userService) Delete(ctx context.Context, currentUserID, userID int) error {
	if _, err := s.authorize(ctx, currentUserID, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
