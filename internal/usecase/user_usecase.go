package usecase

import (
	"context"
	"io"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	assets   service.AssetStore
}

func NewUserUseCase(userRepo repository.UserRepository, assets service.AssetStore) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		assets:   assets,
	}
}

func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

type UpdateUserInput struct {
	Name  string
	Email string
	Role  string
	Bio   string
}

func (uc *UserUseCase) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the user and cleans up their avatar asset. A failed
// asset delete is logged and tolerated.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Avatar.ID != "" {
		if err := uc.assets.Delete(ctx, user.Avatar.ID); err != nil {
			logger.Warn("Failed to delete avatar %s for user %s: %v", user.Avatar.ID, id, err)
		}
	}

	return uc.userRepo.Delete(ctx, id)
}

// UpdateAvatar replaces the user's avatar, deleting the previously stored
// asset first.
func (uc *UserUseCase) UpdateAvatar(ctx context.Context, userID string, file io.Reader, contentType string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Avatar.ID != "" {
		if err := uc.assets.Delete(ctx, user.Avatar.ID); err != nil {
			logger.Warn("Failed to delete avatar %s for user %s: %v", user.Avatar.ID, userID, err)
		}
	}

	asset, err := uc.assets.Upload(ctx, file, contentType, "avatars")
	if err != nil {
		return nil, err
	}

	user.Avatar = entity.Avatar{ID: asset.ID, URL: asset.URL}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
