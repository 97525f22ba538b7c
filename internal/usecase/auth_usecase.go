package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

const resetTokenTTL = 10 * time.Minute

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenManager
	mailer   service.Mailer
	baseURL  string
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenManager, mailer service.Mailer, baseURL string) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, errors.Conflict("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	role := input.Role
	if role == "" {
		role = "buyer"
	}

	now := time.Now()
	user := &entity.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("Invalid email or password", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid email or password", err)
	}

	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name     string
	Email    string
	Bio      string
	Password string
}

// UpdateProfile applies the provided non-empty fields and returns the updated
// user with a fresh token.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*AuthResult, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Internal("Failed to hash password", err)
		}
		user.Password = string(hashed)
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ForgotPassword generates a single-use reset token, stores its hash with an
// expiry, and mails the raw token. A dispatch failure clears the pending
// token so the stored hash can never outlive a mail the user never got.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return errors.Internal("Failed to generate reset token", err)
	}
	rawToken := hex.EncodeToString(raw)

	hash := sha256.Sum256([]byte(rawToken))
	expire := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hex.EncodeToString(hash[:])
	user.ResetPasswordExpire = &expire

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/auth/resetpassword/%s", uc.baseURL, rawToken)
	body := fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:\n\n%s", resetURL)

	if err := uc.mailer.Send(ctx, user.Email, "Password reset token", body); err != nil {
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if updateErr := uc.userRepo.Update(ctx, user); updateErr != nil {
			logger.Error("Failed to clear reset token for %s: %v", user.ID, updateErr)
		}
		return err
	}

	return nil
}

// ResetPassword consumes a reset token. The presented raw token is hashed and
// matched against the stored hash; a match past its expiry or a second use of
// the same token both fail.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, rawToken, newPassword string) (*AuthResult, error) {
	hash := sha256.Sum256([]byte(rawToken))

	user, err := uc.userRepo.GetByResetTokenHash(ctx, hex.EncodeToString(hash[:]))
	if err != nil {
		return nil, errors.InvalidToken("Invalid or expired reset token", err)
	}

	if user.ResetPasswordExpire == nil || time.Now().After(*user.ResetPasswordExpire) {
		return nil, errors.InvalidToken("Invalid or expired reset token", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	user.Password = string(hashed)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
