package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hackdesk/hackdesk-api/internal/auth"
	"github.com/hackdesk/hackdesk-api/internal/config"
	"github.com/hackdesk/hackdesk-api/internal/dto"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/repository"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// Auth errors surfaced to handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration and credential exchange.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID uint) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	cfg       config.Config
	logger    zerolog.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, cfg config.Config, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if exists {
		return dto.AuthResponse{}, ErrEmailTaken
	}

	// Unknown role strings (including legacy variants) collapse to canonical
	// values here; the raw string never reaches storage.
	role := workflow.RoleStudent
	if parsed, ok := workflow.ParseRole(payload.Role); ok {
		role = parsed
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Email:        email,
		Firstname:    strings.TrimSpace(payload.Firstname),
		Lastname:     strings.TrimSpace(payload.Lastname),
		Phone:        strings.TrimSpace(payload.Phone),
		Role:         role.String(),
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if !auth.VerifyPassword(payload.Password, user.PasswordHash) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) CurrentUser(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) issue(user models.User) (dto.AuthResponse, error) {
	token, err := auth.IssueToken(user.ID, user.Email, user.CanonicalRole().String(), s.cfg.JWTSecret, s.cfg.JWTTTL)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}
