package auth

import (
	"errors"
	"log/slog"

	"github.com/symplora/leave-management/internal"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo   Repository
	tokens *TokenManager
	cfg    internal.SecurityConfig
	logger *slog.Logger
}

func NewService(repo Repository, tokens *TokenManager, cfg internal.SecurityConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	}
}

// Login verifies credentials and issues a token pair. Lookup misses and
// password mismatches return the same error so the response does not leak
// which emails exist.
func (s *Service) Login(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Warn("login failed: unknown email", "email", dto.Email)
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", "error", err)
		return nil, internal.NewTransientError("failed to verify credentials", err)
	}

	if !user.IsActive {
		return nil, internal.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: bad password", "user_id", user.ID)
		return nil, internal.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *Service) Refresh(dto RefreshDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ValidateToken(dto.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, internal.ErrInvalidToken
	}

	user, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, internal.ErrUserInactive
	}

	return s.issueTokens(user)
}

// HashPassword is used by the seeder and future user provisioning.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BCryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(user *User) (*LoginResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		s.logger.Error("failed to sign refresh token", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("tokens issued", "user_id", user.ID, "role", user.Role)

	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
