package session

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
)

// RepositoryAPI is the user lookup surface the service needs.
type RepositoryAPI interface {
	GetByEmail(email string) (*User, string, error)
	GetByID(id string) (*User, error)
	GetByRole(role accesscontrol.Role) (*User, error)
}

type Service struct {
	repo     RepositoryAPI
	tokens   TokenGenerator
	provider *Provider
	demoMode bool
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, provider *Provider, demoMode bool, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		provider: provider,
		demoMode: demoMode,
		logger:   logger,
	}
}

func (s *Service) Provider() *Provider {
	return s.provider
}

// Authenticate verifies credentials and replaces the current-user snapshot.
func (s *Service) Authenticate(dto LoginDTO) (Tokens, error) {
	if err := dto.Validate(); err != nil {
		return Tokens{}, err
	}

	user, passwordHash, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Email, "error", err)
		return Tokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(dto.Password)); err != nil {
		return Tokens{}, internal.ErrInvalidCredentials
	}

	if !user.IsActive {
		return Tokens{}, internal.ErrUserInactive
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return Tokens{}, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return Tokens{}, err
	}

	s.provider.SetUser(user)
	s.logger.Info("user authenticated", "user_id", user.ID, "role", user.Role)

	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshTokens exchanges a refresh token for a fresh pair.
func (s *Service) RefreshTokens(refreshToken string) (Tokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return Tokens{}, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return Tokens{}, err
	}
	newRefreshToken, err := s.tokens.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return Tokens{}, err
	}

	return Tokens{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// UserFromToken resolves a bearer token to the full user record.
func (s *Service) UserFromToken(tokenString string) (*User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, internal.ErrUserInactive
	}
	return user, nil
}

// SwitchRole replaces the current session with the seeded demo user for the
// requested role. This is the demo role-switcher made explicit: a single
// session replacement, never a hidden mutation of ambient state.
func (s *Service) SwitchRole(role accesscontrol.Role) (*User, error) {
	if !s.demoMode {
		return nil, internal.NewForbiddenError("role switching is only available in demo mode", internal.ErrCodeAccessRestricted)
	}
	if !role.IsValid() {
		return nil, internal.NewValidationError("unknown role", internal.ErrCodeUnknownRole)
	}

	user, err := s.repo.GetByRole(role)
	if err != nil {
		return nil, err
	}

	s.provider.SetUser(user)
	s.logger.Info("demo session switched", "role", role, "user_id", user.ID)
	return user, nil
}
