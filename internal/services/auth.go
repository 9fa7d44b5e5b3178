package services

import (
	"errors"

	"elecnet/internal/auth"
	"elecnet/internal/config"
	"elecnet/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single env-configured admin account
// that guards the endpoint registration surface.
type AuthService struct {
	jwtMgr *auth.JWTManager
	cfg    *config.Config
	logr   *logger.Logger
}

func NewAuthService(jwtMgr *auth.JWTManager, cfg *config.Config, logr *logger.Logger) *AuthService {
	return &AuthService{jwtMgr: jwtMgr, cfg: cfg, logr: logr}
}

// Login validates the admin credentials against the bcrypt hash from
// config and issues a token pair.
func (s *AuthService) Login(username, password string) (*auth.TokenPair, error) {
	if s.cfg.AdminPasswordHash == "" {
		s.logr.Warn("admin login attempted but ADMIN_PASSWORD_HASH is not set")
		return nil, ErrInvalidCredentials
	}
	if username != s.cfg.AdminUsername {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtMgr.GenerateTokenPair(username, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
	if err != nil {
		s.logr.Error("failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtMgr.VerifyToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if typ, _ := claims["typ"].(string); typ != string(auth.RefreshToken) {
		return nil, ErrInvalidCredentials
	}

	subject, _ := claims["sub"].(string)
	if subject != s.cfg.AdminUsername {
		return nil, ErrInvalidCredentials
	}

	return s.jwtMgr.GenerateTokenPair(subject, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
}
