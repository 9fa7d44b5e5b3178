package services

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"elecnet/internal/auth"
	"elecnet/internal/config"
	"elecnet/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func writeTestKeys(t *testing.T) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()

	privPath := filepath.Join(dir, "private.pem")
	privPem := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privPem, 0o600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPath := filepath.Join(dir, "public.pem")
	pubPem := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})
	require.NoError(t, os.WriteFile(pubPath, pubPem, 0o600))

	return privPath, pubPath
}

func newAuthService(t *testing.T, password string) (*AuthService, *auth.JWTManager) {
	t.Helper()

	privPath, pubPath := writeTestKeys(t)
	jwtMgr, err := auth.NewJWTManager(privPath, pubPath, "elecnet-test")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		AccessTokenTTL:    15 * time.Minute,
		RefreshTokenTTL:   24 * time.Hour,
	}
	logr := &logger.Logger{Logger: zap.NewNop()}

	return NewAuthService(jwtMgr, cfg, logr), jwtMgr
}

func TestLogin(t *testing.T) {
	svc, jwtMgr := newAuthService(t, "correct horse")

	pair, err := svc.Login("admin", "correct horse")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := jwtMgr.VerifyToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, string(auth.AccessToken), claims["typ"])
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newAuthService(t, "correct horse")

	_, err := svc.Login("admin", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("someone-else", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithoutConfiguredHash(t *testing.T) {
	svc, _ := newAuthService(t, "correct horse")
	svc.cfg.AdminPasswordHash = ""

	_, err := svc.Login("admin", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _ := newAuthService(t, "correct horse")

	pair, err := svc.Login("admin", "correct horse")
	require.NoError(t, err)

	renewed, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	// an access token is not a refresh token
	_, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
