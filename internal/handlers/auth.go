package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"elecnet/internal/services"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service *services.AuthService
	logr    *zap.Logger
}

func NewAuthHandler(svc *services.AuthService, logr *zap.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logr: logr}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles POST {prefix}/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	pair, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logr.Warn("admin login rejected", zap.String("username", req.Username))
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   "invalid credentials",
			})
			return
		}
		h.logr.Error("login failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "login failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"access_exp":    pair.AccessExp,
		"refresh_exp":   pair.RefreshExp,
	})
}

// Refresh handles POST {prefix}/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	pair, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "invalid refresh token",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"access_exp":    pair.AccessExp,
		"refresh_exp":   pair.RefreshExp,
	})
}
