package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/middleware"
	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/internal/service"
	"github.com/capitalize-ai/telegram-storefront/internal/webapp"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// InitDataValidator verifies Mini App launch data.
type InitDataValidator interface {
	Validate(raw string) (*webapp.InitData, error)
}

// AuthHandler exchanges Mini App initData for a session token.
type AuthHandler struct {
	validator InitDataValidator
	users     *service.UserService
	jwtSecret string
	tokenTTL  time.Duration
	logger    *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(validator InitDataValidator, users *service.UserService, jwtSecret string, tokenTTL time.Duration, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		validator: validator,
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    log,
	}
}

// Telegram handles POST /api/auth/telegram
func (h *AuthHandler) Telegram(w http.ResponseWriter, r *http.Request) {
	var req model.TelegramAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.InitData) == "" {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	data, err := h.validator.Validate(req.InitData)
	if err != nil {
		h.logger.Info("rejected init data", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "invalid init data")
		return
	}

	user, err := h.users.Register(r.Context(), data.User)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgInternalError)
		return
	}

	token, expiresAt, err := middleware.IssueToken(h.jwtSecret, data.User, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, model.TelegramAuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}
