package api

import (
	apperrors "agenda/internal/errors"
	"agenda/internal/logger"
	"agenda/internal/service"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
	logger  *zap.Logger
}

func NewAdminAuthHandler(svc service.AdminAuthService, log *zap.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc, logger: logger.OrNop(log)}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, apperrors.ErrBadRequest("Invalid request body"))
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, apperrors.ErrUnauthorized("Invalid credentials"))
		return
	}
	if err != nil {
		h.logger.Error("admin login", zap.Error(err))
		writeError(w, apperrors.ErrInternal("Could not log in"))
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *AdminAuthHandler) CreateUserAdmin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, apperrors.ErrBadRequest("Invalid request body"))
		return
	}

	if err := h.service.CreateAdmin(r.Context(), req.Email, req.Password); err != nil {
		h.logger.Warn("creating admin", zap.String("email", req.Email), zap.Error(err))
		writeError(w, apperrors.ErrBadRequest(err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Admin registered successfully"})
}
