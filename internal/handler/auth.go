package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/mileapp-task-api/internal/middleware"
	"github.com/BuzzLyutic/mileapp-task-api/internal/service"
	"github.com/BuzzLyutic/mileapp-task-api/pkg/respond"
)

var (
	loginMessages    = messages{internal: "Server error during login"}
	registerMessages = messages{internal: "Server error during registration"}
	meMessages       = messages{notFound: "User not found", internal: "Server error"}
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err, loginMessages)
		return
	}
	respond.Success(w, r, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, h.logger, err, registerMessages)
		return
	}
	h.logger.Info("user registered", zap.Int64("user_id", res.User.ID))
	respond.Success(w, r, http.StatusCreated, "Registration successful", res)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "No token provided, authorization denied")
		return
	}

	user, err := h.service.Me(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err, meMessages)
		return
	}
	respond.Success(w, r, http.StatusOK, "User data retrieved", user)
}
