package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/drivault/internal/common"
	"github.com/dmitrijs2005/drivault/internal/server/users"
)

type registerRequest struct {
	FullName        string `json:"fullname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		h.writeError(w, r, http.StatusUnprocessableEntity, "validation error")
		return
	}
	if req.Password != req.ConfirmPassword {
		h.writeError(w, r, http.StatusUnprocessableEntity, "passwords do not match")
		return
	}

	user, err := h.users.Register(r.Context(), req.FullName, strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			h.writeError(w, r, http.StatusBadRequest, "user with this email already exists")
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string    `json:"token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token"`
	User         loginUser `json:"user"`
}

type loginUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tokens, err := h.users.Login(r.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:        tokens.AccessToken,
		TokenType:    "bearer",
		RefreshToken: tokens.RefreshToken,
		User:         loginUser{ID: user.ID, Email: user.Email, Role: string(user.Role)},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tokens, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.writeError(w, r, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:        tokens.AccessToken,
		TokenType:    "bearer",
		RefreshToken: tokens.RefreshToken,
		User:         loginUser{ID: user.ID, Email: user.Email, Role: string(user.Role)},
	})
}

// logout revokes the refresh token when one is supplied; the body is
// optional so stateless clients can still call the endpoint.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {

	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.users.Logout(r.Context(), req.RefreshToken); err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "You are successfully logged out.",
		"status":  http.StatusOK,
	})
}
