// internal/app/features/auth/signup.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	sysauth "github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup registers an account and starts a session.
// POST /api/auth/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "validation_failed", "Request body is not valid JSON.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.Email == "" {
		apierrors.Write(w, http.StatusBadRequest, "validation_failed", "Name and email are required.")
		return
	}
	if !strings.Contains(req.Email, "@") {
		apierrors.Write(w, http.StatusBadRequest, "validation_failed", "Email address is not valid.")
		return
	}
	if len(req.Password) < 8 {
		apierrors.Write(w, http.StatusBadRequest, "validation_failed", "Password must be at least 8 characters.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := userstore.New(h.DB)
	user, err := store.Create(ctx, models.User{
		FullName:     req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Avatar:       defaultAvatar(req.Name),
	})
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	if err := h.Sessions.SignIn(w, r, sysauth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "start session", err)
		return
	}

	h.Log.Info("user signed up", zap.String("user_id", user.ID.Hex()))
	writeJSON(w, http.StatusCreated, userPayload{
		ID:     user.ID.Hex(),
		Name:   user.FullName,
		Email:  user.Email,
		Avatar: user.Avatar,
	})
}

// defaultAvatar builds a generated-initials avatar URL for accounts
// that did not upload one.
func defaultAvatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}
