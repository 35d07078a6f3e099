// internal/app/features/auth/login.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	sysauth "github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and starts a session. Lookup misses
// and password mismatches share one response so the endpoint does not
// reveal which emails exist.
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "validation_failed", "Request body is not valid JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := userstore.New(h.DB)
	user, err := store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierrors.Write(w, http.StatusUnauthorized, "bad_credentials", "Email or password is incorrect.")
			return
		}
		h.ErrLog.LogServerError(w, r, "login lookup", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		apierrors.Write(w, http.StatusUnauthorized, "bad_credentials", "Email or password is incorrect.")
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

	h.Log.Info("user signed in", zap.String("user_id", user.ID.Hex()))
	writeJSON(w, http.StatusOK, userPayload{
		ID:     user.ID.Hex(),
		Name:   user.FullName,
		Email:  user.Email,
		Avatar: user.Avatar,
	})
}
