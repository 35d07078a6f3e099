// internal/app/features/auth/handler.go
package auth

import (
	"net/http"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	sysauth "github.com/dalemusser/gatherhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns signup/login/logout/me. This is the thin identity layer
// in front of the core: its only job is to hand downstream handlers an
// authenticated requester id via the session.
type Handler struct {
	DB       *mongo.Database
	Sessions *sysauth.SessionManager
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, sm *sysauth.SessionManager, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Sessions: sm,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// userPayload is the account shape returned to clients.
type userPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// ServeMe returns the signed-in user, or 401.
// GET /api/auth/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := sysauth.CurrentUser(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "Sign in required.")
		return
	}
	writeJSON(w, http.StatusOK, userPayload{ID: u.ID, Name: u.Name, Email: u.Email})
}

// HandleLogout clears the session.
// POST /api/auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "sign out", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}
