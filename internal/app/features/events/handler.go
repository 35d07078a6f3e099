// internal/app/features/events/handler.go
package events

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the events feature.
// Every write path publishes through Hub after its store call commits;
// read paths never touch the hub.
type Handler struct {
	DB     *mongo.Database
	Store  *eventstore.Store
	Hub    *broadcast.Hub
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the events Handler. Called from bootstrap's
// BuildHandler, where DB, hub, and logger are already initialized.
func NewHandler(db *mongo.Database, store *eventstore.Store, hub *broadcast.Hub, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Store:  store,
		Hub:    hub,
		ErrLog: errLog,
		Log:    logger,
	}
}

// requesterID extracts the signed-in user's id. Routes behind
// RequireSignedIn always have one; a malformed id means a stale session.
func requesterID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeUnauthorized(w http.ResponseWriter) {
	apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "Sign in required.")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
