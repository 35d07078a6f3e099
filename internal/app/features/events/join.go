// internal/app/features/events/join.go
package events

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleJoin appends the requester to the event roster. The store's
// conditional update enforces capacity, uniqueness, and the
// organizer-never-attends invariant in one atomic write; a failed join
// mutates nothing and broadcasts nothing.
// POST /api/events/{id}/join
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusNotFound, "not_found", "Event not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Store.Join(ctx, id, uid)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	h.Log.Info("event joined",
		zap.String("event_id", view.ID),
		zap.String("user_id", uid.Hex()),
		zap.Int("attendees", len(view.Attendees)),
		zap.Int("capacity", view.Capacity))

	h.Hub.Publish(broadcast.KindUpdated, view)
	writeJSON(w, http.StatusOK, view)
}
