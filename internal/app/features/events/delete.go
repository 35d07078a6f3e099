// internal/app/features/events/delete.go
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

// HandleDelete hard-deletes an event. Organizer-only; the broadcast
// carries the deleted event's id, not a snapshot.
// DELETE /api/events/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Store.Delete(ctx, id, uid); err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	h.Log.Info("event deleted",
		zap.String("event_id", id.Hex()),
		zap.String("organizer_id", uid.Hex()))

	h.Hub.Publish(broadcast.KindDeleted, id.Hex())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}
