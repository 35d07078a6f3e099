// internal/app/features/events/edit.go
package events

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUpdate replaces an event's draft fields. Organizer-only; a
// successful update broadcasts the post-mutation snapshot.
// PUT /api/events/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var draft eventstore.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "validation_failed", "Request body is not valid JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Store.Update(ctx, id, draft, uid)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	h.Log.Info("event updated",
		zap.String("event_id", view.ID),
		zap.String("organizer_id", uid.Hex()))

	h.Hub.Publish(broadcast.KindUpdated, view)
	writeJSON(w, http.StatusOK, view)
}
