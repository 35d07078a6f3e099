// internal/app/features/events/create.go
package events

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate creates an event with the requester as organizer and
// broadcasts the new snapshot.
// POST /api/events
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var draft eventstore.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "validation_failed", "Request body is not valid JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Store.Create(ctx, draft, uid)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", view.ID),
		zap.String("organizer_id", uid.Hex()),
		zap.String("category", view.Category))

	h.Hub.Publish(broadcast.KindCreated, view)
	writeJSON(w, http.StatusCreated, view)
}
