// internal/app/features/events/view.go
package events

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeEvent returns one event's projection.
// GET /api/events/{id}
func (h *Handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusNotFound, "not_found", "Event not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
