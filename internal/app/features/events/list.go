// internal/app/features/events/list.go
package events

import (
	"context"
	"net/http"

	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
)

// ServeList returns every event, sorted by scheduled date ascending,
// with organizer/attendee projections and derived status.
// GET /api/events
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := h.Store.List(ctx, eventstore.Filter{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ServeMyEvents returns the events organized by the requester.
// GET /api/events/my-events
func (h *Handler) ServeMyEvents(w http.ResponseWriter, r *http.Request) {
	uid, ok := requesterID(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := h.Store.List(ctx, eventstore.Filter{OrganizerID: &uid})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list my events", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
