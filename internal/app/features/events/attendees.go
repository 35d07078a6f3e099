// internal/app/features/events/attendees.go
package events

import (
	"context"
	"net/http"

	"github.com/dalemusser/gatherhub/internal/app/store/queries/attendeequeries"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
)

// ServeAttendeesList returns the cross-event attendee directory: one
// entry per distinct attendee with their eventsJoined count.
// GET /api/events/attendees/list
func (h *Handler) ServeAttendeesList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, err := attendeequeries.List(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendee directory scan", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
