// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Browsing the catalog is public; everything else needs a session.
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// MY EVENTS (organizer view)
		pr.Get("/my-events", h.ServeMyEvents)

		// ATTENDEE DIRECTORY (registered before /{id} so "attendees"
		// is not captured as an event id)
		pr.Get("/attendees/list", h.ServeAttendeesList)

		// VIEW
		pr.Get("/{id}", h.ServeEvent)

		// UPDATE / DELETE (organizer-only, enforced by the store)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		// JOIN
		pr.Post("/{id}/join", h.HandleJoin)
	})

	return r
}
