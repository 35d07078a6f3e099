// internal/app/features/stream/routes.go
package stream

import (
	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Browsers send the session cookie on the upgrade request, so the
	// normal middleware applies.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeWS)
	})

	return r
}
