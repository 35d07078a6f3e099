// internal/app/features/errors/errors.go
//
// Package errors maps store errors to the stable JSON error envelope
// the API speaks. Every error kind keeps a distinct code so clients can
// tell "you can't do this" from "this no longer exists" from a business
// rule. Unexpected failures become an opaque internal_error; the detail
// is logged, never leaked.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	"go.uber.org/zap"
)

// Envelope is the wire shape of every error response.
type Envelope struct {
	Error Detail `json:"error"`
}

// Detail carries the stable code and a human-readable message.
type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write sends one error envelope.
func Write(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: Detail{Code: code, Message: message}})
}

// ErrorLogger writes error responses and logs server-side failures.
// Handlers share one instance, created in bootstrap.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// WriteError maps a store error to its envelope. Unknown errors are
// logged with request context and reported as internal_error.
func (e *ErrorLogger) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *eventstore.ValidationError

	switch {
	case errors.As(err, &verr):
		Write(w, http.StatusBadRequest, "validation_failed", verr.Error())
	case errors.Is(err, eventstore.ErrNotFound):
		Write(w, http.StatusNotFound, "not_found", "Event not found.")
	case errors.Is(err, eventstore.ErrNotOrganizer):
		Write(w, http.StatusForbidden, "forbidden", "Only the organizer may modify this event.")
	case errors.Is(err, eventstore.ErrAlreadyJoined):
		Write(w, http.StatusConflict, "already_joined", "You have already joined this event.")
	case errors.Is(err, eventstore.ErrEventFull):
		Write(w, http.StatusConflict, "event_full", "Event is at full capacity.")
	case errors.Is(err, eventstore.ErrOrganizerJoin):
		Write(w, http.StatusBadRequest, "organizer_cannot_join", "Organizers cannot join their own event.")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		Write(w, http.StatusConflict, "email_taken", "A user with this email already exists.")
	case errors.Is(err, userstore.ErrNotFound):
		Write(w, http.StatusNotFound, "not_found", "User not found.")
	default:
		e.LogServerError(w, r, "unhandled store error", err)
	}
}

// LogServerError logs err with request context and responds with the
// opaque internal_error envelope.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	Write(w, http.StatusInternalServerError, "internal_error", "Something went wrong.")
}
