package events_test

import (
	"net/http"
	"testing"
	"time"

	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"github.com/dalemusser/gatherhub/internal/app/features/events"
	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"github.com/dalemusser/gatherhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, db *mongo.Database, hub *broadcast.Hub) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := events.NewHandler(db, eventstore.New(db), hub, apierrors.NewErrorLogger(logger), logger)
	return events.Routes(h, sm)
}

func draftBody() map[string]any {
	return map[string]any{
		"title":       "Go Meetup",
		"description": "Monthly Go meetup",
		"date":        time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		"time":        "18:30",
		"location":    "Community Hall",
		"category":    "Meetup",
		"capacity":    25,
	}
}

func TestHandleCreate_RequiresAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newTestRouter(t, db, broadcast.NewHub(zap.NewNop()))

	req := testutil.NewJSONRequest(http.MethodPost, "/", draftBody())
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertErrorCode(t, "unauthorized")
}

func TestHandleCreate_BroadcastsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hub := broadcast.NewHub(zap.NewNop())
	router := newTestRouter(t, db, hub)

	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	user := testutil.UserFor(organizer.ID, organizer.FullName, organizer.Email)

	subID, ch := hub.Subscribe()
	defer hub.Unsubscribe(subID)

	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/", draftBody()), user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusCreated)

	var view eventstore.View
	rec.DecodeJSON(t, &view)
	if view.Organizer.ID != organizer.ID.Hex() {
		t.Errorf("organizer: got %q, want %q", view.Organizer.ID, organizer.ID.Hex())
	}
	if view.Status != "upcoming" {
		t.Errorf("status: got %q", view.Status)
	}

	select {
	case env := <-ch:
		if env.Kind != broadcast.KindCreated {
			t.Errorf("broadcast kind: got %q, want %q", env.Kind, broadcast.KindCreated)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received for create")
	}
	select {
	case env := <-ch:
		t.Errorf("unexpected second broadcast: %+v", env)
	default:
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	router := newTestRouter(t, db, broadcast.NewHub(zap.NewNop()))
	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	user := testutil.UserFor(organizer.ID, organizer.FullName, organizer.Email)

	body := draftBody()
	body["capacity"] = 0

	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/", body), user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertErrorCode(t, "validation_failed")
}

func TestServeList_Public(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	router := newTestRouter(t, db, broadcast.NewHub(zap.NewNop()))
	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	fixtures.CreateEvent(ctx, "Open Event", organizer.ID, 10)

	// No session on the request; listing is public.
	req := testutil.NewRequest(http.MethodGet, "/")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var views []eventstore.View
	rec.DecodeJSON(t, &views)
	if len(views) != 1 || views[0].Title != "Open Event" {
		t.Errorf("unexpected listing: %+v", views)
	}
}

func TestServeEvent_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	router := newTestRouter(t, db, broadcast.NewHub(zap.NewNop()))
	viewer := fixtures.CreateUser(ctx, "Viewer", "viewer@example.com")
	user := testutil.UserFor(viewer.ID, viewer.FullName, viewer.Email)

	for _, target := range []string{"/" + primitive.NewObjectID().Hex(), "/not-a-hex-id"} {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, target, user)
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, req)

		rec.AssertStatus(t, http.StatusNotFound)
		rec.AssertErrorCode(t, "not_found")
	}
}

func TestHandleJoin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hub := broadcast.NewHub(zap.NewNop())
	router := newTestRouter(t, db, hub)

	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@example.com")
	ev := fixtures.CreateEvent(ctx, "Joinable", organizer.ID, 2)

	subID, ch := hub.Subscribe()
	defer hub.Unsubscribe(subID)

	user := testutil.UserFor(bob.ID, bob.FullName, bob.Email)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/"+ev.ID.Hex()+"/join", user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var view eventstore.View
	rec.DecodeJSON(t, &view)
	if len(view.Attendees) != 1 || view.Attendees[0].ID != bob.ID.Hex() {
		t.Errorf("roster after join: %+v", view.Attendees)
	}

	select {
	case env := <-ch:
		if env.Kind != broadcast.KindUpdated {
			t.Errorf("broadcast kind: got %q, want %q", env.Kind, broadcast.KindUpdated)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received for join")
	}
}

func TestHandleJoin_FullDoesNotBroadcast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hub := broadcast.NewHub(zap.NewNop())
	router := newTestRouter(t, db, hub)

	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	first := fixtures.CreateUser(ctx, "First", "first@example.com")
	late := fixtures.CreateUser(ctx, "Late", "late@example.com")
	ev := fixtures.CreateEvent(ctx, "Tiny", organizer.ID, 1)
	fixtures.AddAttendee(ctx, ev.ID, first.ID)

	subID, ch := hub.Subscribe()
	defer hub.Unsubscribe(subID)

	user := testutil.UserFor(late.ID, late.FullName, late.Email)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/"+ev.ID.Hex()+"/join", user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "event_full")

	select {
	case env := <-ch:
		t.Errorf("failed join must not broadcast, got %+v", env)
	default:
	}
}

func TestHandleJoin_OrganizerBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	router := newTestRouter(t, db, broadcast.NewHub(zap.NewNop()))

	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	ev := fixtures.CreateEvent(ctx, "Own Event", organizer.ID, 5)

	user := testutil.UserFor(organizer.ID, organizer.FullName, organizer.Email)
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/"+ev.ID.Hex()+"/join", user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertErrorCode(t, "organizer_cannot_join")
}

func TestHandleDelete_Forbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hub := broadcast.NewHub(zap.NewNop())
	router := newTestRouter(t, db, hub)

	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@example.com")
	ev := fixtures.CreateEvent(ctx, "Protected", organizer.ID, 10)

	subID, ch := hub.Subscribe()
	defer hub.Unsubscribe(subID)

	user := testutil.UserFor(bob.ID, bob.FullName, bob.Email)
	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/"+ev.ID.Hex(), user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertErrorCode(t, "forbidden")

	select {
	case env := <-ch:
		t.Errorf("forbidden delete must not broadcast, got %+v", env)
	default:
	}
}

func TestHandleDelete_BroadcastsID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hub := broadcast.NewHub(zap.NewNop())
	router := newTestRouter(t, db, hub)

	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	ev := fixtures.CreateEvent(ctx, "Doomed", organizer.ID, 10)

	subID, ch := hub.Subscribe()
	defer hub.Unsubscribe(subID)

	user := testutil.UserFor(organizer.ID, organizer.FullName, organizer.Email)
	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/"+ev.ID.Hex(), user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	select {
	case env := <-ch:
		if env.Kind != broadcast.KindDeleted {
			t.Errorf("broadcast kind: got %q, want %q", env.Kind, broadcast.KindDeleted)
		}
		if id, _ := env.Payload.(string); id != ev.ID.Hex() {
			t.Errorf("broadcast payload: got %v, want %q", env.Payload, ev.ID.Hex())
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received for delete")
	}
}

func TestServeMyEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	router := newTestRouter(t, db, broadcast.NewHub(zap.NewNop()))

	ann := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@example.com")
	fixtures.CreateEvent(ctx, "Ann's Event", ann.ID, 10)
	fixtures.CreateEvent(ctx, "Bob's Event", bob.ID, 10)

	user := testutil.UserFor(ann.ID, ann.FullName, ann.Email)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/my-events", user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var views []eventstore.View
	rec.DecodeJSON(t, &views)
	if len(views) != 1 || views[0].Title != "Ann's Event" {
		t.Errorf("unexpected my-events listing: %+v", views)
	}
}

func TestServeAttendeesList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	router := newTestRouter(t, db, broadcast.NewHub(zap.NewNop()))

	organizer := fixtures.CreateUser(ctx, "Ann", "ann@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@example.com")
	ev := fixtures.CreateEvent(ctx, "Directory Event", organizer.ID, 10)
	fixtures.AddAttendee(ctx, ev.ID, bob.ID)

	user := testutil.UserFor(organizer.ID, organizer.FullName, organizer.Email)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/attendees/list", user)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var entries []struct {
		Name         string `json:"name"`
		EventsJoined int    `json:"eventsJoined"`
	}
	rec.DecodeJSON(t, &entries)
	if len(entries) != 1 || entries[0].Name != "Bob" || entries[0].EventsJoined != 1 {
		t.Errorf("unexpected directory: %+v", entries)
	}
}
