package auth_test

import (
	"net/http"
	"testing"

	authfeature "github.com/dalemusser/gatherhub/internal/app/features/auth"
	apierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/gatherhub/internal/app/system/indexes"
	"github.com/dalemusser/gatherhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, db *mongo.Database) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := authfeature.NewHandler(db, sm, apierrors.NewErrorLogger(logger), logger)
	return authfeature.Routes(h)
}

func TestHandleSignup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newTestRouter(t, db)

	body := map[string]string{
		"name":     "Ann Example",
		"email":    "ann@example.com",
		"password": "hunter2hunter2",
	}
	req := testutil.NewJSONRequest(http.MethodPost, "/signup", body)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusCreated)

	var payload struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	}
	rec.DecodeJSON(t, &payload)
	if payload.ID == "" {
		t.Error("expected id in response")
	}
	if payload.Name != "Ann Example" {
		t.Errorf("name: got %q", payload.Name)
	}
	if payload.Avatar == "" {
		t.Error("expected a generated avatar URL")
	}

	// Signup starts a session.
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on signup")
	}
}

func TestHandleSignup_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newTestRouter(t, db)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "x@example.com", "password": "hunter2hunter2"}},
		{"missing email", map[string]string{"name": "X", "password": "hunter2hunter2"}},
		{"bad email", map[string]string{"name": "X", "email": "not-an-email", "password": "hunter2hunter2"}},
		{"short password", map[string]string{"name": "X", "email": "x@example.com", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(http.MethodPost, "/signup", tc.body)
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, req)

			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertErrorCode(t, "validation_failed")
		})
	}
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newTestRouter(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	body := map[string]string{
		"name":     "Ann Example",
		"email":    "ann@example.com",
		"password": "hunter2hunter2",
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/signup", body))
	rec.AssertStatus(t, http.StatusCreated)

	// Same address with different case is still a duplicate.
	body["email"] = "ANN@example.com"
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/signup", body))

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "email_taken")
}

func TestHandleLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newTestRouter(t, db)

	signup := map[string]string{
		"name":     "Bob Example",
		"email":    "bob@example.com",
		"password": "hunter2hunter2",
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/signup", signup))
	rec.AssertStatus(t, http.StatusCreated)

	login := map[string]string{"email": "bob@example.com", "password": "hunter2hunter2"}
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/login", login))
	rec.AssertStatus(t, http.StatusOK)
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on login")
	}
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newTestRouter(t, db)

	signup := map[string]string{
		"name":     "Bob Example",
		"email":    "bob@example.com",
		"password": "hunter2hunter2",
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/signup", signup))
	rec.AssertStatus(t, http.StatusCreated)

	// Wrong password and unknown email produce the same response.
	for _, login := range []map[string]string{
		{"email": "bob@example.com", "password": "wrong-password"},
		{"email": "ghost@example.com", "password": "hunter2hunter2"},
	} {
		rec = testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/login", login))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertErrorCode(t, "bad_credentials")
	}
}

func TestServeMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newTestRouter(t, db)

	// Without a session: 401.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/me"))
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertErrorCode(t, "unauthorized")

	// With an injected user: the session payload comes back.
	user := testutil.SignedInUser()
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/me", user))
	rec.AssertStatus(t, http.StatusOK)

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	rec.DecodeJSON(t, &payload)
	if payload.ID != user.ID || payload.Email != user.Email {
		t.Errorf("unexpected payload: %+v", payload)
	}
}
