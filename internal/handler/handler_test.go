package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhasan/nutriai/internal/auth"
	"github.com/nhasan/nutriai/internal/handler"
	"github.com/nhasan/nutriai/internal/service"
	"github.com/nhasan/nutriai/internal/store"
)

// env is everything a handler test needs: handlers wired over a real
// store (memory slot) with real services, the way the server assembles
// them. Only the analyzer is mocked — see analyze_test.go.
type env struct {
	store   *store.Store
	authSvc *service.AuthService
	tracker *service.TrackerService
	auth    *handler.AuthHandler
	meals   *handler.MealHandler
	goals   *handler.GoalHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	st := store.New(store.NewMemorySlot())
	require.NoError(t, st.Load(context.Background()))

	tokens, err := auth.NewTokenService("test-secret-at-least-16ch")
	require.NoError(t, err)

	authSvc := service.NewAuthService(st, auth.NewPasswordServiceForTest(4), logger)
	tracker := service.NewTrackerService(st, logger).WithClock(func() time.Time {
		return time.Date(2026, 8, 31, 15, 0, 0, 0, time.Local)
	})

	return &env{
		store:   st,
		authSvc: authSvc,
		tracker: tracker,
		auth:    handler.NewAuthHandler(authSvc, tokens, logger),
		meals:   handler.NewMealHandler(tracker, logger),
		goals:   handler.NewGoalHandler(tracker, logger),
	}
}

// signIn registers and logs in a user so the store has an active session.
func (e *env) signIn(t *testing.T) {
	t.Helper()
	e.registerOnly(t, "ada@x.com", "secret")
	e.signInAs(t, "ada@x.com", "secret")
}

// registerOnly creates an account without starting a session.
func (e *env) registerOnly(t *testing.T, email, password string) {
	t.Helper()
	if _, err := e.authSvc.Register(context.Background(), "Ada", email, password, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

// signInAs activates a session for an existing account.
func (e *env) signInAs(t *testing.T, email, password string) {
	t.Helper()
	if _, err := e.authSvc.Login(context.Background(), email, password); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

// postGet runs a bodyless GET against a single handler func.
func postGet(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// postJSON builds a recorder pair for a JSON POST/PUT body.
func postJSON(method, target, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

// decode unmarshals a recorder body into out.
func decode(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(out))
}
