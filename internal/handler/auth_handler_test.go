package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhasan/nutriai/internal/auth"
	"github.com/nhasan/nutriai/internal/handler"
	"github.com/nhasan/nutriai/internal/model"
)

func TestAuthHandler_HandleRegister(t *testing.T) {
	t.Run("valid registration", func(t *testing.T) {
		e := newEnv(t)

		rr, req := postJSON(http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"ada@x.com","password":"secret"}`)
		e.auth.HandleRegister(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var user model.UserInfo
		decode(t, rr, &user)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "ada@x.com", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotContains(t, rr.Body.String(), "password", "response must not leak credentials")
	})

	t.Run("goal overrides at signup", func(t *testing.T) {
		e := newEnv(t)

		rr, req := postJSON(http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"ada@x.com","password":"secret","goals":{"calories":1800}}`)
		e.auth.HandleRegister(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)

		e.signInAs(t, "ada@x.com", "secret")
		goals := e.tracker.Goals()
		assert.EqualValues(t, 1800, goals.Calories)
		assert.EqualValues(t, 150, goals.Protein, "unpatched fields keep their defaults")
	})

	t.Run("duplicate email", func(t *testing.T) {
		e := newEnv(t)

		rr, req := postJSON(http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"ada@x.com","password":"secret"}`)
		e.auth.HandleRegister(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)

		rr, req = postJSON(http.MethodPost, "/api/auth/register",
			`{"name":"Imposter","email":"ada@x.com","password":"other"}`)
		e.auth.HandleRegister(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)

		var errRes handler.ErrorResponse
		decode(t, rr, &errRes)
		assert.Equal(t, "duplicate_email", errRes.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		e := newEnv(t)

		for _, body := range []string{
			`{"email":"a@x.com","password":"pw"}`,
			`{"name":"Ada","password":"pw"}`,
			`{"name":"Ada","email":"a@x.com"}`,
			`{broken`,
		} {
			rr, req := postJSON(http.MethodPost, "/api/auth/register", body)
			e.auth.HandleRegister(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		}
	})
}

func TestAuthHandler_HandleLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		e := newEnv(t)
		e.registerOnly(t, "ada@x.com", "secret")

		rr, req := postJSON(http.MethodPost, "/api/auth/login",
			`{"email":"ada@x.com","password":"secret"}`)
		e.auth.HandleLogin(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			User  model.UserInfo `json:"user"`
			Token string         `json:"token"`
		}
		decode(t, rr, &res)
		assert.Equal(t, "ada@x.com", res.User.Email)
		assert.NotEmpty(t, res.Token)

		var sessionCookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == auth.TokenCookie {
				sessionCookie = c
			}
		}
		if assert.NotNil(t, sessionCookie, "login must set the session cookie") {
			assert.Equal(t, res.Token, sessionCookie.Value)
			assert.True(t, sessionCookie.HttpOnly)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		e := newEnv(t)
		e.registerOnly(t, "ada@x.com", "secret")

		rr, req := postJSON(http.MethodPost, "/api/auth/login",
			`{"email":"ada@x.com","password":"nope"}`)
		e.auth.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		var errRes handler.ErrorResponse
		decode(t, rr, &errRes)
		assert.Equal(t, "invalid_credentials", errRes.Error)
	})

	t.Run("unknown email", func(t *testing.T) {
		e := newEnv(t)

		rr, req := postJSON(http.MethodPost, "/api/auth/login",
			`{"email":"ghost@x.com","password":"pw"}`)
		e.auth.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_HandleLogout(t *testing.T) {
	e := newEnv(t)
	e.signIn(t)

	rr, req := postJSON(http.MethodPost, "/api/auth/logout", ``)
	e.auth.HandleLogout(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	cookies := rr.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, auth.TokenCookie, cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge, "logout must expire the cookie")
	}

	// Idempotent — a second logout is still a 204.
	rr, req = postJSON(http.MethodPost, "/api/auth/logout", ``)
	e.auth.HandleLogout(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAuthHandler_HandleMe(t *testing.T) {
	t.Run("active session", func(t *testing.T) {
		e := newEnv(t)
		e.signIn(t)

		rr := postGet(e.auth.HandleMe, "/api/auth/me")
		assert.Equal(t, http.StatusOK, rr.Code)

		var user model.UserInfo
		decode(t, rr, &user)
		assert.Equal(t, "ada@x.com", user.Email)
	})

	t.Run("session cleared elsewhere", func(t *testing.T) {
		// A token that passed RequireAuth can still meet a logged-out
		// store; the session pointer wins.
		e := newEnv(t)
		e.signIn(t)

		rr, req := postJSON(http.MethodPost, "/api/auth/logout", ``)
		e.auth.HandleLogout(rr, req)

		rr = postGet(e.auth.HandleMe, "/api/auth/me")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
