package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/models"
)

func TestHealth(t *testing.T) {
	app := setupTestApp(t)

	w := app.client(t).get("/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRootRedirectsToWelcome(t *testing.T) {
	app := setupTestApp(t)

	w := app.client(t).get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.WelcomeURL, location(w))

	w = app.client(t).get(constants.WelcomeURL)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	app := setupTestApp(t)

	for _, path := range []string{"/tasks/", "/positions/", "/task-types/", "/workers/", "/tasks/1/comments/"} {
		w := app.client(t).get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/accounts/login/?next="+url.QueryEscape(path), location(w), path)
	}
}

func TestLogin_RememberMe(t *testing.T) {
	app := setupTestApp(t)
	alice := app.worker(t, "alice", app.position(t, "Developer").ID)

	c := app.client(t)
	w := c.post("/accounts/login/", url.Values{
		"username":    {"alice"},
		"password":    {testPassword},
		"remember_me": {"true"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.WelcomeURL, location(w))
	assert.Equal(t, constants.RememberMeMaxAge, c.sessionCookie().MaxAge)

	w = c.get("/tasks/")
	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, app.db.First(&user, alice.UserID).Error)
	assert.NotNil(t, user.LastLogin)
}

func TestLogin_BrowserSession(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)

	c := app.client(t)
	w := c.post("/accounts/login/", url.Values{"username": {"alice"}, "password": {testPassword}})
	require.Equal(t, http.StatusFound, w.Code)

	assert.Zero(t, c.sessionCookie().MaxAge)
	for _, header := range w.Header().Values("Set-Cookie") {
		assert.NotContains(t, strings.ToLower(header), "max-age")
	}

	// Closing the browser drops the cookie; nothing remains to resume.
	closed := app.client(t)
	w = closed.get("/tasks/")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLogin_Next(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)

	c := app.client(t)
	w := c.post("/accounts/login/", url.Values{
		"username": {"alice"},
		"password": {testPassword},
		"next":     {"/tasks/"},
	})
	assert.Equal(t, "/tasks/", location(w))

	w = app.client(t).post("/accounts/login/", url.Values{
		"username": {"alice"},
		"password": {testPassword},
		"next":     {"//evil.example.com/"},
	})
	assert.Equal(t, constants.WelcomeURL, location(w))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)

	c := app.client(t)
	w := c.post("/accounts/login/", url.Values{"username": {"alice"}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")

	w = c.get("/tasks/")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLogin_Page(t *testing.T) {
	app := setupTestApp(t)

	w := app.client(t).get("/accounts/login/?next=/tasks/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="next" value="/tasks/"`)
}

func TestLogout(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)

	c := app.loggedIn(t, "alice")
	w := c.post("/accounts/logout/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.LoginURL, location(w))

	w = c.get("/tasks/")
	assert.Equal(t, http.StatusFound, w.Code)

	w = c.get(constants.LoginURL)
	assert.Contains(t, w.Body.String(), "You have been logged out.")
}
