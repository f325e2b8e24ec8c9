package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/models"
)

func TestPositionHandler_CRUD(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)
	c := app.loggedIn(t, "alice")

	w := c.get("/positions/create/")
	require.Equal(t, http.StatusOK, w.Code)

	w = c.post("/positions/create/", url.Values{"name": {"Designer"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/positions/", location(w))

	var designer models.Position
	require.NoError(t, app.db.Where("name = ?", "Designer").First(&designer).Error)

	w = c.get(fmt.Sprintf("/positions/%d", designer.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Designer")

	w = c.post(fmt.Sprintf("/positions/%d/update/", designer.ID), url.Values{"name": {"UX Designer"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/positions/%d", designer.ID), location(w))

	w = c.get(fmt.Sprintf("/positions/%d/delete/", designer.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "UX Designer")

	w = c.post(fmt.Sprintf("/positions/%d/delete/", designer.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/positions/", location(w))

	var count int64
	app.db.Model(&models.Position{}).Where("id = ?", designer.ID).Count(&count)
	assert.Zero(t, count)
}

func TestPositionHandler_ValidationError(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)
	c := app.loggedIn(t, "alice")

	w := c.post("/positions/create/", url.Values{"name": {"   "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")

	var count int64
	app.db.Model(&models.Position{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPositionHandler_NotFound(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)
	c := app.loggedIn(t, "alice")

	for _, path := range []string{"/positions/999", "/positions/abc", "/positions/999/update/", "/positions/999/delete/"} {
		w := c.get(path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "NOT_FOUND", path)
	}

	w := c.post("/positions/999/delete/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPositionHandler_ListSearchAndPages(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)
	for _, name := range []string{"Backend developer", "Designer", "Frontend DEVELOPER", "Manager", "QA"} {
		app.position(t, name)
	}
	c := app.loggedIn(t, "alice")

	w := c.get("/positions/?name=develop")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Backend developer")
	assert.Contains(t, body, "Frontend DEVELOPER")
	assert.NotContains(t, body, `>Manager</a>`)
	assert.Contains(t, body, `value="develop"`)

	// six positions over pages of five
	w = c.get("/positions/?page=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Page 2 of 2")

	w = c.get("/positions/?page=9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "There are no positions.")

	w = c.get("/positions/?page=abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Page 1 of 2")
}

func TestPositionHandler_DeleteCascadesToWorkers(t *testing.T) {
	app := setupTestApp(t)
	admins := app.position(t, "Admin")
	app.worker(t, "alice", admins.ID)
	qa := app.position(t, "QA")
	bob := app.worker(t, "bob", qa.ID)
	c := app.loggedIn(t, "alice")

	w := c.post(fmt.Sprintf("/positions/%d/delete/", qa.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)

	var count int64
	app.db.Model(&models.Worker{}).Where("user_id = ?", bob.UserID).Count(&count)
	assert.Zero(t, count)
	app.db.Model(&models.User{}).Where("id = ?", bob.UserID).Count(&count)
	assert.Zero(t, count)
}

func TestTaskTypeHandler_CRUD(t *testing.T) {
	app := setupTestApp(t)
	app.worker(t, "alice", app.position(t, "Developer").ID)
	c := app.loggedIn(t, "alice")

	w := c.post("/task-types/create/", url.Values{"name": {"Bug"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/task-types/", location(w))

	var bug models.TaskType
	require.NoError(t, app.db.Where("name = ?", "Bug").First(&bug).Error)

	w = c.get("/task-types/?name=bu")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bug")

	w = c.post(fmt.Sprintf("/task-types/%d/update/", bug.ID), url.Values{"name": {""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.post(fmt.Sprintf("/task-types/%d/update/", bug.ID), url.Values{"name": {"Defect"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/task-types/%d", bug.ID), location(w))

	w = c.get(fmt.Sprintf("/task-types/%d", bug.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Defect")

	w = c.post(fmt.Sprintf("/task-types/%d/delete/", bug.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)

	w = c.get(fmt.Sprintf("/task-types/%d", bug.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
