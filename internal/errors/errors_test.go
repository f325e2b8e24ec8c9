package errors

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/constants"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New(ErrorTemplate).Parse(`{{.error.Code}}: {{.error.Message}}`)))
	r.GET("/missing", func(c *gin.Context) { NotFound(c, "") })
	r.GET("/denied", func(c *gin.Context) { Forbidden(c, "no") })
	r.GET("/boom", func(c *gin.Context) { InternalError(c, "") })
	return r
}

func TestRespondWithError_HTML(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND: The requested page could not be found.", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/denied", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN: no", w.Body.String())
}

func TestRespondWithError_JSON(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"INTERNAL_ERROR","message":"Something went wrong on our side."}`, w.Body.String())
}

func TestRespondWithError_AnonymousActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New(ErrorTemplate).Parse(`{{if .actor.IsAnonymous}}anonymous{{else}}{{.actor.Username}}{{end}}`)))
	r.GET("/anon", func(c *gin.Context) { NotFound(c, "") })
	r.GET("/known", func(c *gin.Context) {
		c.Set(constants.ContextKeyActor, authz.Actor{ID: 3, Username: "alice"})
		NotFound(c, "")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/known", nil))
	assert.Equal(t, "alice", w.Body.String())
}
