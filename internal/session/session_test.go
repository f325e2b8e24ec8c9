package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	gsessions "github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/constants"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetPolicy(Policy{BrowserMaxAge: constants.BrowserSessionMaxAge})

	store := cookie.NewStore([]byte("test-secret"))
	store.Options(StoreOptions())

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, store), ApplyExpiry())
	r.GET("/login", func(c *gin.Context) {
		if err := SetLoginUser(c, 7, c.Query("remember") == "1"); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	r.GET("/flash", func(c *gin.Context) {
		if err := AddFlash(c, "hello"); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := GetLoginUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok, "flashes": Flashes(c)})
	})
	r.GET("/logout", func(c *gin.Context) {
		_ = ClearSession(c)
		c.Status(http.StatusOK)
	})
	r.GET("/signout", func(c *gin.Context) {
		_ = Logout(c, "bye")
		c.Status(http.StatusOK)
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == constants.SessionCookieName {
			return ck
		}
	}
	require.FailNow(t, "no session cookie set")
	return nil
}

func do(r *gin.Engine, path string, ck *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if ck != nil {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSetLoginUser_RememberMe(t *testing.T) {
	r := newTestRouter()

	w := do(r, "/login?remember=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	ck := sessionCookie(t, w)
	assert.Equal(t, constants.RememberMeMaxAge, ck.MaxAge)
	assert.True(t, ck.HttpOnly)

	w = do(r, "/flash", ck)
	assert.Equal(t, constants.RememberMeMaxAge, sessionCookie(t, w).MaxAge, "later saves keep the two week lifetime")
}

func TestSetLoginUser_BrowserSession(t *testing.T) {
	r := newTestRouter()

	w := do(r, "/login", nil)
	ck := sessionCookie(t, w)
	assert.Zero(t, ck.MaxAge)
	assert.NotContains(t, strings.ToLower(w.Header().Get("Set-Cookie")), "max-age")

	w = do(r, "/flash", ck)
	flashCookie := sessionCookie(t, w)
	assert.NotContains(t, strings.ToLower(w.Header().Get("Set-Cookie")), "max-age")

	w = do(r, "/whoami", flashCookie)
	assert.JSONEq(t, `{"id":7,"ok":true,"flashes":["hello"]}`, w.Body.String())
}

func TestClearSession(t *testing.T) {
	r := newTestRouter()

	ck := sessionCookie(t, do(r, "/login?remember=1", nil))
	w := do(r, "/logout", ck)
	cleared := sessionCookie(t, w)
	assert.Negative(t, cleared.MaxAge)

	w = do(r, "/whoami", nil)
	assert.JSONEq(t, `{"id":0,"ok":false,"flashes":null}`, w.Body.String())
}

func TestLogout_KeepsFlash(t *testing.T) {
	r := newTestRouter()

	ck := sessionCookie(t, do(r, "/login?remember=1", nil))
	w := do(r, "/signout", ck)
	anon := sessionCookie(t, w)
	assert.Zero(t, anon.MaxAge)

	w = do(r, "/whoami", anon)
	assert.JSONEq(t, `{"id":0,"ok":false,"flashes":["bye"]}`, w.Body.String())
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(&config.Config{SessionStore: "cookie", SessionSecret: "s", GinMode: "release"})
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.True(t, Options(true).Secure)

	_, err = NewStore(&config.Config{SessionStore: "memcached"})
	assert.Error(t, err)

	SetPolicy(Policy{BrowserMaxAge: constants.BrowserSessionMaxAge})
}

// expiringStore mimics redistore: saving with MaxAge <= 0 deletes the record.
type expiringStore struct {
	cookie.Store
	ttls []int
}

func (s *expiringStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if session.Options.MaxAge <= 0 {
		return errors.New("session deleted")
	}
	s.ttls = append(s.ttls, session.Options.MaxAge)
	return s.Store.Save(r, w, session)
}

func TestBrowserSessionStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetPolicy(Policy{BrowserMaxAge: constants.BrowserSessionMaxAge})

	inner := &expiringStore{Store: cookie.NewStore([]byte("test-secret"))}
	store := &browserSessionStore{Store: inner, ttl: constants.DefaultSessionMaxAge}
	store.Options(StoreOptions())

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, store), ApplyExpiry())
	r.GET("/login", func(c *gin.Context) {
		if err := SetLoginUser(c, 7, c.Query("remember") == "1"); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := GetLoginUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})

	w := do(r, "/login", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)
	assert.Zero(t, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	header := strings.ToLower(w.Header().Get("Set-Cookie"))
	assert.NotContains(t, header, "max-age")
	assert.NotContains(t, header, "expires")
	assert.Equal(t, []int{constants.DefaultSessionMaxAge}, inner.ttls, "the server still expires the session")

	w = do(r, "/whoami", ck)
	assert.JSONEq(t, `{"id":7,"ok":true}`, w.Body.String())

	w = do(r, "/login?remember=1", nil)
	assert.Equal(t, constants.RememberMeMaxAge, sessionCookie(t, w).MaxAge)
}
