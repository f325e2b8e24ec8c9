package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	gsessions "github.com/gorilla/sessions"
	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/constants"
)

// NewStore builds the session store selected by SESSION_STORE and installs
// the matching cookie policy.
func NewStore(cfg *config.Config) (sessions.Store, error) {
	p := Policy{
		Secure:        cfg.IsProduction(),
		BrowserMaxAge: constants.BrowserSessionMaxAge,
	}

	var store sessions.Store
	switch cfg.SessionStore {
	case "", "cookie":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			redisAddr,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = &browserSessionStore{Store: rs, ttl: constants.DefaultSessionMaxAge}
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	SetPolicy(p)
	store.Options(StoreOptions())
	return store, nil
}

// browserSessionStore wraps a store that deletes sessions saved with
// MaxAge <= 0, as redis does. Such sessions are kept for ttl seconds on the
// server and sent to the client as cookies without Max-Age or Expires.
type browserSessionStore struct {
	sessions.Store
	ttl int
}

func (s *browserSessionStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if session.Options == nil || session.Options.MaxAge != 0 {
		return s.Store.Save(r, w, session)
	}

	session.Options.MaxAge = s.ttl
	err := s.Store.Save(r, w, session)
	session.Options.MaxAge = 0
	if err != nil {
		return err
	}

	dropCookieExpiry(w.Header(), session.Name())
	return nil
}

// dropCookieExpiry rewrites the named Set-Cookie header as a browser-session
// cookie.
func dropCookieExpiry(h http.Header, name string) {
	values := h["Set-Cookie"]
	for i, v := range values {
		ck, err := http.ParseSetCookie(v)
		if err != nil || ck.Name != name {
			continue
		}
		ck.MaxAge = 0
		ck.Expires = time.Time{}
		values[i] = ck.String()
	}
}
