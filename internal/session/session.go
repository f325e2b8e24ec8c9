// Package session keeps the login state and flash messages in the gin
// session, and controls how long the session cookie lives.
package session

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
)

// Policy decides the cookie attributes of every session save.
type Policy struct {
	Secure bool
	// BrowserMaxAge is used when remember-me is off. Zero yields a cookie
	// without Max-Age that the browser drops when it closes.
	BrowserMaxAge int
}

var policy = Policy{BrowserMaxAge: constants.BrowserSessionMaxAge}

// SetPolicy replaces the process-wide cookie policy.
func SetPolicy(p Policy) {
	policy = p
}

// Options returns the cookie options for a session with the given choice.
func Options(rememberMe bool) sessions.Options {
	maxAge := policy.BrowserMaxAge
	if rememberMe {
		maxAge = constants.RememberMeMaxAge
	}
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   policy.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// StoreOptions are the defaults for sessions nobody has logged into.
func StoreOptions() sessions.Options {
	opts := Options(false)
	opts.MaxAge = constants.DefaultSessionMaxAge
	return opts
}

// SetLoginUser starts an authenticated session for userID.
func SetLoginUser(c *gin.Context, userID uint64, rememberMe bool) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(constants.ContextKeyUserID, userID)
	s.Set(constants.SessionKeyRememberMe, rememberMe)
	s.Options(Options(rememberMe))
	return s.Save()
}

// GetLoginUserID returns the user stored by SetLoginUser.
func GetLoginUserID(c *gin.Context) (uint64, bool) {
	s := sessions.Default(c)
	id, ok := s.Get(constants.ContextKeyUserID).(uint64)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// ApplyExpiry re-applies the remember-me choice so that any save during the
// request keeps the cookie lifetime chosen at login.
func ApplyExpiry() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		if remember, ok := s.Get(constants.SessionKeyRememberMe).(bool); ok {
			s.Options(Options(remember))
		}
		c.Next()
	}
}

// ClearSession logs the user out and expires the cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	opts := Options(false)
	opts.MaxAge = -1
	s.Options(opts)
	return s.Save()
}

// Logout drops the login and leaves an anonymous session holding only the
// given flash message.
func Logout(c *gin.Context, message string) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(Options(false))
	if message != "" {
		s.AddFlash(message)
	}
	return s.Save()
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, message string) error {
	s := sessions.Default(c)
	s.AddFlash(message)
	return s.Save()
}

// Flashes pops the queued messages.
func Flashes(c *gin.Context) []string {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
