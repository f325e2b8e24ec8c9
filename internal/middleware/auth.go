package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/constants"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/session"
)

// ActorLoader resolves the worker behind a session.
type ActorLoader interface {
	Actor(ctx context.Context, id uint64) (authz.Actor, error)
}

// LoadActor puts the logged-in worker, if any, into the context. A session
// whose worker no longer exists is cleared.
func LoadActor(loader ActorLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := session.GetLoginUserID(c)
		if !ok {
			c.Next()
			return
		}

		actor, err := loader.Actor(c.Request.Context(), userID)
		switch {
		case errors.Is(err, services.ErrWorkerNotFound):
			if err := session.ClearSession(c); err != nil {
				logger.Warningf("failed to clear stale session: %v", err)
			}
		case err != nil:
			logger.Errorf("failed to load actor %d: %v", userID, err)
			apierrors.InternalError(c, "")
			return
		default:
			c.Set(constants.ContextKeyUserID, actor.ID)
			c.Set(constants.ContextKeyActor, actor)
		}
		c.Next()
	}
}

// RequireAuth redirects anonymous requests to the login page, remembering
// where they were headed.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := GetUserID(c); !exists {
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireEditor rejects actors that may not change shared records.
func RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.CanEdit(GetActor(c)) {
			apierrors.Forbidden(c, "")
			return
		}
		c.Next()
	}
}

// LoginRedirect is the login URL that returns to next afterwards.
func LoginRedirect(next string) string {
	return constants.LoginURL + "?next=" + url.QueryEscape(next)
}

// GetActor returns the authenticated worker, or the zero Actor.
func GetActor(c *gin.Context) authz.Actor {
	if v, exists := c.Get(constants.ContextKeyActor); exists {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Actor{}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
