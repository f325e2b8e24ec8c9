package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/session"
)

const loginTemplate = "login.html"

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginPage shows the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	form := forms.LoginForm{Next: c.Query("next")}
	renderForm(c, loginTemplate, "Log in", gin.H{"form": form}, forms.Errors{})
}

// Login authenticates a worker and initializes the session. With remember_me
// the session outlives the browser.
func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	errs := forms.Bind(c, &form)
	if errs.Any() {
		renderForm(c, loginTemplate, "Log in", gin.H{"form": form}, errs)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: form.Username,
		Password: form.Password,
	})
	if errors.Is(err, services.ErrInvalidCredentials) {
		errs.Add(forms.NonField, locale.Localize(c, "form.invalidLogin"))
		form.Password = ""
		renderForm(c, loginTemplate, "Log in", gin.H{"form": form}, errs)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := session.SetLoginUser(c, user.ID, form.RememberMe); err != nil {
		logger.Errorf("failed to save session: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	redirect(c, safeNext(form.Next))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := session.Logout(c, locale.Localize(c, "flash.loggedOut")); err != nil {
		logger.Errorf("failed to logout: %v", err)
		apierrors.InternalError(c, "")
		return
	}
	redirect(c, constants.LoginURL)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return constants.WelcomeURL
	}
	return next
}
