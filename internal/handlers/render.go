package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/session"
	"github.com/yukikurage/task-manager/internal/utils"
)

// render executes a page template with the data the layout needs.
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["actor"] = middleware.GetActor(c)
	data["flashes"] = session.Flashes(c)
	data["request_uri"] = c.Request.RequestURI
	if _, ok := data["errors"]; !ok {
		data["errors"] = forms.Errors{}
	}
	c.HTML(status, name, data)
}

// renderForm shows a form page, with status 400 when it carries errors.
func renderForm(c *gin.Context, name, title string, data gin.H, errs forms.Errors) {
	status := http.StatusOK
	if errs.Any() {
		status = http.StatusBadRequest
	}
	data["errors"] = errs
	render(c, status, name, title, data)
}

// parseID reads a numeric path parameter; anything else is a missing page.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}

// listInput reads the search box and the page number of a list screen.
func listInput(c *gin.Context, queryField string) services.ListInput {
	return services.ListInput{
		Query: c.Query(queryField),
		Page:  utils.GetPaginationParams(c, 1).Page,
	}
}

// mergeValidation copies the field messages of a service ValidationError into
// the form errors. It reports whether err was one.
func mergeValidation(err error, errs forms.Errors) bool {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for field, message := range verr.Fields {
		errs.Add(field, message)
	}
	return true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPositionNotFound),
		errors.Is(err, services.ErrTaskTypeNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrWorkerNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "")
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		apierrors.InternalError(c, "")
	}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
