package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
)

// IndexHandler serves the landing pages.
type IndexHandler struct{}

func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

func (h *IndexHandler) Root(c *gin.Context) {
	redirect(c, constants.WelcomeURL)
}

func (h *IndexHandler) Welcome(c *gin.Context) {
	render(c, http.StatusOK, "welcome.html", "Welcome", nil)
}

// Health reports that the server is up.
func (h *IndexHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Task Manager is running",
	})
}
