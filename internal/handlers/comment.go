package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/utils"
)

const commentTemplate = "comment_list.html"

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

func commentsURL(taskID uint64) string {
	return tasksURL + itoa(taskID) + "/comments/"
}

// renderThread shows one page of the thread under the comment form.
func (h *CommentHandler) renderThread(c *gin.Context, taskID uint64, form forms.CommentForm, errs forms.Errors) {
	page := utils.GetPaginationParams(c, 1).Page
	thread, err := h.commentService.Thread(c.Request.Context(), taskID, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	renderForm(c, commentTemplate, "Comments", gin.H{
		"task":          thread.Task,
		"comments":      thread.Comments,
		"page":          thread.Page,
		"comment_count": thread.Task.CommentCount,
		"form":          form,
	}, errs)
}

// ListComments shows the thread of a task, newest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.renderThread(c, taskID, forms.CommentForm{}, forms.Errors{})
}

// AddComment posts a comment and redirects back to the thread.
func (h *CommentHandler) AddComment(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form forms.CommentForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		_, err := h.commentService.Add(c.Request.Context(), middleware.GetActor(c), taskID, form.Content)
		if err == nil {
			redirect(c, commentsURL(taskID))
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	h.renderThread(c, taskID, form, errs)
}

// DeleteComment removes a comment written by the actor. Anyone else but a
// superuser gets a 403 and the comment stays.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	taskID, err := h.commentService.Delete(c.Request.Context(), middleware.GetActor(c), commentID)
	if errors.Is(err, services.ErrForbidden) {
		apierrors.Forbidden(c, locale.Localize(c, "error.commentForbidden"))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	redirect(c, commentsURL(taskID))
}
