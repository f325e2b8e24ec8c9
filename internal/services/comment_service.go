package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/utils"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

var stripTagsPolicy = bluemonday.StrictPolicy()

// CommentService manages the comment thread of a task.
type CommentService struct {
	commentRepo repository.CommentaryRepository
	taskRepo    repository.TaskRepository
}

func NewCommentService(commentRepo repository.CommentaryRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// Thread is one page of a task's comments, newest first.
type Thread struct {
	Task     *models.Task
	Comments []models.Commentary
	Page     utils.Page
}

// cleanContent strips markup and leaves plain text for the templates to escape.
func cleanContent(content string) string {
	return strings.TrimSpace(html.UnescapeString(stripTagsPolicy.Sanitize(content)))
}

func (s *CommentService) findTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindWithCommentCount(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Thread returns the requested page of the task's comments.
func (s *CommentService) Thread(ctx context.Context, taskID uint64, page int) (*Thread, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	params := utils.NewPaginationParams(page, constants.CommentPageSize)
	comments, total, err := s.commentRepo.ListByTask(ctx, taskID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return &Thread{
		Task:     task,
		Comments: comments,
		Page:     utils.NewPage(params, total),
	}, nil
}

// Add posts a comment by the actor on the task.
func (s *CommentService) Add(ctx context.Context, actor authz.Actor, taskID uint64, content string) (*models.Commentary, error) {
	if actor.IsAnonymous() {
		return nil, ErrForbidden
	}
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}

	content = cleanContent(content)
	if content == "" {
		return nil, fieldError("content", locale.T("form.required"))
	}

	comment := &models.Commentary{
		UserID:  actor.ID,
		TaskID:  taskID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment if the actor wrote it or is a superuser.
// The comment's task is returned so the caller can go back to the thread.
func (s *CommentService) Delete(ctx context.Context, actor authz.Actor, commentID uint64) (uint64, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCommentNotFound
		}
		return 0, fmt.Errorf("failed to find comment: %w", err)
	}

	if !authz.CanDeleteComment(actor, comment) {
		logger.Warningf("worker %d tried to delete comment %d by worker %d", actor.ID, comment.ID, comment.UserID)
		return comment.TaskID, ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	return comment.TaskID, nil
}
