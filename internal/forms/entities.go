package forms

import (
	"strings"
	"time"

	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/models"
)

// DeadlineLayout is the value format of an HTML datetime-local input.
const DeadlineLayout = "2006-01-02T15:04"

// SearchForm is the query string of every list screen.
type SearchForm struct {
	Name     string `form:"name"`
	Username string `form:"username"`
}

type PositionForm struct {
	Name string `form:"name" binding:"required,max=255"`
}

func (f *PositionForm) Validate(errs Errors) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		errs.Add("name", locale.T("form.required"))
	}
}

type TaskTypeForm struct {
	Name string `form:"name" binding:"required,max=255"`
}

func (f *TaskTypeForm) Validate(errs Errors) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		errs.Add("name", locale.T("form.required"))
	}
}

type TaskForm struct {
	Name        string   `form:"name" binding:"required,max=255"`
	Description string   `form:"description" binding:"required"`
	Deadline    string   `form:"deadline" binding:"required"`
	IsCompleted bool     `form:"is_completed"`
	Priority    string   `form:"priority" binding:"omitempty,oneof=Urgent High Medium Low"`
	TaskTypeID  uint64   `form:"task_type" binding:"required,gt=0"`
	Assignees   []uint64 `form:"assignees"`

	deadline time.Time
}

func (f *TaskForm) Validate(errs Errors) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Priority == "" {
		f.Priority = string(models.PriorityMedium)
	}

	if f.Deadline != "" && !errs.Has("deadline") {
		d, err := time.ParseInLocation(DeadlineLayout, f.Deadline, time.Local)
		if err != nil {
			errs.Add("deadline", locale.T("form.datetime"))
			return
		}
		f.deadline = d
	}
}

// DeadlineTime is the parsed deadline; valid only after a successful Bind.
func (f *TaskForm) DeadlineTime() time.Time {
	return f.deadline
}

// TaskFormFrom fills a form from a stored task for the update screen.
func TaskFormFrom(task *models.Task) TaskForm {
	ids := make([]uint64, 0, len(task.Assignments))
	for _, a := range task.Assignments {
		ids = append(ids, a.WorkerID)
	}
	return TaskForm{
		Name:        task.Name,
		Description: task.Description,
		Deadline:    task.Deadline.Local().Format(DeadlineLayout),
		IsCompleted: task.IsCompleted,
		Priority:    string(task.Priority),
		TaskTypeID:  task.TaskTypeID,
		Assignees:   ids,
		deadline:    task.Deadline,
	}
}

// HasAssignee is used by templates to pre-check assignee boxes.
func (f TaskForm) HasAssignee(id uint64) bool {
	for _, a := range f.Assignees {
		if a == id {
			return true
		}
	}
	return false
}

// WorkerForm is the profile part of registration.
type WorkerForm struct {
	Username   string `form:"username" binding:"required,max=150,username"`
	FirstName  string `form:"first_name" binding:"required,max=150"`
	LastName   string `form:"last_name" binding:"required,max=150"`
	Email      string `form:"email" binding:"required,email,max=254"`
	PositionID uint64 `form:"position" binding:"required,gt=0"`
}

// WorkerUpdateForm edits an existing profile. Names and email may be cleared.
type WorkerUpdateForm struct {
	Username   string `form:"username" binding:"required,max=150,username"`
	FirstName  string `form:"first_name" binding:"max=150"`
	LastName   string `form:"last_name" binding:"max=150"`
	Email      string `form:"email" binding:"omitempty,email,max=254"`
	PositionID uint64 `form:"position" binding:"required,gt=0"`
}

// Profile returns the fields in the shape registration uses.
func (f *WorkerUpdateForm) Profile() *WorkerForm {
	profile := WorkerForm(*f)
	return &profile
}

// WorkerUpdateFormFrom fills a form from a stored worker for the update screen.
func WorkerUpdateFormFrom(worker *models.Worker) WorkerUpdateForm {
	return WorkerUpdateForm{
		Username:   worker.User.Username,
		FirstName:  worker.User.FirstName,
		LastName:   worker.User.LastName,
		Email:      worker.User.Email,
		PositionID: worker.PositionID,
	}
}

type WorkerCreateForm struct {
	WorkerForm
	Password1 string `form:"password1" binding:"required"`
	Password2 string `form:"password2" binding:"required"`
}

func (f *WorkerCreateForm) Validate(errs Errors) {
	if f.Password1 == "" || f.Password2 == "" {
		return
	}
	if f.Password1 != f.Password2 {
		errs.Add("password2", locale.T("form.passwordMismatch"))
	}
}

type CommentForm struct {
	Content string `form:"content" binding:"required"`
}

type LoginForm struct {
	Username   string `form:"username" binding:"required"`
	Password   string `form:"password" binding:"required"`
	RememberMe bool   `form:"remember_me"`
	Next       string `form:"next"`
}
