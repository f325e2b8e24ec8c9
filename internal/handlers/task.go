package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/services"
)

const tasksURL = "/tasks/"

type TaskHandler struct {
	taskService     *services.TaskService
	taskTypeService *services.TaskTypeService
	workerService   *services.WorkerService
}

func NewTaskHandler(taskService *services.TaskService, taskTypeService *services.TaskTypeService, workerService *services.WorkerService) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		taskTypeService: taskTypeService,
		workerService:   workerService,
	}
}

// ListTasks returns a page of tasks whose name contains ?name=
func (h *TaskHandler) ListTasks(c *gin.Context) {
	listing, err := h.taskService.List(c.Request.Context(), listInput(c, "name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "task_list.html", "Tasks", gin.H{
		"listing":     listing,
		"search":      forms.SearchForm{Name: listing.Query},
		"query_field": "name",
	})
}

// GetTask shows a task with its type and assignees
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	assigned, err := h.taskService.IsAssigned(c.Request.Context(), taskID, middleware.GetActor(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "task_detail.html", task.Name, gin.H{
		"task":     task,
		"assigned": assigned,
	})
}

// renderTaskForm shows the task form with the choices its selects need
func (h *TaskHandler) renderTaskForm(c *gin.Context, title string, form forms.TaskForm, task *models.Task, errs forms.Errors) {
	ctx := c.Request.Context()
	taskTypes, err := h.taskTypeService.All(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	workers, err := h.workerService.All(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	renderForm(c, "task_form.html", title, gin.H{
		"form":       form,
		"task":       task,
		"task_types": taskTypes,
		"workers":    workers,
		"priorities": models.Priorities,
	}, errs)
}

func taskInput(form *forms.TaskForm) services.TaskInput {
	return services.TaskInput{
		Name:        form.Name,
		Description: form.Description,
		Deadline:    form.DeadlineTime(),
		IsCompleted: form.IsCompleted,
		Priority:    models.Priority(form.Priority),
		TaskTypeID:  form.TaskTypeID,
		AssigneeIDs: form.Assignees,
	}
}

func (h *TaskHandler) CreateTaskPage(c *gin.Context) {
	form := forms.TaskForm{Priority: string(models.PriorityMedium)}
	h.renderTaskForm(c, "Create task", form, nil, forms.Errors{})
}

// CreateTask creates a task together with its assignees
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var form forms.TaskForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		_, err := h.taskService.CreateTask(c.Request.Context(), taskInput(&form))
		if err == nil {
			redirect(c, tasksURL)
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	h.renderTaskForm(c, "Create task", form, nil, errs)
}

func (h *TaskHandler) UpdateTaskPage(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.renderTaskForm(c, "Update task", forms.TaskFormFrom(task), task, forms.Errors{})
}

// UpdateTask replaces the task fields and the assignee set
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form forms.TaskForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, taskInput(&form))
		if err == nil {
			redirect(c, tasksURL+itoa(task.ID))
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.renderTaskForm(c, "Update task", form, task, errs)
}

func (h *TaskHandler) DeleteTaskPage(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "task_confirm_delete.html", "Delete task", gin.H{"task": task})
}

// DeleteTask deletes a task with its comments and assignments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondServiceError(c, err)
		return
	}
	redirect(c, tasksURL)
}

// ToggleAssignment adds the current worker to the task, or removes them
// when already assigned, then goes back to the task
func (h *TaskHandler) ToggleAssignment(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.taskService.ToggleAssignment(c.Request.Context(), middleware.GetActor(c), taskID); err != nil {
		respondServiceError(c, err)
		return
	}
	redirect(c, tasksURL+itoa(taskID))
}
