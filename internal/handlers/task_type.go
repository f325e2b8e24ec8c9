package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/services"
)

const taskTypesURL = "/task-types/"

type TaskTypeHandler struct {
	taskTypeService *services.TaskTypeService
}

func NewTaskTypeHandler(taskTypeService *services.TaskTypeService) *TaskTypeHandler {
	return &TaskTypeHandler{
		taskTypeService: taskTypeService,
	}
}

func (h *TaskTypeHandler) ListTaskTypes(c *gin.Context) {
	listing, err := h.taskTypeService.List(c.Request.Context(), listInput(c, "name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "task_type_list.html", "Task types", gin.H{
		"listing":     listing,
		"search":      forms.SearchForm{Name: listing.Query},
		"query_field": "name",
	})
}

func (h *TaskTypeHandler) GetTaskType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	taskType, err := h.taskTypeService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "task_type_detail.html", taskType.Name, gin.H{"task_type": taskType})
}

func (h *TaskTypeHandler) CreateTaskTypePage(c *gin.Context) {
	renderForm(c, "task_type_form.html", "Create task type", gin.H{"form": forms.TaskTypeForm{}}, forms.Errors{})
}

func (h *TaskTypeHandler) CreateTaskType(c *gin.Context) {
	var form forms.TaskTypeForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		_, err := h.taskTypeService.Create(c.Request.Context(), services.TaskTypeInput{Name: form.Name})
		if err == nil {
			redirect(c, taskTypesURL)
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	renderForm(c, "task_type_form.html", "Create task type", gin.H{"form": form}, errs)
}

func (h *TaskTypeHandler) UpdateTaskTypePage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	taskType, err := h.taskTypeService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	renderForm(c, "task_type_form.html", "Update task type", gin.H{
		"form":      forms.TaskTypeForm{Name: taskType.Name},
		"task_type": taskType,
	}, forms.Errors{})
}

func (h *TaskTypeHandler) UpdateTaskType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form forms.TaskTypeForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		taskType, err := h.taskTypeService.Update(c.Request.Context(), id, services.TaskTypeInput{Name: form.Name})
		if err == nil {
			redirect(c, taskTypesURL+itoa(taskType.ID))
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	taskType, err := h.taskTypeService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	renderForm(c, "task_type_form.html", "Update task type", gin.H{"form": form, "task_type": taskType}, errs)
}

func (h *TaskTypeHandler) DeleteTaskTypePage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	taskType, err := h.taskTypeService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "task_type_confirm_delete.html", "Delete task type", gin.H{"task_type": taskType})
}

// DeleteTaskType removes the type and every task of that type.
func (h *TaskTypeHandler) DeleteTaskType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskTypeService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	redirect(c, taskTypesURL)
}
