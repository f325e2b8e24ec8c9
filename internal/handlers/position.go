package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/services"
)

const positionsURL = "/positions/"

type PositionHandler struct {
	positionService *services.PositionService
}

func NewPositionHandler(positionService *services.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// ListPositions shows a page of positions, filtered by ?name=.
func (h *PositionHandler) ListPositions(c *gin.Context) {
	listing, err := h.positionService.List(c.Request.Context(), listInput(c, "name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "position_list.html", "Positions", gin.H{
		"listing":     listing,
		"search":      forms.SearchForm{Name: listing.Query},
		"query_field": "name",
	})
}

// GetPosition shows a position with the workers holding it.
func (h *PositionHandler) GetPosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	position, err := h.positionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "position_detail.html", position.Name, gin.H{"position": position})
}

func (h *PositionHandler) CreatePositionPage(c *gin.Context) {
	renderForm(c, "position_form.html", "Create position", gin.H{"form": forms.PositionForm{}}, forms.Errors{})
}

func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var form forms.PositionForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		_, err := h.positionService.Create(c.Request.Context(), services.PositionInput{Name: form.Name})
		if err == nil {
			redirect(c, positionsURL)
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	renderForm(c, "position_form.html", "Create position", gin.H{"form": form}, errs)
}

func (h *PositionHandler) UpdatePositionPage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	position, err := h.positionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	renderForm(c, "position_form.html", "Update position", gin.H{
		"form":     forms.PositionForm{Name: position.Name},
		"position": position,
	}, forms.Errors{})
}

func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form forms.PositionForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		position, err := h.positionService.Update(c.Request.Context(), id, services.PositionInput{Name: form.Name})
		if err == nil {
			redirect(c, positionsURL+itoa(position.ID))
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	position, err := h.positionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	renderForm(c, "position_form.html", "Update position", gin.H{"form": form, "position": position}, errs)
}

// DeletePositionPage asks for confirmation.
func (h *PositionHandler) DeletePositionPage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	position, err := h.positionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "position_confirm_delete.html", "Delete position", gin.H{"position": position})
}

// DeletePosition removes the position together with its workers.
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.positionService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	redirect(c, positionsURL)
}
