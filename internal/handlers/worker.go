package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/constants"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/session"
	"github.com/yukikurage/task-manager/internal/storage"
)

const (
	workersURL     = "/workers/"
	avatarTemplate = "upload_avatar.html"
)

// WorkerHandler serves registration, profiles and avatars.
type WorkerHandler struct {
	workerService   *services.WorkerService
	positionService *services.PositionService
	taskService     *services.TaskService
}

// NewWorkerHandler creates a new WorkerHandler.
func NewWorkerHandler(workerService *services.WorkerService, positionService *services.PositionService, taskService *services.TaskService) *WorkerHandler {
	return &WorkerHandler{
		workerService:   workerService,
		positionService: positionService,
		taskService:     taskService,
	}
}

func workerURL(id uint64) string {
	return workersURL + itoa(id) + "/"
}

// avatarUpload opens the optional "avatar" file of a multipart form.
// A missing or empty file yields a nil reader.
func avatarUpload(c *gin.Context) (io.ReadCloser, error) {
	fh, err := c.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	return fh.Open()
}

// uploadReader keeps a missing upload a nil io.Reader,
// so services can tell "no file" from an empty one.
func uploadReader(f io.ReadCloser) io.Reader {
	if f == nil {
		return nil
	}
	return f
}

func profileInput(form *forms.WorkerForm) services.ProfileInput {
	return services.ProfileInput{
		Username:   form.Username,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Email:      form.Email,
		PositionID: form.PositionID,
	}
}

// ListWorkers shows a page of workers filtered by ?username=.
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	listing, err := h.workerService.List(c.Request.Context(), listInput(c, "username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "worker_list.html", "Workers", gin.H{
		"listing":     listing,
		"search":      forms.SearchForm{Username: listing.Query},
		"query_field": "username",
	})
}

// GetWorker shows a worker with their position and assigned tasks.
func (h *WorkerHandler) GetWorker(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	worker, err := h.workerService.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	tasks, err := h.taskService.ListForWorker(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "worker_detail.html", worker.User.Username, gin.H{
		"worker":  worker,
		"tasks":   tasks,
		"is_self": authz.IsSelf(middleware.GetActor(c), worker.UserID),
	})
}

func (h *WorkerHandler) renderWorkerForm(c *gin.Context, name, title string, data gin.H, errs forms.Errors) {
	positions, err := h.positionService.All(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data["positions"] = positions
	renderForm(c, name, title, data, errs)
}

// CreateWorkerPage shows the registration form.
func (h *WorkerHandler) CreateWorkerPage(c *gin.Context) {
	h.renderWorkerForm(c, "worker_create.html", "Sign up", gin.H{"form": forms.WorkerCreateForm{}}, forms.Errors{})
}

// CreateWorker registers a worker and logs them in.
func (h *WorkerHandler) CreateWorker(c *gin.Context) {
	var form forms.WorkerCreateForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		worker, err := h.register(c, &form)
		if err == nil {
			if err := session.SetLoginUser(c, worker.UserID, false); err != nil {
				logger.Errorf("failed to log in new worker %d: %v", worker.UserID, err)
				apierrors.InternalError(c, "")
				return
			}
			if err := session.AddFlash(c, locale.Localize(c, "flash.signedUp")); err != nil {
				logger.Warningf("failed to save flash: %v", err)
			}
			redirect(c, constants.WelcomeURL)
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	form.Password1, form.Password2 = "", ""
	h.renderWorkerForm(c, "worker_create.html", "Sign up", gin.H{"form": form}, errs)
}

func (h *WorkerHandler) register(c *gin.Context, form *forms.WorkerCreateForm) (*models.Worker, error) {
	avatar, err := avatarUpload(c)
	if err != nil {
		return nil, err
	}
	if avatar != nil {
		defer avatar.Close()
	}

	return h.workerService.Register(c.Request.Context(), services.RegisterInput{
		ProfileInput: profileInput(&form.WorkerForm),
		Password1:    form.Password1,
		Password2:    form.Password2,
		Avatar:       uploadReader(avatar),
	})
}

func (h *WorkerHandler) UpdateWorkerPage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	worker, err := h.workerService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.renderWorkerForm(c, "worker_update.html", "Update worker", gin.H{
		"form":   forms.WorkerUpdateFormFrom(worker),
		"worker": worker,
	}, forms.Errors{})
}

// UpdateWorker edits a profile. Passwords are not part of this form.
func (h *WorkerHandler) UpdateWorker(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form forms.WorkerUpdateForm
	errs := forms.Bind(c, &form)
	if !errs.Any() {
		err := h.update(c, id, &form)
		if err == nil {
			redirect(c, workerURL(id))
			return
		}
		if !mergeValidation(err, errs) {
			respondServiceError(c, err)
			return
		}
	}

	worker, err := h.workerService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.renderWorkerForm(c, "worker_update.html", "Update worker", gin.H{"form": form, "worker": worker}, errs)
}

func (h *WorkerHandler) update(c *gin.Context, id uint64, form *forms.WorkerUpdateForm) error {
	avatar, err := avatarUpload(c)
	if err != nil {
		return err
	}
	if avatar != nil {
		defer avatar.Close()
	}

	_, err = h.workerService.Update(c.Request.Context(), id, services.UpdateInput{
		ProfileInput: profileInput(form.Profile()),
		Avatar:       uploadReader(avatar),
	})
	return err
}

func (h *WorkerHandler) DeleteWorkerPage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	worker, err := h.workerService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	render(c, http.StatusOK, "worker_confirm_delete.html", "Delete worker", gin.H{"worker": worker})
}

// DeleteWorker removes a worker. Deleting yourself also ends your session.
func (h *WorkerHandler) DeleteWorker(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	worker, err := h.workerService.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.workerService.Delete(ctx, id); err != nil {
		respondServiceError(c, err)
		return
	}

	actor := middleware.GetActor(c)
	message := locale.Localize(c, "flash.workerDeleted", "Username=="+worker.User.Username)
	if authz.IsSelf(actor, id) {
		err = session.Logout(c, message)
	} else {
		err = session.AddFlash(c, message)
	}
	if err != nil {
		logger.Warningf("failed to save session after deleting worker %d: %v", id, err)
	}

	redirect(c, authz.WorkerDeleteRedirect(actor))
}

func (h *WorkerHandler) UploadAvatarPage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	worker, err := h.workerService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	renderForm(c, avatarTemplate, "Upload avatar", gin.H{"worker": worker}, forms.Errors{})
}

// UploadAvatar replaces the worker's avatar with a thumbnail of the upload.
// Submitting no file changes nothing.
func (h *WorkerHandler) UploadAvatar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	avatar, err := avatarUpload(c)
	if err != nil {
		apierrors.BadRequest(c, "")
		return
	}
	if avatar != nil {
		defer avatar.Close()
	}

	err = h.workerService.SetAvatar(ctx, id, uploadReader(avatar))
	if err == nil {
		if avatar != nil {
			if err := session.AddFlash(c, locale.Localize(c, "flash.avatarUpdated")); err != nil {
				logger.Warningf("failed to save flash: %v", err)
			}
		}
		redirect(c, workerURL(id))
		return
	}

	errs := forms.Errors{}
	if !mergeValidation(err, errs) {
		respondServiceError(c, err)
		return
	}
	worker, err := h.workerService.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	renderForm(c, avatarTemplate, "Upload avatar", gin.H{"worker": worker}, errs)
}

// ServeAvatar streams a stored avatar image.
func (h *WorkerHandler) ServeAvatar(c *gin.Context) {
	name := c.Param("name")
	if !storage.ValidName(name) {
		apierrors.NotFound(c, "")
		return
	}

	rc, size, err := h.workerService.OpenAvatar(c.Request.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		apierrors.NotFound(c, "")
		return
	}
	if err != nil {
		logger.Errorf("failed to open avatar %s: %v", name, err)
		apierrors.InternalError(c, "")
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, size, "image/jpeg", rc, nil)
}
