package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/mileapp-task-api/internal/middleware"
	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
	"github.com/BuzzLyutic/mileapp-task-api/internal/service"
	"github.com/BuzzLyutic/mileapp-task-api/pkg/respond"
)

var (
	listMessages   = messages{internal: "Server error while fetching tasks"}
	getMessages    = messages{notFound: "Task not found", forbidden: "Not authorized to access this task", internal: "Server error while fetching task"}
	createMessages = messages{internal: "Server error while creating task"}
	updateMessages = messages{notFound: "Task not found", forbidden: "Not authorized to update this task", internal: "Server error while updating task"}
	deleteMessages = messages{notFound: "Task not found", forbidden: "Not authorized to delete this task", internal: "Server error while deleting task"}
	statsMessages  = messages{internal: "Server error while fetching statistics"}
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	q, err := parseTaskQuery(r)
	if err != nil {
		h.handleErrors(w, r, err, listMessages)
		return
	}

	page, err := h.service.List(r.Context(), callerID, q)
	if err != nil {
		h.handleErrors(w, r, err, listMessages)
		return
	}
	respond.Paginated(w, r, "Tasks retrieved successfully", page.Tasks, page.Meta)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), callerID, id)
	if err != nil {
		h.handleErrors(w, r, err, getMessages)
		return
	}
	respond.Success(w, r, http.StatusOK, "Task retrieved successfully", task)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req service.TaskInput
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.Create(r.Context(), callerID, req)
	if err != nil {
		h.handleErrors(w, r, err, createMessages)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	respond.Success(w, r, http.StatusCreated, "Task created successfully", task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var patch model.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.Update(r.Context(), callerID, id, patch)
	if err != nil {
		h.handleErrors(w, r, err, updateMessages)
		return
	}
	respond.Success(w, r, http.StatusOK, "Task updated successfully", task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), callerID, id); err != nil {
		h.handleErrors(w, r, err, deleteMessages)
		return
	}
	respond.Success(w, r, http.StatusOK, "Task deleted successfully", nil)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(r.Context(), callerID)
	if err != nil {
		h.handleErrors(w, r, err, statsMessages)
		return
	}
	respond.Success(w, r, http.StatusOK, "Statistics retrieved successfully", stats)
}

func (h *TaskHandler) caller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "No token provided, authorization denied")
		return 0, false
	}
	return id.UserID, true
}

// Нечисловой id не может существовать - отвечаем 404.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}

func parseTaskQuery(r *http.Request) (model.TaskQuery, error) {
	values := r.URL.Query()

	var q model.TaskQuery
	if status := values.Get("status"); status != "" {
		q.Filter.Status = &status
	}
	if priority := values.Get("priority"); priority != "" {
		q.Filter.Priority = &priority
	}
	q.Filter.Search = values.Get("search")

	q.Sort.Field = values.Get("sortBy")
	switch values.Get("order") {
	case "", "asc":
	case "desc":
		q.Sort.Desc = true
	default:
		return q, &service.ValidationError{Field: "order", Message: "order must be asc or desc"}
	}

	var err error
	if q.Page, err = parsePositive("page", values.Get("page")); err != nil {
		return q, err
	}
	if q.Limit, err = parsePositive("limit", values.Get("limit")); err != nil {
		return q, err
	}
	return q, nil
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, msg messages) {
	writeError(w, r, h.logger, err, msg)
}
