package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
	"github.com/BuzzLyutic/task-tracker-api/internal/validation"
	"github.com/BuzzLyutic/task-tracker-api/pkg/respond"
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

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if details := typeMismatch(err); details != nil {
			respond.Validation(w, r, details)
			return
		}
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/tasks/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, details := parseListQuery(r)
	if len(details) > 0 {
		respond.Validation(w, r, details)
		return
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, result)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req model.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if details := typeMismatch(err); details != nil {
			respond.Validation(w, r, details)
			return
		}
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

// typeMismatch turns a decode failure on a named body field into validation
// details, so `"priority": "high"` reports like a bad query parameter instead
// of a generic json error. Syntax errors and unnamed mismatches return nil.
func typeMismatch(err error) map[string]string {
	var ute *json.UnmarshalTypeError
	if !errors.As(err, &ute) || ute.Field == "" {
		return nil
	}
	return map[string]string{ute.Field: typeMessage(ute.Type)}
}

func typeMessage(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "must be a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	default:
		return "is invalid"
	}
}

// parseListQuery collects every malformed query parameter so the response
// can report them all at once.
func parseListQuery(r *http.Request) (model.TaskFilter, map[string]string) {
	q := r.URL.Query()
	details := map[string]string{}
	var filter model.TaskFilter

	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			details["completed"] = "must be a boolean"
		} else {
			filter.Completed = &b
		}
	}

	if v := q.Get("priority"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			details["priority"] = "must be an integer"
		} else {
			filter.Priority = &p
		}
	}

	if v := q.Get("tags"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.Tags = append(filter.Tags, name)
			}
		}
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details["limit"] = "must be an integer"
		} else {
			filter.Limit = n
		}
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details["offset"] = "must be an integer"
		} else {
			filter.Offset = n
		}
	}

	return filter, details
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "task not found")
	case errors.As(err, &verr):
		respond.Validation(w, r, verr.Details)
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
