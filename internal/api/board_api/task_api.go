package board_api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Goldexcool/TaskTrekBackend/internal/api/middlewares"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/auth_services"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/board_services"
)

type TaskHandler struct {
	Service     *board_services.TaskService
	AuthService *auth_services.AuthService
}

func NewTaskHandler(s *board_services.TaskService, a *auth_services.AuthService) *TaskHandler {
	return &TaskHandler{Service: s, AuthService: a}
}

func (h *TaskHandler) TaskRoutes(r *mux.Router) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return middlewares.AuthMiddleware(h.AuthService, fn)
	}

	r.Handle("/api/v1/columns/{columnID}/tasks", auth(h.createTask)).Methods("POST")

	taskRouter := r.PathPrefix("/api/v1/tasks/{taskID}").Subrouter()
	taskRouter.Handle("", auth(h.updateTask)).Methods("PUT")
	taskRouter.Handle("", auth(h.deleteTask)).Methods("DELETE")
	taskRouter.Handle("/move", auth(h.moveTask)).Methods("POST")
	taskRouter.Handle("/complete", auth(h.completeTask)).Methods("POST")
	taskRouter.Handle("/reopen", auth(h.reopenTask)).Methods("POST")
	taskRouter.Handle("/assign", auth(h.assignTask)).Methods("POST")
	taskRouter.Handle("/unassign", auth(h.unassignTask)).Methods("POST")
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		AssigneeID  string `json:"assignee_id"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	task, err := h.Service.CreateTask(r.Context(), userID, mux.Vars(r)["columnID"], board_services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    board_model.Priority(req.Priority),
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), userID, mux.Vars(r)["taskID"],
		req.Title, req.Description, board_model.Priority(req.Priority))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) moveTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		ColumnID string `json:"column_id" validate:"required"`
		Position *int   `json:"position"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	task, err := h.Service.MoveTask(r.Context(), userID, mux.Vars(r)["taskID"], req.ColumnID, req.Position)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) completeTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	task, err := h.Service.CompleteTask(r.Context(), userID, mux.Vars(r)["taskID"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) reopenTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	task, err := h.Service.ReopenTask(r.Context(), userID, mux.Vars(r)["taskID"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) assignTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		AssigneeID string `json:"assignee_id" validate:"required"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	task, err := h.Service.AssignTask(r.Context(), userID, mux.Vars(r)["taskID"], req.AssigneeID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) unassignTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	task, err := h.Service.UnassignTask(r.Context(), userID, mux.Vars(r)["taskID"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTask(r.Context(), userID, mux.Vars(r)["taskID"]); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
