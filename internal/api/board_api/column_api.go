package board_api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Goldexcool/TaskTrekBackend/internal/api/middlewares"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/auth_services"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/board_services"
)

type ColumnHandler struct {
	Service     *board_services.ColumnService
	AuthService *auth_services.AuthService
}

func NewColumnHandler(s *board_services.ColumnService, a *auth_services.AuthService) *ColumnHandler {
	return &ColumnHandler{Service: s, AuthService: a}
}

func (h *ColumnHandler) ColumnRoutes(r *mux.Router) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return middlewares.AuthMiddleware(h.AuthService, fn)
	}

	r.Handle("/api/v1/boards/{boardID}/columns", auth(h.createColumn)).Methods("POST")

	columnRouter := r.PathPrefix("/api/v1/columns/{columnID}").Subrouter()
	columnRouter.Handle("", auth(h.renameColumn)).Methods("PUT")
	columnRouter.Handle("", auth(h.deleteColumn)).Methods("DELETE")
	columnRouter.Handle("/position", auth(h.moveColumn)).Methods("PUT")
}

func (h *ColumnHandler) createColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" validate:"required"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	column, err := h.Service.CreateColumn(r.Context(), userID, mux.Vars(r)["boardID"], req.Title)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, column)
}

func (h *ColumnHandler) renameColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" validate:"required"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	column, err := h.Service.RenameColumn(r.Context(), userID, mux.Vars(r)["columnID"], req.Title)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, column)
}

func (h *ColumnHandler) moveColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Position int `json:"position"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	column, err := h.Service.MoveColumn(r.Context(), userID, mux.Vars(r)["columnID"], req.Position)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, column)
}

func (h *ColumnHandler) deleteColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteColumn(r.Context(), userID, mux.Vars(r)["columnID"]); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Column deleted successfully"})
}
