package board_api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Goldexcool/TaskTrekBackend/internal/api/middlewares"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/auth_services"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/board_services"
)

type BoardHandler struct {
	Service     *board_services.BoardService
	AuthService *auth_services.AuthService
}

func NewBoardHandler(s *board_services.BoardService, a *auth_services.AuthService) *BoardHandler {
	return &BoardHandler{Service: s, AuthService: a}
}

func (h *BoardHandler) BoardRoutes(r *mux.Router) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return middlewares.AuthMiddleware(h.AuthService, fn)
	}

	r.Handle("/api/v1/teams/{teamID}/boards", auth(h.createBoard)).Methods("POST")
	r.Handle("/api/v1/teams/{teamID}/boards", auth(h.listBoards)).Methods("GET")

	boardRouter := r.PathPrefix("/api/v1/boards/{boardID}").Subrouter()
	boardRouter.Handle("", auth(h.getBoard)).Methods("GET")
	boardRouter.Handle("", auth(h.updateBoard)).Methods("PUT")
	boardRouter.Handle("", auth(h.deleteBoard)).Methods("DELETE")
	boardRouter.Handle("/members", auth(h.addMember)).Methods("POST")
	boardRouter.Handle("/members/{userID}", auth(h.removeMember)).Methods("DELETE")
}

func (h *BoardHandler) createBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	board, err := h.Service.CreateBoard(r.Context(), userID, mux.Vars(r)["teamID"], req.Title, req.Description)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, board)
}

func (h *BoardHandler) listBoards(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	boards, err := h.Service.ListBoards(r.Context(), userID, mux.Vars(r)["teamID"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) getBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	board, err := h.Service.GetBoard(r.Context(), userID, mux.Vars(r)["boardID"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) updateBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	board, err := h.Service.UpdateBoard(r.Context(), userID, mux.Vars(r)["boardID"], req.Title, req.Description)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) deleteBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteBoard(r.Context(), userID, mux.Vars(r)["boardID"]); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Board deleted successfully"})
}

func (h *BoardHandler) addMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	member, err := h.Service.AddMember(r.Context(), userID, mux.Vars(r)["boardID"], req.Email, req.Role)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

func (h *BoardHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.Service.RemoveMember(r.Context(), userID, vars["boardID"], vars["userID"]); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}
