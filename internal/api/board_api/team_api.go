package board_api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Goldexcool/TaskTrekBackend/internal/api/middlewares"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/auth_services"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/board_services"
)

type TeamHandler struct {
	Service     *board_services.TeamService
	AuthService *auth_services.AuthService
}

func NewTeamHandler(s *board_services.TeamService, a *auth_services.AuthService) *TeamHandler {
	return &TeamHandler{Service: s, AuthService: a}
}

func (h *TeamHandler) TeamRoutes(r *mux.Router) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return middlewares.AuthMiddleware(h.AuthService, fn)
	}

	r.Handle("/api/v1/teams", auth(h.createTeam)).Methods("POST")
	r.Handle("/api/v1/teams", auth(h.listTeams)).Methods("GET")

	teamRouter := r.PathPrefix("/api/v1/teams/{teamID}").Subrouter()
	teamRouter.Handle("", auth(h.getTeam)).Methods("GET")
	teamRouter.Handle("", auth(h.updateTeam)).Methods("PUT")
	teamRouter.Handle("", auth(h.deleteTeam)).Methods("DELETE")
	teamRouter.Handle("/members", auth(h.addMember)).Methods("POST")
	teamRouter.Handle("/members/{userID}", auth(h.removeMember)).Methods("DELETE")
	teamRouter.Handle("/members/{userID}/role", auth(h.changeRole)).Methods("PUT")
	teamRouter.Handle("/transfer_ownership", auth(h.transferOwnership)).Methods("POST")
}

func principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User authentication data missing", http.StatusInternalServerError)
		return "", false
	}
	return userID, true
}

func (h *TeamHandler) createTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	team, err := h.Service.CreateTeam(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) listTeams(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	teams, err := h.Service.ListTeams(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

func (h *TeamHandler) getTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	team, err := h.Service.GetTeam(r.Context(), userID, mux.Vars(r)["teamID"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) updateTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	team, err := h.Service.UpdateTeam(r.Context(), userID, mux.Vars(r)["teamID"], req.Name, req.Description)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) deleteTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTeam(r.Context(), userID, mux.Vars(r)["teamID"]); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Team deleted successfully"})
}

func (h *TeamHandler) addMember(w http.ResponseWriter, r *http.Request) {
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

	member, err := h.Service.AddMember(r.Context(), userID, mux.Vars(r)["teamID"], req.Email, req.Role)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

func (h *TeamHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.Service.RemoveMember(r.Context(), userID, vars["teamID"], vars["userID"]); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}

func (h *TeamHandler) changeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" validate:"required"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	vars := mux.Vars(r)
	if err := h.Service.ChangeRole(r.Context(), userID, vars["teamID"], vars["userID"], req.Role); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Role updated successfully"})
}

func (h *TeamHandler) transferOwnership(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"user_id" validate:"required"`
	}
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if err := h.Service.TransferOwnership(r.Context(), userID, mux.Vars(r)["teamID"], req.UserID); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Ownership transferred successfully"})
}
