package board_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleError maps the error taxonomy onto HTTP statuses. Forbidden carries
// its reason code; a partial cascade reports which descendants were removed
// and which remain so the client can retry.
func handleError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindUnauthenticated:
			respondJSON(w, http.StatusUnauthorized, map[string]string{"message": appErr.Message})
		case apperror.KindNotFound:
			respondJSON(w, http.StatusNotFound, map[string]string{"message": appErr.Message, "reason": appErr.Reason})
		case apperror.KindForbidden:
			respondJSON(w, http.StatusForbidden, map[string]string{"message": appErr.Message, "reason": appErr.Reason})
		case apperror.KindValidation:
			respondJSON(w, http.StatusBadRequest, map[string]string{"message": appErr.Message})
		case apperror.KindConflict:
			respondJSON(w, http.StatusConflict, map[string]string{"message": appErr.Message})
		case apperror.KindPartialFailure:
			respondJSON(w, http.StatusInternalServerError, map[string]any{
				"message":   appErr.Message,
				"reason":    appErr.Reason,
				"deleted":   appErr.Deleted,
				"remaining": appErr.Remaining,
			})
		default:
			respondJSON(w, http.StatusInternalServerError, map[string]string{"message": appErr.Message})
		}
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": validationErrs.Error()})
		return
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
		return
	}

	respondJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}

// decodeAndValidate parses the JSON body into req and runs its validate tags.
func decodeAndValidate(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return apperror.Validation("invalid request payload")
	}
	defer r.Body.Close()
	return validate.Struct(req)
}
