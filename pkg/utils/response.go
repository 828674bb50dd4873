package utils

import (
	"encoding/json"
	"net/http"

	"tta-backend/internal/apperrors"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Error writes an error response with the status implied by the error's
// kind: validation 422, conflict 409, not found 404, anything else 500.
func Error(w http.ResponseWriter, err error) {
	if v, ok := apperrors.AsValidation(err); ok {
		JSON(w, http.StatusUnprocessableEntity, errorBody{Error: v.Message, Field: v.Field})
		return
	}
	if apperrors.IsConflict(err) {
		JSON(w, http.StatusConflict, errorBody{Error: err.Error()})
		return
	}
	if apperrors.IsNotFound(err) {
		JSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	JSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// BadRequest writes a 400 for malformed request bodies
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: message})
}
