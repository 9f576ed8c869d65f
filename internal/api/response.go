package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/VitaminP8/postboard/internal/access"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// handleServiceError переводит ошибки сервисов в HTTP-ответ.
// op - сообщение для непредвиденной ошибки ("Error creating comment"), детали только в лог.
func handleServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, access.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")

	case access.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())

	case access.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())

	case access.IsForbidden(err):
		writeError(w, http.StatusForbidden, err.Error())

	default:
		log.Printf("%s: %v", op, err)
		writeError(w, http.StatusInternalServerError, op)
	}
}

// decode читает JSON-тело; битое тело - непредвиденная ошибка, как и в остальных обработчиках
func decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("%s: invalid request body: %v", op, err)
		writeError(w, http.StatusInternalServerError, op)
		return false
	}
	return true
}

// idParam - ID из пути. Нечисловой ID превращается в 0, которого нет ни в одном хранилище,
// поэтому порядок проверок (пользователь, существование, авторство) не меняется.
func idParam(r *http.Request, name string) uint {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
