package respond

import (
	"encoding/json"
	"net/http"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, r *http.Request, code int, message string, data any) {
	JSON(w, r, code, Envelope{Success: true, Message: message, Data: data})
}

func Paginated(w http.ResponseWriter, r *http.Request, message string, data, meta any) {
	JSON(w, r, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Meta: meta})
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	ErrorWithDetails(w, r, code, message, nil)
}

func ErrorWithDetails(w http.ResponseWriter, r *http.Request, code int, message string, details any) {
	JSON(w, r, code, ErrorEnvelope{Error: ErrorBody{Message: message, Details: details}})
}
