package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/mileapp-task-api/internal/repo"
	"github.com/BuzzLyutic/mileapp-task-api/internal/service"
	"github.com/BuzzLyutic/mileapp-task-api/pkg/respond"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty request body")

// messages - тексты ответов для ошибок, зависящих от операции.
type messages struct {
	notFound  string
	forbidden string
	internal  string
}

func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, msg messages) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		var details any
		if verr.Field != "" {
			details = map[string]string{"field": verr.Field}
		}
		respond.ErrorWithDetails(w, r, http.StatusBadRequest, verr.Message, details)
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		respond.Error(w, r, http.StatusForbidden, msg.forbidden)
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, msg.notFound)
	case errors.Is(err, service.ErrDuplicateEmail):
		respond.Error(w, r, http.StatusConflict, "User already exists with this email")
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "conflict")
	default:
		logger.Error("internal error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respond.Error(w, r, http.StatusInternalServerError, msg.internal)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// parsePositive: пустое значение - 0 (значение по умолчанию решает сервис).
func parsePositive(field, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return 0, &service.ValidationError{Field: field, Message: field + " must be a positive integer"}
	}
	return int(v), nil
}
