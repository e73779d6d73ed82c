package handler

import (
	"errors"
	"net/http"

	"quizbank/internal/domain"
	"quizbank/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		guardErr    *domain.GuardError
		conflictErr *domain.ConflictError
	)

	switch {
	case errors.As(err, &guardErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, guardErr.Error(), map[string]interface{}{
			"reason":    guardErr.Reason,
			"folder_id": guardErr.FolderID,
			"count":     guardErr.Count,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrLoad):
		httputil.RespondError(w, http.StatusBadGateway, "could not load from the question store")
	case errors.Is(err, domain.ErrWrite):
		httputil.RespondError(w, http.StatusBadGateway, "the question store rejected the change")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
