package handler

import (
	"log/slog"
	"net/http"

	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
	"quizbank/internal/httputil"
)

// RosterHandler serves per-folder question rosters
type RosterHandler struct {
	manager quizSvc.FolderTreeManager
	logger  *slog.Logger
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(manager quizSvc.FolderTreeManager, logger *slog.Logger) *RosterHandler {
	return &RosterHandler{
		manager: manager,
		logger:  logger,
	}
}

type rosterResponse struct {
	FolderID      string            `json:"folder_id"`
	QuestionCount int               `json:"question_count"`
	Questions     []models.Question `json:"questions"`
}

// GetRoster returns the folder's active questions, fetching them on first use
// GET /api/folders/{id}/roster
func (h *RosterHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	roster, err := h.manager.LoadRoster(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rosterResponse{FolderID: id, QuestionCount: len(roster), Questions: roster})
}

// RefreshRoster drops the cached roster and fetches it again
// POST /api/folders/{id}/roster/refresh
func (h *RosterHandler) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	if err := h.manager.InvalidateRoster(r.Context(), id); err != nil {
		h.logger.Error("failed to invalidate roster", "folder_id", id, "error", err)
		handleError(w, err)
		return
	}

	roster, err := h.manager.LoadRoster(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rosterResponse{FolderID: id, QuestionCount: len(roster), Questions: roster})
}
