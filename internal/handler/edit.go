package handler

import (
	"log/slog"
	"net/http"

	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
	"quizbank/internal/httputil"
)

// EditHandler exposes the single in-progress rename
type EditHandler struct {
	manager quizSvc.FolderTreeManager
	logger  *slog.Logger
}

// NewEditHandler creates a new edit handler
func NewEditHandler(manager quizSvc.FolderTreeManager, logger *slog.Logger) *EditHandler {
	return &EditHandler{
		manager: manager,
		logger:  logger,
	}
}

type editResponse struct {
	Editing bool `json:"editing"`
	*models.EditState
}

type updateDraftRequest struct {
	Draft string `json:"draft"`
}

// StartEdit opens the edit slot on a folder, replacing any other rename
// POST /api/folders/{id}/edit
func (h *EditHandler) StartEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	state, err := h.manager.StartRename(id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, editResponse{Editing: true, EditState: &state})
}

// GetEdit returns the rename in progress, if any
// GET /api/edit
func (h *EditHandler) GetEdit(w http.ResponseWriter, r *http.Request) {
	state, ok := h.manager.Editing()
	if !ok {
		httputil.RespondJSON(w, http.StatusOK, editResponse{})
		return
	}
	httputil.RespondJSON(w, http.StatusOK, editResponse{Editing: true, EditState: &state})
}

// UpdateDraft replaces the draft name
// PATCH /api/edit
func (h *EditHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req updateDraftRequest
	if !parseBody(w, r, &req) {
		return
	}

	state, err := h.manager.UpdateDraft(req.Draft)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, editResponse{Editing: true, EditState: &state})
}

// CommitEdit writes the draft and closes the edit slot
// POST /api/edit/commit
func (h *EditHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	folder, err := h.manager.CommitRename(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// CancelEdit discards the rename in progress
// DELETE /api/edit
func (h *EditHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.manager.CancelRename()
	w.WriteHeader(http.StatusNoContent)
}
