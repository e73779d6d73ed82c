package handler

import (
	"log/slog"
	"net/http"

	quizSvc "quizbank/internal/domain/services/quizbank"
	"quizbank/internal/httputil"
)

// TreeHandler serves the folder tree views
type TreeHandler struct {
	manager quizSvc.FolderTreeManager
	logger  *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(manager quizSvc.FolderTreeManager, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		manager: manager,
		logger:  logger,
	}
}

// GetTree returns the visible rows: roots plus the children of expanded folders
// GET /api/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.manager.VisibleTree(r.Context()))
}

// GetForest returns every folder nested under its parent
// GET /api/tree/full
func (h *TreeHandler) GetForest(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.manager.Forest())
}

// ToggleExpanded flips a folder's expansion. Any id is accepted, including leaves.
// POST /api/folders/{id}/toggle-expanded
func (h *TreeHandler) ToggleExpanded(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	expanded := h.manager.ToggleExpanded(id)
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"folder_id": id,
		"expanded":  expanded,
	})
}

// Reload refetches all folders and fills missing rosters.
// With ?rebuild=true every roster is refetched over its cached entry instead;
// a roster whose refetch fails keeps its previous contents.
// POST /api/reload
func (h *TreeHandler) Reload(w http.ResponseWriter, r *http.Request) {
	rebuild, err := httputil.QueryBool(r, "rebuild")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if rebuild {
		err = h.manager.Load(r.Context())
		if err == nil {
			err = h.manager.RebuildRosters(r.Context())
		}
	} else {
		err = h.manager.Refresh(r.Context())
	}
	if err != nil {
		h.logger.Warn("reload incomplete", "rebuild", rebuild, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"folder_count": len(h.manager.Folders()),
	})
}

// ClearRosters drops every cached roster. The next tree view refills them.
// DELETE /api/rosters
func (h *TreeHandler) ClearRosters(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.InvalidateAllRosters(r.Context()); err != nil {
		h.logger.Error("failed to clear rosters", "error", err)
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
