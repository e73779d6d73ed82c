package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
	"quizbank/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	manager quizSvc.FolderTreeManager
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(manager quizSvc.FolderTreeManager, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		manager: manager,
		logger:  logger,
	}
}

type createFolderRequest struct {
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parent_folder_id"`
}

type updateFolderRequest struct {
	Name      *string `json:"name"`
	IsEnabled *bool   `json:"is_enabled"`
}

type rosterSummary struct {
	Loaded        bool `json:"loaded"`
	QuestionCount int  `json:"question_count"`
}

type folderDetail struct {
	models.Folder
	Children []models.Folder `json:"children"`
	Expanded bool            `json:"expanded"`
	Roster   rosterSummary   `json:"roster"`
}

// ListFolders returns the flat folder collection in creation order
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.manager.Folders())
}

// CreateFolder creates a new enabled folder
// POST /api/folders
// An absent or null parent_folder_id creates a root folder.
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if !parseBody(w, r, &req) {
		return
	}

	if req.ParentFolderID != nil && *req.ParentFolderID != "" {
		if _, err := uuid.Parse(*req.ParentFolderID); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "parent_folder_id must be a UUID")
			return
		}
	}

	folder, err := h.manager.CreateFolder(r.Context(), req.Name, req.ParentFolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("folder created",
		"folder_id", folder.ID,
		"parent_folder_id", folder.ParentFolderID,
		"user_id", httputil.GetUserID(r),
	)
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder returns a folder with its children and roster summary
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	folder, found := h.manager.Folder(id)
	if !found {
		httputil.RespondError(w, http.StatusNotFound, "folder "+id+": not found")
		return
	}

	roster, loaded := h.manager.Roster(r.Context(), id)
	httputil.RespondJSON(w, http.StatusOK, folderDetail{
		Folder:   folder,
		Children: h.manager.Children(id),
		Expanded: h.manager.IsExpanded(id),
		Roster:   rosterSummary{Loaded: loaded, QuestionCount: len(roster)},
	})
}

// UpdateFolder renames a folder and/or sets its enabled flag
// PATCH /api/folders/{id}
// A blank name abandons the rename and leaves the folder unchanged.
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	var req updateFolderRequest
	if !parseBody(w, r, &req) {
		return
	}
	if req.Name == nil && req.IsEnabled == nil {
		httputil.RespondError(w, http.StatusBadRequest, "nothing to update: provide name and/or is_enabled")
		return
	}

	folder, err := h.manager.UpdateFolder(r.Context(), id, req.Name, req.IsEnabled)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder that has no subfolders and no categories
// DELETE /api/folders/{id}
// Returns 409 with a reason of "children" or "categories" when blocked.
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	if err := h.manager.DeleteFolder(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("folder deleted",
		"folder_id", id,
		"user_id", httputil.GetUserID(r),
		"email", httputil.GetEmail(r),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleEnabled flips a folder's enabled flag
// POST /api/folders/{id}/toggle-enabled
func (h *FolderHandler) ToggleEnabled(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	folder, err := h.manager.ToggleFolderEnabled(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}
