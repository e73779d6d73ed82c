package handler

import "net/http"

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Health *HealthHandler
	Folder *FolderHandler
	Tree   *TreeHandler
	Edit   *EditHandler
	Roster *RosterHandler
	Export *ExportHandler
}

// Register mounts all routes on mux (Go 1.22+ method and wildcard patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Tree views
	mux.HandleFunc("POST /api/reload", h.Tree.Reload)
	mux.HandleFunc("GET /api/tree", h.Tree.GetTree)
	mux.HandleFunc("GET /api/tree/full", h.Tree.GetForest)

	// Folder routes
	mux.HandleFunc("GET /api/folders", h.Folder.ListFolders)
	mux.HandleFunc("POST /api/folders", h.Folder.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.Folder.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folder.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folder.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/toggle-enabled", h.Folder.ToggleEnabled)
	mux.HandleFunc("POST /api/folders/{id}/toggle-expanded", h.Tree.ToggleExpanded)

	// Edit slot
	mux.HandleFunc("POST /api/folders/{id}/edit", h.Edit.StartEdit)
	mux.HandleFunc("GET /api/edit", h.Edit.GetEdit)
	mux.HandleFunc("PATCH /api/edit", h.Edit.UpdateDraft)
	mux.HandleFunc("POST /api/edit/commit", h.Edit.CommitEdit)
	mux.HandleFunc("DELETE /api/edit", h.Edit.CancelEdit)

	// Rosters and export
	mux.HandleFunc("GET /api/folders/{id}/roster", h.Roster.GetRoster)
	mux.HandleFunc("POST /api/folders/{id}/roster/refresh", h.Roster.RefreshRoster)
	mux.HandleFunc("DELETE /api/rosters", h.Tree.ClearRosters)
	mux.HandleFunc("GET /api/folders/{id}/export", h.Export.Export)
}
