package quizbank

import (
	"context"

	models "quizbank/internal/domain/models/quizbank"
)

// FolderTreeManager owns the in-memory folder tree and mediates every mutation
// against the remote store. Local state changes only after a remote write succeeds.
type FolderTreeManager interface {
	// Load fetches every folder (oldest first) and replaces the flat collection.
	// On failure the previously loaded folders are kept.
	Load(ctx context.Context) error

	// Refresh reloads folders then fills any missing roster entries
	Refresh(ctx context.Context) error

	Folders() []models.Folder
	Folder(id string) (models.Folder, bool)

	// Children and Roots are derived from the flat collection on every call
	Children(id string) []models.Folder
	Roots() []models.Folder

	// VisibleTree walks the forest depth-first, descending only into expanded folders.
	// Missing rosters of loaded folders are fetched before the rows are built.
	VisibleTree(ctx context.Context) []models.TreeRow

	// Forest returns the whole nested tree regardless of expansion
	Forest() []*models.FolderTreeNode

	// LoadRoster returns the folder's active questions from its enabled categories,
	// fetching and caching them on first use
	LoadRoster(ctx context.Context, folderID string) ([]models.Question, error)

	// SaturateRosters loads a roster for every loaded folder that lacks one
	SaturateRosters(ctx context.Context) error

	// RebuildRosters refetches every loaded folder's roster over its cached entry.
	// Entries whose refetch fails are left as they were.
	RebuildRosters(ctx context.Context) error

	// Roster returns the cached roster without fetching
	Roster(ctx context.Context, folderID string) ([]models.Question, bool)

	InvalidateRoster(ctx context.Context, folderID string) error
	InvalidateAllRosters(ctx context.Context) error

	// CreateFolder creates an enabled folder under parentID (nil for a root)
	CreateFolder(ctx context.Context, name string, parentID *string) (models.Folder, error)

	// RenameFolder writes the trimmed name. A blank name abandons the rename without a write.
	RenameFolder(ctx context.Context, id, newName string) (models.Folder, error)

	// UpdateFolder validates a rename and an enabled change together, then writes them at once
	UpdateFolder(ctx context.Context, id string, name *string, enabled *bool) (models.Folder, error)

	SetFolderEnabled(ctx context.Context, id string, enabled bool) (models.Folder, error)
	ToggleFolderEnabled(ctx context.Context, id string) (models.Folder, error)

	// DeleteFolder deletes an empty folder. Folders with subfolders or categories are refused.
	DeleteFolder(ctx context.Context, id string) error

	// Edit slot: at most one folder is being renamed at a time
	StartRename(id string) (models.EditState, error)
	UpdateDraft(draft string) (models.EditState, error)
	CommitRename(ctx context.Context) (models.Folder, error)
	CancelRename()
	Editing() (models.EditState, bool)

	ToggleExpanded(id string) bool
	IsExpanded(id string) bool
	Expanded() []string
}

// RosterCache stores per-folder question rosters.
// A miss is reported as ok == false with a nil error.
type RosterCache interface {
	Get(ctx context.Context, folderID string) (roster []models.Question, ok bool, err error)
	Set(ctx context.Context, folderID string, roster []models.Question) error
	Invalidate(ctx context.Context, folderID string) error
	InvalidateAll(ctx context.Context) error
}
