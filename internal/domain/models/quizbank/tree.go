package quizbank

import "time"

// TreeRow is one visible line of the folder tree: a folder reached by a pre-order
// walk that only descends into expanded folders.
type TreeRow struct {
	Folder        Folder `json:"folder"`
	Depth         int    `json:"depth"`
	HasChildren   bool   `json:"has_children"`
	Expanded      bool   `json:"expanded"`
	RosterLoaded  bool   `json:"roster_loaded"`
	QuestionCount int    `json:"question_count"`
	CanExport     bool   `json:"can_export"`
	Editing       bool   `json:"editing"`
	Draft         string `json:"draft,omitempty"`
}

// FolderTreeNode represents a folder in the full tree with nested children
type FolderTreeNode struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	ParentFolderID *string           `json:"parent_folder_id"`
	IsEnabled      bool              `json:"is_enabled"`
	CreatedAt      time.Time         `json:"created_at"`
	Folders        []*FolderTreeNode `json:"folders"` // Pointers for proper nesting
}

// EditState is the single in-progress rename.
type EditState struct {
	FolderID string `json:"folder_id"`
	Draft    string `json:"draft"`
}
