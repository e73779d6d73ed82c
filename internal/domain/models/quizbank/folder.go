package quizbank

import (
	"time"
)

type Folder struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	IsEnabled      bool      `json:"is_enabled" db:"is_enabled"`
	ParentFolderID *string   `json:"parent_folder_id" db:"parent_folder_id"` // NULL = root level
}

// IsRoot reports whether the folder sits at the top of the forest.
func (f *Folder) IsRoot() bool {
	return f.ParentFolderID == nil
}

// IsChildOf reports whether parentID is the folder's direct parent.
func (f *Folder) IsChildOf(parentID string) bool {
	return f.ParentFolderID != nil && *f.ParentFolderID == parentID
}

// FolderPatch is a partial update applied by id. Nil fields are left unchanged.
type FolderPatch struct {
	Name      *string `json:"name,omitempty"`
	IsEnabled *bool   `json:"is_enabled,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p *FolderPatch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.IsEnabled == nil)
}

// Apply copies the patched fields onto f.
func (p *FolderPatch) Apply(f *Folder) {
	if p == nil {
		return
	}
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.IsEnabled != nil {
		f.IsEnabled = *p.IsEnabled
	}
}
