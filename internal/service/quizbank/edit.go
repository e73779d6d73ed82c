package quizbank

import (
	"context"

	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
)

// StartRename opens the edit slot for a folder with its current name as the
// draft. Any rename already in progress is discarded.
func (m *folderTreeManager) StartRename(id string) (models.EditState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.findLocked(id)
	if !ok {
		return models.EditState{}, domain.NewNotFoundError("folder", id)
	}
	m.edit = &models.EditState{FolderID: id, Draft: f.Name}
	return *m.edit, nil
}

// UpdateDraft replaces the draft name of the rename in progress
func (m *folderTreeManager) UpdateDraft(draft string) (models.EditState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.edit == nil {
		return models.EditState{}, domain.NewValidationError("no rename in progress")
	}
	m.edit.Draft = draft
	return *m.edit, nil
}

// CommitRename writes the draft through RenameFolder, which ends the edit
func (m *folderTreeManager) CommitRename(ctx context.Context) (models.Folder, error) {
	state, ok := m.Editing()
	if !ok {
		return models.Folder{}, domain.NewValidationError("no rename in progress")
	}
	return m.RenameFolder(ctx, state.FolderID, state.Draft)
}

// CancelRename discards the rename in progress without a write
func (m *folderTreeManager) CancelRename() {
	m.mu.Lock()
	m.edit = nil
	m.mu.Unlock()
}

// Editing returns the rename in progress, if any
func (m *folderTreeManager) Editing() (models.EditState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.edit == nil {
		return models.EditState{}, false
	}
	return *m.edit, true
}

// endEdit clears the edit slot if it still belongs to id. A rename started
// on another folder meanwhile is left alone.
func (m *folderTreeManager) endEdit(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit != nil && m.edit.FolderID == id {
		m.edit = nil
	}
}
