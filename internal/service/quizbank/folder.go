package quizbank

import (
	"context"
	"fmt"
	"strings"

	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
)

// CreateFolder inserts an enabled folder, then appends it, initializes its
// roster and expands its parent so the new child is visible.
func (m *folderTreeManager) CreateFolder(ctx context.Context, name string, parentID *string) (models.Folder, error) {
	trimmed, err := normalizeFolderName(name)
	if err != nil {
		return models.Folder{}, err
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil && !m.exists(*parentID) {
		return models.Folder{}, domain.NewNotFoundError("parent folder", *parentID)
	}

	folder := &models.Folder{
		Name:           trimmed,
		IsEnabled:      true,
		ParentFolderID: parentID,
	}
	if err := m.folderRepo.Create(ctx, folder); err != nil {
		m.logger.Error("failed to create folder", "name", trimmed, "parent_folder_id", parentID, "error", err)
		return models.Folder{}, fmt.Errorf("%w: create folder: %w", domain.ErrWrite, err)
	}

	m.mu.Lock()
	m.folders = append(m.folders, *folder)
	if parentID != nil {
		m.expanded[*parentID] = struct{}{}
	}
	m.mu.Unlock()

	// A brand-new folder has no categories unless another client raced us;
	// on a failed fetch the roster is recorded as empty.
	if _, err := m.LoadRoster(ctx, folder.ID); err != nil {
		m.logger.Warn("initializing empty roster", "folder_id", folder.ID, "error", err)
		m.storeRoster(ctx, folder.ID, []models.Question{})
	}

	m.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_folder_id", folder.ParentFolderID,
	)

	return *folder, nil
}

// RenameFolder writes the trimmed name. A blank name abandons the rename:
// no write happens and the current folder is returned. The edit slot for the
// folder is cleared once the call resolves, whatever the outcome.
func (m *folderTreeManager) RenameFolder(ctx context.Context, id, newName string) (models.Folder, error) {
	current, err := m.lookup(id)
	if err != nil {
		return models.Folder{}, err
	}
	defer m.endEdit(id)

	if strings.TrimSpace(newName) == "" {
		m.logger.Debug("rename abandoned", "id", id)
		return current, nil
	}
	trimmed, err := normalizeFolderName(newName)
	if err != nil {
		return models.Folder{}, err
	}

	updated, err := m.patchFolder(ctx, id, &models.FolderPatch{Name: &trimmed})
	if err != nil {
		return models.Folder{}, err
	}

	m.logger.Info("folder renamed", "id", id, "old_name", current.Name, "new_name", trimmed)
	return updated, nil
}

// UpdateFolder applies a rename and an enabled change in one store write.
// Both fields are validated before anything is written. A blank name drops
// the rename part as RenameFolder does; any rename in progress on the
// folder ends when the call resolves.
func (m *folderTreeManager) UpdateFolder(ctx context.Context, id string, name *string, enabled *bool) (models.Folder, error) {
	current, err := m.lookup(id)
	if err != nil {
		return models.Folder{}, err
	}
	if name == nil && enabled == nil {
		return models.Folder{}, domain.NewValidationError("folder update has no fields")
	}

	patch := &models.FolderPatch{IsEnabled: enabled}
	if name != nil {
		defer m.endEdit(id)
		if strings.TrimSpace(*name) != "" {
			trimmed, err := normalizeFolderName(*name)
			if err != nil {
				return models.Folder{}, err
			}
			patch.Name = &trimmed
		}
	}
	if patch.IsEmpty() {
		m.logger.Debug("rename abandoned", "id", id)
		return current, nil
	}

	updated, err := m.patchFolder(ctx, id, patch)
	if err != nil {
		return models.Folder{}, err
	}

	m.logger.Info("folder updated", "id", id, "name", updated.Name, "is_enabled", updated.IsEnabled)
	return updated, nil
}

// SetFolderEnabled writes is_enabled. Descendants and cached rosters are left alone.
func (m *folderTreeManager) SetFolderEnabled(ctx context.Context, id string, enabled bool) (models.Folder, error) {
	if _, err := m.lookup(id); err != nil {
		return models.Folder{}, err
	}

	updated, err := m.patchFolder(ctx, id, &models.FolderPatch{IsEnabled: &enabled})
	if err != nil {
		return models.Folder{}, err
	}

	m.logger.Info("folder enabled state changed", "id", id, "is_enabled", enabled)
	return updated, nil
}

// ToggleFolderEnabled flips is_enabled
func (m *folderTreeManager) ToggleFolderEnabled(ctx context.Context, id string) (models.Folder, error) {
	current, err := m.lookup(id)
	if err != nil {
		return models.Folder{}, err
	}
	return m.SetFolderEnabled(ctx, id, !current.IsEnabled)
}

// patchFolder writes the patch remotely, then applies it to the matching record
func (m *folderTreeManager) patchFolder(ctx context.Context, id string, patch *models.FolderPatch) (models.Folder, error) {
	if err := m.folderRepo.Update(ctx, id, patch); err != nil {
		m.logger.Error("failed to update folder", "id", id, "error", err)
		return models.Folder{}, fmt.Errorf("%w: update folder: %w", domain.ErrWrite, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.folders {
		if m.folders[i].ID == id {
			patch.Apply(&m.folders[i])
			return m.folders[i], nil
		}
	}
	// Removed by a concurrent reload; the write itself succeeded
	return models.Folder{}, domain.NewNotFoundError("folder", id)
}

// DeleteFolder deletes a folder that has no subfolders and no categories.
// Subfolders are checked against the loaded collection and refuse the delete
// without any store call. Categories are counted fresh from the store.
// The check and the delete are not atomic; the store's foreign keys reject a
// delete that races a category insert.
func (m *folderTreeManager) DeleteFolder(ctx context.Context, id string) error {
	m.mu.RLock()
	_, ok := m.findLocked(id)
	children := DeriveChildren(m.folders, id)
	m.mu.RUnlock()

	if !ok {
		return domain.NewNotFoundError("folder", id)
	}
	if len(children) > 0 {
		return &domain.GuardError{Reason: domain.GuardChildren, FolderID: id, Count: len(children)}
	}

	count, err := m.categoryRepo.CountByFolder(ctx, id)
	if err != nil {
		m.logger.Error("failed to count categories", "id", id, "error", err)
		return fmt.Errorf("%w: count categories: %w", domain.ErrLoad, err)
	}
	if count > 0 {
		return &domain.GuardError{Reason: domain.GuardCategories, FolderID: id, Count: count}
	}

	if err := m.folderRepo.Delete(ctx, id); err != nil {
		m.logger.Error("failed to delete folder", "id", id, "error", err)
		return fmt.Errorf("%w: delete folder: %w", domain.ErrWrite, err)
	}

	m.mu.Lock()
	for i := range m.folders {
		if m.folders[i].ID == id {
			m.folders = append(m.folders[:i], m.folders[i+1:]...)
			break
		}
	}
	delete(m.expanded, id)
	if m.edit != nil && m.edit.FolderID == id {
		m.edit = nil
	}
	m.mu.Unlock()

	if err := m.rosters.Invalidate(ctx, id); err != nil {
		m.logger.Warn("failed to drop roster of deleted folder", "id", id, "error", err)
	}

	m.logger.Info("folder deleted", "id", id)
	return nil
}
