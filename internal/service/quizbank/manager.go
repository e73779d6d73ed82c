package quizbank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"quizbank/internal/config"
	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
	quizRepo "quizbank/internal/domain/repositories/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
)

// ManagerOptions tunes the folder tree manager
type ManagerOptions struct {
	// FetchConcurrency bounds the roster fetches issued by SaturateRosters
	FetchConcurrency int
}

// folderTreeManager implements the FolderTreeManager interface.
//
// mu guards folders, expanded and edit. It is never held across a repository
// call: each mutation validates under the lock, calls the store unlocked, then
// applies the result under the lock again.
type folderTreeManager struct {
	folderRepo   quizRepo.FolderRepository
	categoryRepo quizRepo.CategoryRepository
	questionRepo quizRepo.QuestionRepository
	rosters      quizSvc.RosterCache
	fetches      singleflight.Group
	concurrency  int
	logger       *slog.Logger

	mu       sync.RWMutex
	folders  []models.Folder
	expanded map[string]struct{}
	edit     *models.EditState
}

// NewFolderTreeManager creates a new folder tree manager. The folder list is
// empty until Load is called.
func NewFolderTreeManager(
	folderRepo quizRepo.FolderRepository,
	categoryRepo quizRepo.CategoryRepository,
	questionRepo quizRepo.QuestionRepository,
	rosters quizSvc.RosterCache,
	opts ManagerOptions,
	logger *slog.Logger,
) quizSvc.FolderTreeManager {
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = config.DefaultRosterFetchConcurrency
	}
	return &folderTreeManager{
		folderRepo:   folderRepo,
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
		rosters:      rosters,
		concurrency:  opts.FetchConcurrency,
		logger:       logger,
		folders:      []models.Folder{},
		expanded:     make(map[string]struct{}),
	}
}

// Load fetches all folders and replaces the flat collection
func (m *folderTreeManager) Load(ctx context.Context) error {
	folders, err := m.folderRepo.ListAll(ctx)
	if err != nil {
		m.logger.Error("failed to load folders", "error", err)
		return fmt.Errorf("%w: folders: %w", domain.ErrLoad, err)
	}

	present := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		present[f.ID] = struct{}{}
	}

	m.mu.Lock()
	m.folders = folders
	// Folders deleted elsewhere drop out of the derived state too
	for id := range m.expanded {
		if _, ok := present[id]; !ok {
			delete(m.expanded, id)
		}
	}
	if m.edit != nil {
		if _, ok := present[m.edit.FolderID]; !ok {
			m.edit = nil
		}
	}
	m.mu.Unlock()

	m.logger.Info("folders loaded", "folder_count", len(folders))
	return nil
}

// Refresh reloads the folder list, then fills any missing roster entries
func (m *folderTreeManager) Refresh(ctx context.Context) error {
	if err := m.Load(ctx); err != nil {
		return err
	}
	return m.SaturateRosters(ctx)
}

// Folders returns a copy of the flat collection in creation order
func (m *folderTreeManager) Folders() []models.Folder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Folder(nil), m.folders...)
}

// Folder looks up a single folder by id
func (m *folderTreeManager) Folder(id string) (models.Folder, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLocked(id)
}

func (m *folderTreeManager) Children(id string) []models.Folder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return DeriveChildren(m.folders, id)
}

func (m *folderTreeManager) Roots() []models.Folder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return DeriveRoots(m.folders)
}

// VisibleTree returns one row per folder reachable through expanded ancestors.
// Loaded folders without a cached roster are fetched first; a folder whose
// fetch fails again is shown without one and retried on the next call.
func (m *folderTreeManager) VisibleTree(ctx context.Context) []models.TreeRow {
	_ = m.SaturateRosters(ctx)

	m.mu.RLock()
	rows := make([]models.TreeRow, 0, len(m.folders))
	walkVisible(m.folders, m.isExpandedLocked, func(f models.Folder, depth int, hasChildren bool) {
		row := models.TreeRow{
			Folder:      f,
			Depth:       depth,
			HasChildren: hasChildren,
			Expanded:    m.isExpandedLocked(f.ID),
		}
		if m.edit != nil && m.edit.FolderID == f.ID {
			row.Editing = true
			row.Draft = m.edit.Draft
		}
		rows = append(rows, row)
	})
	m.mu.RUnlock()

	// Roster lookups may be remote, so they happen after the lock is released
	for i := range rows {
		roster, ok := m.Roster(ctx, rows[i].Folder.ID)
		rows[i].RosterLoaded = ok
		rows[i].QuestionCount = len(roster)
		rows[i].CanExport = len(roster) > 0
	}

	return rows
}

// Forest returns every folder nested under its parent
func (m *folderTreeManager) Forest() []*models.FolderTreeNode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return BuildForest(m.folders)
}

// ToggleExpanded flips the folder's expansion and reports the new state.
// Any id is accepted, including leaves.
func (m *folderTreeManager) ToggleExpanded(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expanded[id]; ok {
		delete(m.expanded, id)
		return false
	}
	m.expanded[id] = struct{}{}
	return true
}

func (m *folderTreeManager) IsExpanded(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isExpandedLocked(id)
}

// Expanded lists the expanded folder ids in sorted order
func (m *folderTreeManager) Expanded() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.expanded))
	for id := range m.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *folderTreeManager) isExpandedLocked(id string) bool {
	_, ok := m.expanded[id]
	return ok
}

func (m *folderTreeManager) findLocked(id string) (models.Folder, bool) {
	for _, f := range m.folders {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}

func (m *folderTreeManager) exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.findLocked(id)
	return ok
}

// lookup returns the folder or a NotFoundError
func (m *folderTreeManager) lookup(id string) (models.Folder, error) {
	f, ok := m.Folder(id)
	if !ok {
		return models.Folder{}, domain.NewNotFoundError("folder", id)
	}
	return f, nil
}
