package quizbank

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"quizbank/internal/config"
	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
)

// LoadRoster returns the folder's roster, fetching it on a cache miss.
// A failed fetch stores nothing so the next saturation retries it.
func (m *folderTreeManager) LoadRoster(ctx context.Context, folderID string) ([]models.Question, error) {
	if !m.exists(folderID) {
		return nil, domain.NewNotFoundError("folder", folderID)
	}

	if roster, ok := m.Roster(ctx, folderID); ok {
		return roster, nil
	}
	return m.sharedFetch(ctx, folderID)
}

// sharedFetch joins concurrent fetches of one folder into a single store
// round-trip. The fetch outlives a cancelled caller so the other waiters and
// the cache still get its result; each caller stops waiting on its own ctx.
func (m *folderTreeManager) sharedFetch(ctx context.Context, folderID string) ([]models.Question, error) {
	ch := m.fetches.DoChan(folderID, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.RosterFetchTimeout)
		defer cancel()
		return m.fetchRoster(fetchCtx, folderID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Question), nil
	}
}

func (m *folderTreeManager) fetchRoster(ctx context.Context, folderID string) ([]models.Question, error) {
	categories, err := m.categoryRepo.ListEnabledByFolder(ctx, folderID)
	if err != nil {
		m.logger.Warn("failed to load categories", "folder_id", folderID, "error", err)
		return nil, fmt.Errorf("%w: categories of folder %s: %w", domain.ErrLoad, folderID, err)
	}

	roster := []models.Question{}
	if len(categories) > 0 {
		ids := make([]string, len(categories))
		for i, c := range categories {
			ids[i] = c.ID
		}
		roster, err = m.questionRepo.ListActiveByCategories(ctx, ids)
		if err != nil {
			m.logger.Warn("failed to load questions", "folder_id", folderID, "error", err)
			return nil, fmt.Errorf("%w: questions of folder %s: %w", domain.ErrLoad, folderID, err)
		}
	}

	m.storeRoster(ctx, folderID, roster)
	return roster, nil
}

// storeRoster caches the roster unless the folder was removed while it was
// being fetched. The second check covers a delete that lands during Set.
func (m *folderTreeManager) storeRoster(ctx context.Context, folderID string, roster []models.Question) {
	if !m.exists(folderID) {
		m.logger.Debug("dropping roster for removed folder", "folder_id", folderID)
		return
	}
	if err := m.rosters.Set(ctx, folderID, roster); err != nil {
		m.logger.Warn("failed to cache roster", "folder_id", folderID, "error", err)
		return
	}
	if !m.exists(folderID) {
		if err := m.rosters.Invalidate(ctx, folderID); err != nil {
			m.logger.Warn("failed to drop roster", "folder_id", folderID, "error", err)
		}
	}
}

// Roster returns the cached roster. Cache errors count as a miss.
func (m *folderTreeManager) Roster(ctx context.Context, folderID string) ([]models.Question, bool) {
	roster, ok, err := m.rosters.Get(ctx, folderID)
	if err != nil {
		m.logger.Warn("roster cache read failed", "folder_id", folderID, "error", err)
		return nil, false
	}
	return roster, ok
}

// SaturateRosters loads every missing roster, at most m.concurrency at a time.
// Completions are unordered. All failures are returned joined.
func (m *folderTreeManager) SaturateRosters(ctx context.Context) error {
	return m.fillRosters(ctx, false)
}

// RebuildRosters refetches the roster of every loaded folder and writes it
// over the cached entry. A folder whose fetch fails keeps its previous roster.
func (m *folderTreeManager) RebuildRosters(ctx context.Context) error {
	return m.fillRosters(ctx, true)
}

func (m *folderTreeManager) fillRosters(ctx context.Context, overwrite bool) error {
	m.mu.RLock()
	ids := make([]string, len(m.folders))
	for i, f := range m.folders {
		ids[i] = f.ID
	}
	m.mu.RUnlock()

	var (
		g     errgroup.Group
		errMu sync.Mutex
		errs  []error
	)
	g.SetLimit(m.concurrency)

	for _, id := range ids {
		if !overwrite {
			if _, ok := m.Roster(ctx, id); ok {
				continue
			}
		}
		g.Go(func() error {
			if _, err := m.sharedFetch(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		m.logger.Warn("roster fill incomplete", "failed", len(errs), "folder_count", len(ids), "overwrite", overwrite)
	}
	return errors.Join(errs...)
}

// InvalidateRoster drops one folder's cached roster
func (m *folderTreeManager) InvalidateRoster(ctx context.Context, folderID string) error {
	if err := m.rosters.Invalidate(ctx, folderID); err != nil {
		return fmt.Errorf("invalidate roster %s: %w", folderID, err)
	}
	return nil
}

// InvalidateAllRosters drops every cached roster
func (m *folderTreeManager) InvalidateAllRosters(ctx context.Context) error {
	if err := m.rosters.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidate rosters: %w", err)
	}
	m.logger.Info("roster cache cleared")
	return nil
}
