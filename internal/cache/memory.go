package cache

import (
	"context"
	"sync"
	"time"

	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
)

type rosterEntry struct {
	questions []models.Question
	storedAt  time.Time
}

// MemoryRosterCache keeps rosters in process memory. A zero TTL keeps an
// entry until it is invalidated.
type MemoryRosterCache struct {
	mu      sync.RWMutex
	entries map[string]rosterEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryRosterCache creates an in-process roster cache
func NewMemoryRosterCache(ttl time.Duration) *MemoryRosterCache {
	return &MemoryRosterCache{
		entries: make(map[string]rosterEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

var _ quizSvc.RosterCache = (*MemoryRosterCache)(nil)

func (c *MemoryRosterCache) Get(_ context.Context, folderID string) ([]models.Question, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[folderID]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		// Only evict if nobody stored a fresher roster meanwhile
		if cur, ok := c.entries[folderID]; ok && cur.storedAt.Equal(entry.storedAt) {
			delete(c.entries, folderID)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return cloneRoster(entry.questions), true, nil
}

func (c *MemoryRosterCache) Set(_ context.Context, folderID string, roster []models.Question) error {
	c.mu.Lock()
	c.entries[folderID] = rosterEntry{questions: cloneRoster(roster), storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

func (c *MemoryRosterCache) Invalidate(_ context.Context, folderID string) error {
	c.mu.Lock()
	delete(c.entries, folderID)
	c.mu.Unlock()
	return nil
}

func (c *MemoryRosterCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]rosterEntry)
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included
func (c *MemoryRosterCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cloneRoster copies the slice so callers cannot mutate cached state.
// An empty roster stays non-nil.
func cloneRoster(roster []models.Question) []models.Question {
	out := make([]models.Question, len(roster))
	copy(out, roster)
	return out
}
