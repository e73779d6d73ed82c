package quizbank

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"quizbank/internal/cache"
	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
)

// fakeStore is an in-memory remote store that counts every call
type fakeStore struct {
	mu         sync.Mutex
	folders    []models.Folder
	categories []models.Category
	questions  []models.Question
	calls      map[string]int
	fail       map[string]error
	hooks      map[string]func()
	seq        int
	clock      time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calls: make(map[string]int),
		fail:  make(map[string]error),
		hooks: make(map[string]func()),
		clock: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

// record counts the call and returns the configured failure, if any.
// A hook registered for the call runs once, outside the store lock.
// A context cancelled by then fails the call the way a real query would.
func (s *fakeStore) record(ctx context.Context, name string) error {
	s.mu.Lock()
	s.calls[name]++
	err := s.fail[name]
	hook := s.hooks[name]
	delete(s.hooks, name)
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err == nil {
		err = ctx.Err()
	}
	return err
}

func (s *fakeStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *fakeStore) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *fakeStore) resetCalls() {
	s.mu.Lock()
	s.calls = make(map[string]int)
	s.mu.Unlock()
}

func (s *fakeStore) failOn(name string, err error) {
	s.mu.Lock()
	s.fail[name] = err
	s.mu.Unlock()
}

func (s *fakeStore) onCall(name string, hook func()) {
	s.mu.Lock()
	s.hooks[name] = hook
	s.mu.Unlock()
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *fakeStore) addFolder(id, name string, parent *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append(s.folders, models.Folder{ID: id, Name: name, IsEnabled: true, ParentFolderID: parent, CreatedAt: s.tick()})
}

func (s *fakeStore) addCategory(id, folderID string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, models.Category{ID: id, Name: "Category " + id, FolderID: folderID, IsEnabled: enabled, CreatedAt: s.tick()})
}

func (s *fakeStore) addQuestion(q models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.CreatedAt = s.tick()
	s.questions = append(s.questions, q)
}

func (s *fakeStore) removeFolder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.folders {
		if f.ID == id {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			return
		}
	}
}

func (s *fakeStore) storedFolder(id string) (models.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}

type fakeFolderRepo struct{ s *fakeStore }

func (r fakeFolderRepo) ListAll(ctx context.Context) ([]models.Folder, error) {
	if err := r.s.record(ctx, "folders.ListAll"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Folder{}, r.s.folders...), nil
}

func (r fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	if err := r.s.record(ctx, "folders.GetByID"); err != nil {
		return nil, err
	}
	f, ok := r.s.storedFolder(id)
	if !ok {
		return nil, domain.NewNotFoundError("folder", id)
	}
	return &f, nil
}

func (r fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.s.record(ctx, "folders.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	folder.ID = fmt.Sprintf("new-%d", r.s.seq)
	folder.CreatedAt = r.s.tick()
	r.s.folders = append(r.s.folders, *folder)
	return nil
}

func (r fakeFolderRepo) Update(ctx context.Context, id string, patch *models.FolderPatch) error {
	if err := r.s.record(ctx, "folders.Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.folders {
		if r.s.folders[i].ID == id {
			patch.Apply(&r.s.folders[i])
			return nil
		}
	}
	return domain.NewNotFoundError("folder", id)
}

func (r fakeFolderRepo) Delete(ctx context.Context, id string) error {
	if err := r.s.record(ctx, "folders.Delete"); err != nil {
		return err
	}
	r.s.removeFolder(id)
	return nil
}

type fakeCategoryRepo struct{ s *fakeStore }

func (r fakeCategoryRepo) ListEnabledByFolder(ctx context.Context, folderID string) ([]models.Category, error) {
	if err := r.s.record(ctx, "categories.ListEnabledByFolder"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.s.categories {
		if c.FolderID == folderID && c.IsEnabled {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCategoryRepo) CountByFolder(ctx context.Context, folderID string) (int, error) {
	if err := r.s.record(ctx, "categories.CountByFolder"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, c := range r.s.categories {
		if c.FolderID == folderID {
			n++
		}
	}
	return n, nil
}

func (r fakeCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if err := r.s.record(ctx, "categories.Create"); err != nil {
		return err
	}
	r.s.addCategory(category.ID, category.FolderID, category.IsEnabled)
	return nil
}

type fakeQuestionRepo struct{ s *fakeStore }

func (r fakeQuestionRepo) ListActiveByCategories(ctx context.Context, categoryIDs []string) ([]models.Question, error) {
	if err := r.s.record(ctx, "questions.ListActiveByCategories"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Question{}
	for _, q := range r.s.questions {
		if wanted[q.CategoryID] && q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r fakeQuestionRepo) Create(ctx context.Context, q *models.Question) error {
	if err := r.s.record(ctx, "questions.Create"); err != nil {
		return err
	}
	r.s.addQuestion(*q)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(s *fakeStore) (quizSvc.FolderTreeManager, *cache.MemoryRosterCache) {
	rosters := cache.NewMemoryRosterCache(0)
	m := NewFolderTreeManager(
		fakeFolderRepo{s},
		fakeCategoryRepo{s},
		fakeQuestionRepo{s},
		rosters,
		ManagerOptions{FetchConcurrency: 4},
		discardLogger(),
	)
	return m, rosters
}

func ptr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func folderIDs(folders []models.Folder) []string {
	ids := make([]string, len(folders))
	for i, f := range folders {
		ids[i] = f.ID
	}
	return ids
}

func modelsQuestion(id, categoryID string) models.Question {
	return models.Question{
		ID:            id,
		CategoryID:    categoryID,
		Type:          models.QuestionText,
		Question:      "<p>Question " + id + "</p>",
		CorrectAnswer: "answer " + id,
		IsActive:      true,
	}
}
