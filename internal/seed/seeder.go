package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	models "quizbank/internal/domain/models/quizbank"
	"quizbank/internal/domain/repositories"
	quizRepo "quizbank/internal/domain/repositories/quizbank"
)

// Stats counts the rows a seed run inserted
type Stats struct {
	Folders    int
	Categories int
	Questions  int
}

// Seeder inserts fixture trees through the repositories
type Seeder struct {
	folders    quizRepo.FolderRepository
	categories quizRepo.CategoryRepository
	questions  quizRepo.QuestionRepository
	tx         repositories.TransactionManager
	logger     *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	folders quizRepo.FolderRepository,
	categories quizRepo.CategoryRepository,
	questions quizRepo.QuestionRepository,
	tx repositories.TransactionManager,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		folders:    folders,
		categories: categories,
		questions:  questions,
		tx:         tx,
		logger:     logger,
	}
}

// Seed inserts the whole fixture in one transaction. Parents are inserted
// before their children so creation order matches the fixture.
func (s *Seeder) Seed(ctx context.Context, fixture *Fixture) (Stats, error) {
	var stats Stats
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		stats = Stats{}
		for _, folder := range fixture.Folders {
			if err := s.insertFolder(ctx, folder, nil, &stats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	s.logger.Info("fixture seeded",
		"folders", stats.Folders,
		"categories", stats.Categories,
		"questions", stats.Questions,
	)
	return stats, nil
}

func (s *Seeder) insertFolder(ctx context.Context, f FixtureFolder, parentID *string, stats *Stats) error {
	folder := &models.Folder{
		Name:           strings.TrimSpace(f.Name),
		IsEnabled:      enabled(f.Enabled),
		ParentFolderID: parentID,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return fmt.Errorf("folder %q: %w", f.Name, err)
	}
	stats.Folders++
	s.logger.Debug("seeded folder", "id", folder.ID, "name", folder.Name)

	for _, c := range f.Categories {
		category := &models.Category{
			Name:      strings.TrimSpace(c.Name),
			FolderID:  folder.ID,
			IsEnabled: enabled(c.Enabled),
		}
		if err := s.categories.Create(ctx, category); err != nil {
			return fmt.Errorf("category %q: %w", c.Name, err)
		}
		stats.Categories++

		for i, q := range c.Questions {
			question := q.model(category.ID)
			if err := s.questions.Create(ctx, &question); err != nil {
				return fmt.Errorf("category %q question %d: %w", c.Name, i+1, err)
			}
			stats.Questions++
		}
	}

	for _, child := range f.Folders {
		if err := s.insertFolder(ctx, child, &folder.ID, stats); err != nil {
			return err
		}
	}
	return nil
}
