package quizbank

import (
	"context"
	"fmt"

	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
	quizRepo "quizbank/internal/domain/repositories/quizbank"
	"quizbank/internal/repository/postgres"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   postgres.Pool
	tables *postgres.TableNames
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *postgres.RepositoryConfig) quizRepo.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListEnabledByFolder lists a folder's enabled categories, oldest first
func (r *PostgresCategoryRepository) ListEnabledByFolder(ctx context.Context, folderID string) ([]models.Category, error) {
	query := fmt.Sprintf(`
		SELECT id, name, folder_id, created_at, is_enabled
		FROM %s
		WHERE folder_id = $1 AND is_enabled = true
		ORDER BY created_at ASC
	`, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.FolderID,
			&category.CreatedAt,
			&category.IsEnabled,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// CountByFolder counts all categories of a folder, enabled or not
func (r *PostgresCategoryRepository) CountByFolder(ctx context.Context, folderID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE folder_id = $1
	`, r.tables.Categories)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}

	return count, nil
}

// Create inserts a category
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, folder_id, is_enabled)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		category.Name,
		category.FolderID,
		category.IsEnabled,
	).Scan(&category.ID, &category.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return domain.NewNotFoundError("folder", category.FolderID)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}
