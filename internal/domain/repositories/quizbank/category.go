package quizbank

import (
	"context"

	models "quizbank/internal/domain/models/quizbank"
)

// CategoryRepository defines data access operations for categories
type CategoryRepository interface {
	// ListEnabledByFolder lists the enabled categories of a folder, oldest first
	ListEnabledByFolder(ctx context.Context, folderID string) ([]models.Category, error)

	// CountByFolder counts every category of a folder, enabled or not
	CountByFolder(ctx context.Context, folderID string) (int, error)

	// Create inserts a category and fills in the server-assigned ID and CreatedAt
	Create(ctx context.Context, category *models.Category) error
}
