package quizbank

import (
	"context"

	models "quizbank/internal/domain/models/quizbank"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// ListAll retrieves every folder as a flat list, oldest first
	ListAll(ctx context.Context) ([]models.Folder, error)

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// Create inserts a folder and fills in the server-assigned ID and CreatedAt
	Create(ctx context.Context, folder *models.Folder) error

	// Update applies a partial update to one folder
	Update(ctx context.Context, id string, patch *models.FolderPatch) error

	// Delete deletes one folder (never cascades)
	Delete(ctx context.Context, id string) error
}
