package quizbank

import (
	"context"
	"fmt"
	"strings"

	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
	quizRepo "quizbank/internal/domain/repositories/quizbank"
	"quizbank/internal/repository/postgres"
)

const folderColumns = "id, name, created_at, is_enabled, parent_folder_id"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   postgres.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) quizRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListAll retrieves every folder ordered by creation time
func (r *PostgresFolderRepository) ListAll(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at ASC
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.IsEnabled,
			&folder.ParentFolderID,
		); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&folder.ID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.IsEnabled,
		&folder.ParentFolderID,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFoundError("folder", id)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Create inserts a folder. ID and CreatedAt are assigned by the database.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, is_enabled, parent_folder_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.Name,
		folder.IsEnabled,
		folder.ParentFolderID,
	).Scan(&folder.ID, &folder.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) && folder.ParentFolderID != nil {
			return domain.NewNotFoundError("parent folder", *folder.ParentFolderID)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// Update applies the non-nil fields of patch to one folder
func (r *PostgresFolderRepository) Update(ctx context.Context, id string, patch *models.FolderPatch) error {
	if patch.IsEmpty() {
		return domain.NewValidationError("folder update has no fields")
	}

	var sets []string
	var args []interface{}
	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.IsEnabled != nil {
		args = append(args, *patch.IsEnabled)
		sets = append(sets, fmt.Sprintf("is_enabled = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d
	`, r.tables.Folders, strings.Join(sets, ", "), len(args))

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("folder", id)
	}

	return nil
}

// Delete deletes a single folder. Subfolders and categories are never cascaded;
// a folder still referenced fails with ErrConflict.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "folder is still referenced by subfolders or categories",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("folder", id)
	}

	return nil
}
