package postgres

import (
	"context"
	"fmt"

	"quizbank/internal/domain/repositories"
)

// RunSchema creates tables and indexes if they don't exist.
// Foreign keys are ON DELETE RESTRICT: a folder that still owns subfolders or
// categories cannot be deleted, even if the caller's guard check raced.
func RunSchema(ctx context.Context, db repositories.DBTX, tables *TableNames, tablePrefix string) error {
	if _, err := db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("enable uuid extension: %w", err)
	}

	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL CHECK (length(btrim(name)) > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			parent_folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE RESTRICT,
			CHECK (parent_folder_id IS NULL OR parent_folder_id <> id)
		)
	`
	if _, err := db.Exec(ctx, createFolders); err != nil {
		return fmt.Errorf("create %s: %w", tables.Folders, err)
	}

	createCategories := `
		CREATE TABLE IF NOT EXISTS ` + tables.Categories + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL,
			folder_id UUID NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE RESTRICT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_enabled BOOLEAN NOT NULL DEFAULT TRUE
		)
	`
	if _, err := db.Exec(ctx, createCategories); err != nil {
		return fmt.Errorf("create %s: %w", tables.Categories, err)
	}

	createQuestions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Questions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			category_id UUID NOT NULL REFERENCES ` + tables.Categories + `(id) ON DELETE RESTRICT,
			type TEXT NOT NULL CHECK (type IN ('text', 'truefalse', 'multichoice', 'image')),
			question TEXT NOT NULL,
			correct_answer TEXT NOT NULL DEFAULT '',
			options TEXT[],
			image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := db.Exec(ctx, createQuestions); err != nil {
		return fmt.Errorf("create %s: %w", tables.Questions, err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_parent ON ` + tables.Folders + `(parent_folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_created_at ON ` + tables.Folders + `(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `categories_folder ON ` + tables.Categories + `(folder_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `questions_category ON ` + tables.Questions + `(category_id, created_at)`,
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// DropTables drops all tables in reverse order (to respect foreign keys)
func DropTables(ctx context.Context, db repositories.DBTX, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := db.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}

// ClearData deletes every row but keeps the schema.
func ClearData(ctx context.Context, db repositories.DBTX, tables *TableNames) error {
	if _, err := db.Exec(ctx, "TRUNCATE "+tables.Questions+", "+tables.Categories+", "+tables.Folders); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}
