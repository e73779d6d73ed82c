package quizbank

import (
	"context"
	"fmt"

	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
	quizRepo "quizbank/internal/domain/repositories/quizbank"
	"quizbank/internal/repository/postgres"
)

// PostgresQuestionRepository implements the QuestionRepository interface
type PostgresQuestionRepository struct {
	pool   postgres.Pool
	tables *postgres.TableNames
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(config *postgres.RepositoryConfig) quizRepo.QuestionRepository {
	return &PostgresQuestionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListActiveByCategories lists active questions in any of the given categories, oldest first
func (r *PostgresQuestionRepository) ListActiveByCategories(ctx context.Context, categoryIDs []string) ([]models.Question, error) {
	if len(categoryIDs) == 0 {
		return []models.Question{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, category_id, type, question, correct_answer, options, image_url, is_active, created_at
		FROM %s
		WHERE category_id = ANY($1) AND is_active = true
		ORDER BY created_at ASC
	`, r.tables.Questions)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		var qType string
		if err := rows.Scan(
			&q.ID,
			&q.CategoryID,
			&qType,
			&q.Question,
			&q.CorrectAnswer,
			&q.Options,
			&q.ImageURL,
			&q.IsActive,
			&q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = models.QuestionType(qType)
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	return questions, nil
}

// Create validates and inserts a question
func (r *PostgresQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if err := question.Validate(); err != nil {
		return domain.NewValidationError("invalid question: %v", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (category_id, type, question, correct_answer, options, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Questions)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		question.CategoryID,
		string(question.Type),
		question.Question,
		question.CorrectAnswer,
		question.Options,
		question.ImageURL,
		question.IsActive,
	).Scan(&question.ID, &question.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return domain.NewNotFoundError("category", question.CategoryID)
		}
		if postgres.IsPgCheckViolation(err) {
			return domain.NewValidationError("question type %q is not accepted", question.Type)
		}
		return fmt.Errorf("create question: %w", err)
	}

	return nil
}
