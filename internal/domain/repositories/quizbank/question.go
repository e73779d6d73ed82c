package quizbank

import (
	"context"

	models "quizbank/internal/domain/models/quizbank"
)

// QuestionRepository defines data access operations for questions
type QuestionRepository interface {
	// ListActiveByCategories lists active questions whose category is in categoryIDs, oldest first
	ListActiveByCategories(ctx context.Context, categoryIDs []string) ([]models.Question, error)

	// Create inserts a question and fills in the server-assigned ID and CreatedAt
	Create(ctx context.Context, question *models.Question) error
}
