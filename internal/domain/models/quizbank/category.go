package quizbank

import "time"

// Category groups questions and belongs to exactly one folder.
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	FolderID  string    `json:"folder_id" db:"folder_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	IsEnabled bool      `json:"is_enabled" db:"is_enabled"`
}
