package quizbank

import (
	"context"
	"io"

	models "quizbank/internal/domain/models/quizbank"
)

// ExportService turns a folder's roster into a printable question sheet
type ExportService interface {
	// BuildDocument groups the folder's roster by enabled category.
	// An empty roster is a validation error.
	BuildDocument(ctx context.Context, folderID string, includeAnswers bool) (*models.ExportDocument, error)

	// WritePDF renders the folder's question sheet to w
	WritePDF(ctx context.Context, w io.Writer, folderID string, includeAnswers bool) (*models.ExportDocument, error)

	// Upload renders the sheet into the export store and returns a download URL
	Upload(ctx context.Context, folderID string, includeAnswers bool) (*models.ExportResult, error)

	// CanUpload reports whether an export store is configured
	CanUpload() bool
}

// DocumentRenderer produces a paginated document from grouped questions
type DocumentRenderer interface {
	Render(ctx context.Context, w io.Writer, doc *models.ExportDocument) error
}

// ExportStore keeps rendered exports and hands out time-limited download URLs
type ExportStore interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (url string, err error)
}
