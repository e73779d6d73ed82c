package quizbank

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"quizbank/internal/domain"
	models "quizbank/internal/domain/models/quizbank"
	quizRepo "quizbank/internal/domain/repositories/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
)

// exportService implements the ExportService interface
type exportService struct {
	manager      quizSvc.FolderTreeManager
	categoryRepo quizRepo.CategoryRepository
	renderer     quizSvc.DocumentRenderer
	store        quizSvc.ExportStore // nil when object storage is not configured
	logger       *slog.Logger
	now          func() time.Time
}

// NewExportService creates a new export service. store may be nil.
func NewExportService(
	manager quizSvc.FolderTreeManager,
	categoryRepo quizRepo.CategoryRepository,
	renderer quizSvc.DocumentRenderer,
	store quizSvc.ExportStore,
	logger *slog.Logger,
) quizSvc.ExportService {
	return &exportService{
		manager:      manager,
		categoryRepo: categoryRepo,
		renderer:     renderer,
		store:        store,
		logger:       logger,
		now:          time.Now,
	}
}

// BuildDocument groups the roster by the folder's enabled categories, in
// category creation order. Categories without roster questions are omitted.
func (s *exportService) BuildDocument(ctx context.Context, folderID string, includeAnswers bool) (*models.ExportDocument, error) {
	folder, ok := s.manager.Folder(folderID)
	if !ok {
		return nil, domain.NewNotFoundError("folder", folderID)
	}

	roster, err := s.manager.LoadRoster(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, domain.NewValidationError("folder %q has no active questions to export", folder.Name)
	}

	categories, err := s.categoryRepo.ListEnabledByFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: categories of folder %s: %w", domain.ErrLoad, folderID, err)
	}

	byCategory := make(map[string][]models.Question)
	for _, q := range roster {
		byCategory[q.CategoryID] = append(byCategory[q.CategoryID], q)
	}

	doc := &models.ExportDocument{
		Title:          folder.Name + " Questions",
		Groups:         []models.CategoryGroup{},
		IncludeAnswers: includeAnswers,
	}
	for _, c := range categories {
		questions := byCategory[c.ID]
		if len(questions) == 0 {
			continue
		}
		doc.Groups = append(doc.Groups, models.CategoryGroup{CategoryName: c.Name, Questions: questions})
	}

	// The cached roster can predate a category being disabled
	if dropped := len(roster) - doc.QuestionCount(); dropped > 0 {
		s.logger.Debug("export skipped questions of disabled categories", "folder_id", folderID, "skipped", dropped)
	}
	if len(doc.Groups) == 0 {
		return nil, domain.NewValidationError("folder %q has no active questions to export", folder.Name)
	}

	return doc, nil
}

// WritePDF renders the folder's question sheet to w
func (s *exportService) WritePDF(ctx context.Context, w io.Writer, folderID string, includeAnswers bool) (*models.ExportDocument, error) {
	doc, err := s.BuildDocument(ctx, folderID, includeAnswers)
	if err != nil {
		return nil, err
	}
	if err := s.renderer.Render(ctx, w, doc); err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	s.logger.Info("folder exported",
		"folder_id", folderID,
		"categories", len(doc.Groups),
		"questions", doc.QuestionCount(),
		"answers", includeAnswers,
	)
	return doc, nil
}

func (s *exportService) CanUpload() bool {
	return s.store != nil
}

// Upload renders into memory and stores the PDF under a timestamped name
func (s *exportService) Upload(ctx context.Context, folderID string, includeAnswers bool) (*models.ExportResult, error) {
	if s.store == nil {
		return nil, domain.NewValidationError("export storage is not configured")
	}

	var buf bytes.Buffer
	doc, err := s.WritePDF(ctx, &buf, folderID, includeAnswers)
	if err != nil {
		return nil, err
	}

	objectName := ExportObjectName(doc.Title, folderID, s.now())
	size := int64(buf.Len())
	url, err := s.store.Put(ctx, objectName, &buf, size, "application/pdf")
	if err != nil {
		s.logger.Error("failed to upload export", "folder_id", folderID, "object", objectName, "error", err)
		return nil, fmt.Errorf("%w: upload export: %w", domain.ErrWrite, err)
	}

	s.logger.Info("export uploaded", "folder_id", folderID, "object", objectName, "bytes", size)
	return &models.ExportResult{
		ObjectName:    objectName,
		URL:           url,
		QuestionCount: doc.QuestionCount(),
	}, nil
}

// ExportObjectName is the storage key for an uploaded export
func ExportObjectName(title, folderID string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s-%s", folderID, at.UTC().Format("20060102T150405Z"), models.ExportFileName(title))
}
