package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
	"quizbank/internal/httputil"
)

// ExportHandler renders question sheets
type ExportHandler struct {
	exports quizSvc.ExportService
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports quizSvc.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exports: exports,
		logger:  logger,
	}
}

// Export renders the folder's question sheet as a PDF
// GET /api/folders/{id}/export?answers=true&store=true
// With store=true the PDF is uploaded and a download URL is returned instead.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	includeAnswers, err := httputil.QueryBool(r, "answers")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	store, err := httputil.QueryBool(r, "store")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if store {
		result, err := h.exports.Upload(r.Context(), id, includeAnswers)
		if err != nil {
			handleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusCreated, result)
		return
	}

	// Render fully before writing headers so a failure still gets a problem response
	var buf bytes.Buffer
	doc, err := h.exports.WritePDF(r.Context(), &buf, id, includeAnswers)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, models.ExportFileName(doc.Title)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("export download interrupted", "folder_id", id, "error", err)
	}
}
