package config

import "time"

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and keep the tree readable.
	MaxFolderNameLength = 255

	// MaxCategoryNameLength is the maximum length for category names.
	MaxCategoryNameLength = 255

	// MaxQuestionOptions caps multichoice options; the export letters them a..z.
	MaxQuestionOptions = 26

	// DefaultRosterFetchConcurrency bounds parallel roster fetches during saturation.
	DefaultRosterFetchConcurrency = 8

	// RosterFetchTimeout bounds one shared roster fetch, which outlives its callers.
	RosterFetchTimeout = 30 * time.Second

	// MaxExportImageBytes caps a single question image pulled into an export.
	MaxExportImageBytes = 5 << 20
)
