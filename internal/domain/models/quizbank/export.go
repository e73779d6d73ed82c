package quizbank

import (
	"regexp"
	"strings"
)

// CategoryGroup is a category heading followed by its questions, in display order.
type CategoryGroup struct {
	CategoryName string     `json:"category_name"`
	Questions    []Question `json:"questions"`
}

// ExportDocument is everything the renderer needs to produce a folder's question sheet.
type ExportDocument struct {
	Title          string          `json:"title"`
	Groups         []CategoryGroup `json:"groups"`
	IncludeAnswers bool            `json:"include_answers"`
}

// QuestionCount returns the number of questions across all groups.
func (d *ExportDocument) QuestionCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Questions)
	}
	return n
}

// ExportResult describes an export that was uploaded instead of streamed.
type ExportResult struct {
	ObjectName    string `json:"object_name"`
	URL           string `json:"url"`
	QuestionCount int    `json:"question_count"`
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// ExportFileName turns a document title into a download file name,
// e.g. "Grade 5 Math Questions" -> "grade-5-math-questions.pdf".
func ExportFileName(title string) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "questions"
	}
	return slug + ".pdf"
}
