package export

import (
	"fmt"

	models "quizbank/internal/domain/models/quizbank"
)

const (
	inactiveQuestionLabel = "(Inactive Question)"
	inactiveAnswerSuffix  = " (Inactive)"
	answerKeyTitle        = "Answer Key"
)

// Sheet is the laid-out export: the question pages and an optional answer key.
type Sheet struct {
	Title     string
	Sections  []Section
	AnswerKey []AnswerSection // nil when answers are not included
}

// Section is one category heading and its questions
type Section struct {
	Heading   string
	Questions []QuestionBlock
}

// QuestionBlock is a single numbered question, ready to draw
type QuestionBlock struct {
	Number     int // 1-based, restarts in every section
	Label      string
	Inactive   bool
	Body       string
	ImageURL   string   // image questions only
	Options    []string // lettered, e.g. "a. Paris"
	AnswerLine bool
}

// AnswerSection lists the answers of one category
type AnswerSection struct {
	Heading string
	Answers []string // e.g. "1. Paris" or "2. True (Inactive)"
}

// Layout turns an export document into a Sheet. Rich text is flattened with f.
func Layout(doc *models.ExportDocument, f *RichTextFlattener) *Sheet {
	sheet := &Sheet{Title: doc.Title, Sections: make([]Section, 0, len(doc.Groups))}

	for _, group := range doc.Groups {
		section := Section{Heading: group.CategoryName, Questions: make([]QuestionBlock, 0, len(group.Questions))}
		for i, q := range group.Questions {
			section.Questions = append(section.Questions, layoutQuestion(i+1, q, f))
		}
		sheet.Sections = append(sheet.Sections, section)
	}

	if doc.IncludeAnswers && len(doc.Groups) > 0 {
		sheet.AnswerKey = make([]AnswerSection, 0, len(doc.Groups))
		for _, group := range doc.Groups {
			answers := AnswerSection{Heading: group.CategoryName, Answers: make([]string, 0, len(group.Questions))}
			for i, q := range group.Questions {
				entry := fmt.Sprintf("%d. %s", i+1, q.CorrectAnswer)
				if !q.IsActive {
					entry += inactiveAnswerSuffix
				}
				answers.Answers = append(answers.Answers, entry)
			}
			sheet.AnswerKey = append(sheet.AnswerKey, answers)
		}
	}

	return sheet
}

func layoutQuestion(number int, q models.Question, f *RichTextFlattener) QuestionBlock {
	block := QuestionBlock{
		Number:   number,
		Label:    fmt.Sprintf("%d. ", number),
		Inactive: !q.IsActive,
		Body:     f.Flatten(q.Question),
	}

	switch q.Type {
	case models.QuestionImage:
		if q.ImageURL != nil {
			block.ImageURL = *q.ImageURL
		}
		block.AnswerLine = true
	case models.QuestionText:
		block.AnswerLine = true
	case models.QuestionMultiChoice:
		for i, opt := range q.Options {
			block.Options = append(block.Options, fmt.Sprintf("%s. %s", OptionLetter(i), opt))
		}
	case models.QuestionTrueFalse:
		block.Options = []string{"a. True", "b. False"}
	}

	return block
}

// OptionLetter labels the i-th option: a, b, ..., z, aa, ab, ...
func OptionLetter(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return OptionLetter(i/26-1) + string(rune('a'+i%26))
}
