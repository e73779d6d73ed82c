package quizbank

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quizbank/internal/config"
)

// QuestionType selects how a question is answered and rendered.
type QuestionType string

const (
	QuestionText        QuestionType = "text"
	QuestionTrueFalse   QuestionType = "truefalse"
	QuestionMultiChoice QuestionType = "multichoice"
	QuestionImage       QuestionType = "image"
)

// QuestionTypes lists every accepted type, in the order the admin UI offers them.
var QuestionTypes = []QuestionType{QuestionText, QuestionTrueFalse, QuestionMultiChoice, QuestionImage}

type Question struct {
	ID            string       `json:"id" db:"id"`
	CategoryID    string       `json:"category_id" db:"category_id"`
	Type          QuestionType `json:"type" db:"type"`
	Question      string       `json:"question" db:"question"` // Rich text (HTML)
	CorrectAnswer string       `json:"correct_answer" db:"correct_answer"`
	Options       []string     `json:"options,omitempty" db:"options"`     // multichoice only
	ImageURL      *string      `json:"image_url,omitempty" db:"image_url"` // image only
	IsActive      bool         `json:"is_active" db:"is_active"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// Validate checks the per-type shape: options iff multichoice, image_url iff image.
func (q Question) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.CategoryID, validation.Required),
		validation.Field(&q.Type, validation.Required, validation.In(
			QuestionText, QuestionTrueFalse, QuestionMultiChoice, QuestionImage,
		)),
		validation.Field(&q.Question, validation.By(notBlank)),
		validation.Field(&q.Options,
			validation.When(q.Type == QuestionMultiChoice,
				validation.Required, validation.Length(2, config.MaxQuestionOptions)).
				Else(validation.Empty),
		),
		validation.Field(&q.ImageURL,
			validation.When(q.Type == QuestionImage, validation.Required, validation.By(notBlank)).
				Else(validation.Nil),
		),
	)
}

func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
