package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"quizbank/internal/config"
	models "quizbank/internal/domain/models/quizbank"
)

//go:embed fixtures/sample.yaml
var sampleFixture []byte

// Fixture is a folder tree with categories and questions, as written in YAML
type Fixture struct {
	Folders []FixtureFolder `yaml:"folders"`
}

type FixtureFolder struct {
	Name       string            `yaml:"name"`
	Enabled    *bool             `yaml:"enabled"` // default true
	Categories []FixtureCategory `yaml:"categories"`
	Folders    []FixtureFolder   `yaml:"folders"`
}

type FixtureCategory struct {
	Name      string            `yaml:"name"`
	Enabled   *bool             `yaml:"enabled"` // default true
	Questions []FixtureQuestion `yaml:"questions"`
}

type FixtureQuestion struct {
	Type     string   `yaml:"type"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Options  []string `yaml:"options"`
	ImageURL string   `yaml:"image_url"`
	Inactive bool     `yaml:"inactive"`
}

// LoadFixture reads a fixture file. An empty path selects the embedded sample.
func LoadFixture(path string) (*Fixture, error) {
	data := sampleFixture
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
	}
	return ParseFixture(data)
}

// ParseFixture decodes and checks a fixture. Questions are checked with the
// same rules the repository applies on insert.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Folders) == 0 {
		return nil, fmt.Errorf("fixture has no folders")
	}
	for _, folder := range f.Folders {
		if err := folder.check(folder.Name); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func (f *FixtureFolder) check(path string) error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return fmt.Errorf("folder %q: name is required", path)
	}
	if len([]rune(name)) > config.MaxFolderNameLength {
		return fmt.Errorf("folder %q: name exceeds %d characters", path, config.MaxFolderNameLength)
	}

	for _, c := range f.Categories {
		cpath := path + "/" + c.Name
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category in %q: name is required", path)
		}
		if len([]rune(c.Name)) > config.MaxCategoryNameLength {
			return fmt.Errorf("category %q: name exceeds %d characters", cpath, config.MaxCategoryNameLength)
		}
		for i, q := range c.Questions {
			// CategoryID is filled on insert
			probe := q.model("pending")
			if err := probe.Validate(); err != nil {
				return fmt.Errorf("category %q question %d: %w", cpath, i+1, err)
			}
		}
	}

	for _, child := range f.Folders {
		if err := child.check(path + "/" + child.Name); err != nil {
			return err
		}
	}
	return nil
}

// Counts returns how many folders, categories and questions the fixture holds
func (f *Fixture) Counts() Stats {
	var s Stats
	var walk func(folders []FixtureFolder)
	walk = func(folders []FixtureFolder) {
		for _, folder := range folders {
			s.Folders++
			s.Categories += len(folder.Categories)
			for _, c := range folder.Categories {
				s.Questions += len(c.Questions)
			}
			walk(folder.Folders)
		}
	}
	walk(f.Folders)
	return s
}

func (q FixtureQuestion) model(categoryID string) models.Question {
	question := models.Question{
		CategoryID:    categoryID,
		Type:          models.QuestionType(q.Type),
		Question:      q.Question,
		CorrectAnswer: q.Answer,
		Options:       q.Options,
		IsActive:      !q.Inactive,
	}
	if q.ImageURL != "" {
		question.ImageURL = &q.ImageURL
	}
	return question
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}
