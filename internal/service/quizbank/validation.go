package quizbank

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quizbank/internal/config"
	"quizbank/internal/domain"
)

// normalizeFolderName trims the name and checks it is non-empty and within
// the length limit.
func normalizeFolderName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	err := validation.Validate(trimmed,
		validation.Required.Error("folder name cannot be empty"),
		validation.RuneLength(1, config.MaxFolderNameLength).
			Error(fmt.Sprintf("folder name must be at most %d characters", config.MaxFolderNameLength)),
	)
	if err != nil {
		return "", domain.NewValidationError("%s", err.Error())
	}
	return trimmed, nil
}
