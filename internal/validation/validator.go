package validation

import (
	"strings"

	"github.com/article-comments-api/internal/models"
)

// RequiredFieldsMessage is reported to clients when author or content is missing
const RequiredFieldsMessage = "Author and content are required"

// Validator checks comment and reply input
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateInput returns a *models.ValidationError listing every missing
// required field, or nil when the input is acceptable.
func (v *Validator) ValidateInput(in models.CommentInput) error {
	var fields []models.FieldError

	if isBlank(in.Author) {
		fields = append(fields, models.FieldError{Field: "author", Message: "author is required"})
	}
	if isBlank(in.Content) {
		fields = append(fields, models.FieldError{Field: "content", Message: "content is required"})
	}

	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
