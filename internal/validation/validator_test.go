package validation

import (
	"testing"

	"github.com/article-comments-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		input      models.CommentInput
		wantFields []string
	}{
		{
			name:  "valid with optional fields",
			input: models.CommentInput{Author: "Alice", Content: "Nice post!", Email: "a@example.com", Website: "https://a.example"},
		},
		{
			name:  "valid without optional fields",
			input: models.CommentInput{Author: "Alice", Content: "Nice post!"},
		},
		{
			name:       "missing author",
			input:      models.CommentInput{Content: "hello"},
			wantFields: []string{"author"},
		},
		{
			name:       "missing content",
			input:      models.CommentInput{Author: "Alice"},
			wantFields: []string{"content"},
		},
		{
			name:       "whitespace only",
			input:      models.CommentInput{Author: "  ", Content: "\n\t"},
			wantFields: []string{"author", "content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInput(tt.input)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, models.ErrValidation)
			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			got := make([]string, 0, len(vErr.Fields))
			for _, f := range vErr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}
