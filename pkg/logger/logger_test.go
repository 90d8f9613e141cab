package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/article-comments-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("article_id", "post-1").Msg("Comment created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "article-comments-api", entry["service"])
	assert.Equal(t, "post-1", entry["article_id"])
	assert.Equal(t, "Comment created", entry["message"])
}

func TestNewWithWriter_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "debug"}, &buf)

	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
