package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./data/comments.yaml", cfg.Store.Path)
	assert.Equal(t, int64(1), cfg.Store.NodeID)
	assert.Equal(t, 16, cfg.Broadcast.Buffer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:8081")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("COMMENTS_FILE", "/tmp/comments.yaml")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "/tmp/comments.yaml", cfg.Store.Path)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_InvalidNodeID(t *testing.T) {
	t.Setenv("NODE_ID", "4096")

	_, err := Load()
	assert.ErrorContains(t, err, "NODE_ID")
}

func TestOriginAllowed(t *testing.T) {
	cfg := ServerConfig{AllowedOrigins: []string{"http://localhost:8081"}}
	assert.True(t, cfg.OriginAllowed("http://localhost:8081"))
	assert.False(t, cfg.OriginAllowed("http://evil.example"))

	cfg.AllowedOrigins = []string{"*"}
	assert.True(t, cfg.AllowAllOrigins())
	assert.True(t, cfg.OriginAllowed("http://evil.example"))
}
