package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// shield the test from whatever the ambient environment carries
	for _, key := range []string{"PORT", "BASE_URL", "MEDIA_ROOT", "MEDIA_URL", "UPLOAD_SUBDIR", "SEARCH_MAX_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "./media", cfg.MediaRoot)
	assert.Equal(t, "/media/", cfg.MediaURL)
	assert.Equal(t, "herbs", cfg.UploadSubdir)
	assert.Equal(t, 100, cfg.MaxSearchLimit)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_MAX_LIMIT", "50")
	t.Setenv("BASE_URL", "https://herbs.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 50, cfg.MaxSearchLimit)
	assert.Equal(t, "https://herbs.example.com", cfg.BaseURL)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("SEARCH_MAX_LIMIT", "plenty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxSearchLimit)
}
