package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.SkipAuth)
	assert.Equal(t, "virtuatable-development", cfg.Bucket)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9999")
	t.Setenv("SKIP_AUTH", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.True(t, cfg.SkipAuth)
	// Bucket follows the environment unless set explicitly.
	assert.Equal(t, "virtuatable-production", cfg.Bucket)
}

func TestLoadConfigBucketOverride(t *testing.T) {
	t.Setenv("BUCKET", "my-bucket")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", cfg.Bucket)
}
