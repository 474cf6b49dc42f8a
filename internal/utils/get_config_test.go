package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConfig_Defaults(t *testing.T) {
	cfg := readConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, int64(29000), cfg.SubscriptionMonthlyPrice)
	assert.Equal(t, int64(1000000), cfg.SubscriptionYearlyPrice)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 120, cfg.JWTTTLMinutes)
	assert.Equal(t, "auto", cfg.AWSS3Region)
	assert.NotEmpty(t, cfg.AIModels)
	assert.NotEmpty(t, cfg.AIVisionModels)
}

func TestReadConfig_YamlThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", `
DB_HOST: db.internal
SERVER_KEY: SB-Mid-server-yaml
SUBSCRIPTION_MONTHLY_PRICE: 35000
FRONTEND_URL: https://recipes.example.com/
AI_MODELS:
  - first/model
  - second/model
`)

	t.Setenv("SERVER_KEY", "SB-Mid-server-env")
	t.Setenv("AI_VISION_MODELS", "vision/a,vision/b")

	cfg := readConfig(yamlPath)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "SB-Mid-server-env", cfg.ServerKey)
	assert.Equal(t, int64(35000), cfg.SubscriptionMonthlyPrice)
	assert.Equal(t, int64(1000000), cfg.SubscriptionYearlyPrice)
	assert.Equal(t, "https://recipes.example.com", cfg.FrontendURL)
	assert.Equal(t, []string{"first/model", "second/model"}, cfg.AIModels)
	assert.Equal(t, []string{"vision/a", "vision/b"}, cfg.AIVisionModels)
}

func TestReadConfig_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "JWT_SECRET=from-dotenv\nREDIS_HOST=from-dotenv\n")

	t.Setenv("JWT_SECRET", "from-env")
	// registered so the value loaded from .env is cleared after the test
	t.Setenv("REDIS_HOST", "")
	require.NoError(t, os.Unsetenv("REDIS_HOST"))

	cfg := readConfig(filepath.Join(dir, "missing.yaml"), envPath)

	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "from-dotenv", cfg.RedisHost)
}

func TestGetConfig(t *testing.T) {
	configMu.Lock()
	previous := config
	config = Config{ServerKey: "server", IsProd: true, SubscriptionYearlyPrice: 900000, AIModels: []string{"a", "b"}}
	configMu.Unlock()
	t.Cleanup(func() {
		configMu.Lock()
		config = previous
		configMu.Unlock()
	})

	assert.Equal(t, "server", GetConfig("SERVER_KEY"))
	assert.Equal(t, "true", GetConfig("IsProd"))
	assert.Equal(t, "900000", GetConfig("SUBSCRIPTION_YEARLY_PRICE"))
	assert.Equal(t, "a,b", GetConfig("AI_MODELS"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}
