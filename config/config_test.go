package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitAppliesDefaults(t *testing.T) {
	prev := Cfg
	t.Cleanup(func() { Cfg = prev })

	path := writeConfigFile(t, `
database:
  source_dsn: "src"
  target_dsn: "dst"
`)
	require.NoError(t, Init(path))

	assert.Equal(t, "8080", Cfg.Server.Port)
	assert.Equal(t, 24*60, Cfg.JWT.ExpireMinutes)
	assert.Equal(t, "Asia/Shanghai", Cfg.Scheduler.Timezone)
	assert.Equal(t, "01:00", Cfg.Scheduler.ETLRunAt)
	assert.Equal(t, "03:00", Cfg.Scheduler.FAQRunAt)
	assert.Equal(t, defaultETLMaxWorkers, Cfg.Scheduler.ETLMaxWorkers)
	assert.Equal(t, defaultFAQMaxWorkers, Cfg.Scheduler.FAQMaxWorkers)
	assert.Equal(t, "_test", Cfg.Aico.TestScenarioSuffix)
	assert.Equal(t, "/aicoapi/knowledge_manage/file/del", Cfg.Aico.FileDeleteEndpoint)
	assert.Equal(t, 10*time.Second, Cfg.Aico.Timeout())
}

func TestInitCapsWorkerCounts(t *testing.T) {
	prev := Cfg
	t.Cleanup(func() { Cfg = prev })

	path := writeConfigFile(t, `
scheduler:
  etl_max_workers: 1000
  faq_max_workers: 1000
`)
	require.NoError(t, Init(path))

	assert.Equal(t, maxETLWorkers, Cfg.Scheduler.ETLMaxWorkers)
	assert.Equal(t, maxFAQWorkers, Cfg.Scheduler.FAQMaxWorkers)
}

func TestInitEnvOverrides(t *testing.T) {
	prev := Cfg
	t.Cleanup(func() { Cfg = prev })

	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("AICO_CHATBOT_API_KEY", "env-api-key")

	path := writeConfigFile(t, `
jwt:
  secret_key: "file-secret"
aico:
  chatbot_api_key: "file-api-key"
`)
	require.NoError(t, Init(path))

	assert.Equal(t, "env-secret", Cfg.JWT.SecretKey)
	assert.Equal(t, "env-api-key", Cfg.Aico.ChatbotAPIKey)
}

func TestInitMissingFile(t *testing.T) {
	assert.Error(t, Init(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSchedulerLocationFallsBackToUTC(t *testing.T) {
	s := SchedulerConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, s.Location())
}
