package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"BOT_TOKEN", "REDIRECT_DB_URI", "CEO_ID", "TMDB_API_KEY", "USE_MEMORY_DB",
		"SETUP_POLICY", "SETUP_SESSION_TTL", "REDIRECT_ANIMATION", "ENV"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestValidate_ListsEveryMissingItem(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Equal(t, "missing environment variables: BOT_TOKEN, REDIRECT_DB_URI, CEO_ID, TMDB_API_KEY", err.Error())

	conf := &Config{}
	conf.Store.UseMemory = true
	conf.Telegram.BotToken = "t"
	err = conf.Validate()
	require.Error(t, err)
	assert.Equal(t, "missing environment variables: CEO_ID, TMDB_API_KEY", err.Error())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("REDIRECT_DB_URI", "mongodb://localhost:27017/xtv")
	t.Setenv("CEO_ID", "42")
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("SETUP_SESSION_TTL", "10m")

	conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), conf.Telegram.OperatorId)
	assert.Equal(t, "prod", conf.Env)
	assert.Equal(t, "approval", conf.Flow.SetupPolicy)
	assert.Equal(t, "rotating", conf.Flow.Animation)
	assert.Equal(t, 10*time.Minute, conf.Flow.SessionTTL)
	assert.Equal(t, "8080", conf.Listen.Port)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: local
telegram:
  bot_token: "123:abc"
  ceo_id: 7
store:
  use_memory: true
catalog:
  api_key: key
flow:
  setup_policy: self
`), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local", conf.Env)
	assert.True(t, conf.Store.UseMemory)
	assert.Equal(t, "self", conf.Flow.SetupPolicy)
}

func TestLoad_Missing(t *testing.T) {
	clearEnv(t)
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}
