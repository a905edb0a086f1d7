package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDataDir, EnvHTTPAddr, EnvSecretKey, EnvLogLevel} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func Test_parseEnv(t *testing.T) {
	dir := t.TempDir()
	dotEnv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotEnv, []byte(
		"SMARTTASK_DATA_DIR=/srv/smarttask\n"+
			"SMARTTASK_HTTP_ADDR=:9000\n"+
			"# comment\n"+
			"SMARTTASK_SECRET_KEY=from-file\n"), 0o600))

	t.Run("file values applied", func(t *testing.T) {
		clearEnv(t)
		c := &Config{}
		c.LoadDefaults()
		parseEnv(c, dotEnv)

		assert.Equal(t, "/srv/smarttask", c.DataDir)
		assert.Equal(t, ":9000", c.HTTPAddr)
		assert.Equal(t, "from-file", c.SecretKey)
		assert.Equal(t, "info", c.LogLevel)
	})

	t.Run("process environment wins over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvSecretKey, "from-env")
		t.Setenv(EnvLogLevel, "debug")
		c := &Config{}
		c.LoadDefaults()
		parseEnv(c, dotEnv)

		assert.Equal(t, "from-env", c.SecretKey)
		assert.Equal(t, "debug", c.LogLevel)
		assert.Equal(t, ":9000", c.HTTPAddr)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		clearEnv(t)
		c := &Config{}
		c.LoadDefaults()
		require.NotPanics(t, func() { parseEnv(c, filepath.Join(dir, "absent.env")) })
		assert.Equal(t, "data", c.DataDir)
	})
}
