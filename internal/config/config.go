// Package config handles configuration for the SmartTask binaries,
// including defaults, a .env overlay, a JSON file and command-line flags.
package config

import (
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/cryptox"
)

// Config holds runtime settings shared by the server and the console client.
//
// Fields:
//   - DataDir: directory holding the record files.
//   - AccountsFile / TasksFile: file names inside DataDir.
//   - HTTPAddr: bind address for the HTTP API.
//   - SecretKey: HMAC secret for signing session tokens (HS256). When empty
//     the server generates a random one at startup.
//   - TokenValidityDuration: session token lifetime.
//   - HashAlgorithm: "bcrypt" or "argon2id" for new password hashes.
//   - BcryptCost: work factor for bcrypt hashes.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
type Config struct {
	DataDir               string
	AccountsFile          string
	TasksFile             string
	HTTPAddr              string
	SecretKey             string
	TokenValidityDuration time.Duration
	HashAlgorithm         string
	BcryptCost            int
	LogLevel              string
	LogFormat             string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.AccountsFile = "students.txt"
	c.TasksFile = "tasks.txt"
	c.HTTPAddr = ":8080"
	c.SecretKey = ""
	c.TokenValidityDuration = 24 * time.Hour
	c.HashAlgorithm = cryptox.AlgorithmBcrypt
	c.BcryptCost = cryptox.DefaultCost
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// AccountsPath is the full path of the accounts file.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.DataDir, c.AccountsFile)
}

// TasksPath is the full path of the tasks file.
func (c *Config) TasksPath() string {
	return filepath.Join(c.DataDir, c.TasksFile)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from .env and the environment, an optional JSON file and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, DotEnvFile)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
