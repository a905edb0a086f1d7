package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

const (
	EnvDataDir   = "SMARTTASK_DATA_DIR"
	EnvHTTPAddr  = "SMARTTASK_HTTP_ADDR"
	EnvSecretKey = "SMARTTASK_SECRET_KEY"
	EnvLogLevel  = "SMARTTASK_LOG_LEVEL"
)

// parseEnv overlays values from the dotenv file and the process environment.
// Process variables win over the file. A missing file is ignored; a file
// that cannot be parsed panics, as a broken JSON config does.
func parseEnv(config *Config, dotEnvFile string) {
	values := map[string]string{}

	if dotEnvFile != "" {
		fileValues, err := godotenv.Read(dotEnvFile)
		switch {
		case err == nil:
			values = fileValues
		case errors.Is(err, fs.ErrNotExist):
		default:
			panic(err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}

	if v, ok := lookup(EnvDataDir); ok && v != "" {
		config.DataDir = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		config.HTTPAddr = v
	}
	if v, ok := lookup(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		config.LogLevel = v
	}
}
