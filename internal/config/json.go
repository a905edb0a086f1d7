package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/smarttask/internal/flagx"
	"github.com/dmitrijs2005/smarttask/internal/timex"
)

// JsonConfig is the on-disk shape of a JSON config file. Durations accept
// either a string such as "1h" or integer nanoseconds.
type JsonConfig struct {
	DataDir               string         `json:"data_dir"`
	AccountsFile          string         `json:"accounts_file"`
	TasksFile             string         `json:"tasks_file"`
	HTTPAddr              string         `json:"http_addr"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	HashAlgorithm         string         `json:"hash_algorithm"`
	BcryptCost            int            `json:"bcrypt_cost"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
}

// parseJson loads the file named by -c/-config into config. Only fields
// present in the file are applied. A file that cannot be read or parsed
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DataDir, c.DataDir)
	setString(&config.AccountsFile, c.AccountsFile)
	setString(&config.TasksFile, c.TasksFile)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.HashAlgorithm, c.HashAlgorithm)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
