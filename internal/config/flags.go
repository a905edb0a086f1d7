package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string   data directory
//	-a string   HTTP bind address (e.g. ":8080")
//	-s string   token signing secret
//	-t int      token validity, minutes
//	-b int      bcrypt cost
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json)
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-a", "-s", "-t", "-b", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*validity) * time.Minute
}
