package config

import (
	"flag"
	"os"
	"strconv"
)

type Config struct {
	DataDir  string
	Serve    bool
	Port     int
	Password string
	LogLevel int
}

func Parse() *Config {
	cfg := &Config{}
	flag.StringVar(&cfg.DataDir, "datadir", envStr("ONETABLE_DATADIR", "."), "directory for database files")
	flag.BoolVar(&cfg.Serve, "serve", envBool("ONETABLE_SERVE", false), "run the TCP line server instead of the interactive shell")
	flag.IntVar(&cfg.Port, "port", envInt("ONETABLE_PORT", 7432), "listen port (with -serve)")
	flag.StringVar(&cfg.Password, "password", envStr("ONETABLE_PASSWORD", ""), "connection password (with -serve; empty = no auth)")
	flag.IntVar(&cfg.LogLevel, "log-level", envInt("ONETABLE_LOG_LEVEL", 0), "log verbosity (0=off, 1=executed commands)")
	flag.Parse()
	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
