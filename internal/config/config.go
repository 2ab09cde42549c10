package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	OutputJSON = "json"
	OutputXLSX = "xlsx"
)

type Config struct {
	RulesFile        string
	TransactionsFile string
	OutputFormat     string
	OutputFile       string
	BatchWorkers     int
	LogLevel         zerolog.Level
	LogFile          string
	DemoSeed         int64
	DemoTransactions int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		RulesFile:        getEnv("RULES_FILE", ""),
		TransactionsFile: getEnv("TRANSACTIONS_FILE", ""),
		OutputFormat:     outputFormat(getEnv("OUTPUT_FORMAT", OutputJSON)),
		OutputFile:       getEnv("OUTPUT_FILE", ""),
		BatchWorkers:     getEnvInt("BATCH_WORKERS", 4),
		LogLevel:         logLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:          getEnv("LOG_FILE", ""),
		DemoSeed:         int64(getEnvInt("DEMO_SEED", 42)),
		DemoTransactions: getEnvInt("DEMO_TRANSACTIONS", 50),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(getEnv(key, "")))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func outputFormat(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), OutputXLSX) {
		return OutputXLSX
	}
	return OutputJSON
}

func logLevel(v string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(v)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
