package params

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Storage selects where the store documents live.
type Storage struct {
	// Backend is "pebble" or "file".
	Backend string
	DataDir string
}

type Config struct {
	Storage Storage
	LogFile string
}

func Default() Config {
	return Config{
		Storage: Storage{
			Backend: "pebble",
			DataDir: "data",
		},
		LogFile: filepath.Join("data", "settlex.log"),
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if dir := os.Getenv("SETTLEX_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	if backend := os.Getenv("SETTLEX_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}

	return cfg
}
