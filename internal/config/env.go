package config

import (
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFile loads environment variables from .env/.env.local next to the
// metadata file. Existing process environment variables are not overwritten.
func loadEnvFile(root string) {
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(root, name)
		if err := godotenv.Load(p); err == nil {
			slog.Debug("Loaded environment variables", "path", p)
			return
		}
	}
}
