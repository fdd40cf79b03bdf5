package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server's environment configuration. A .env file, if present,
// is loaded by the entrypoint before parsing.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// AllowRejoin lets a kicked student rejoin under the same name. By
	// default a kicked name stays barred for the session's lifetime.
	AllowRejoin bool `env:"ALLOW_REJOIN" envDefault:"false"`

	// AskCooldown is the server-enforced pause between showing results and
	// accepting the next question.
	AskCooldown time.Duration `env:"ASK_COOLDOWN" envDefault:"2s"`

	// ChatHistoryLimit caps how many chat messages a session retains
	// (0 = unbounded).
	ChatHistoryLimit int `env:"CHAT_HISTORY_LIMIT" envDefault:"500"`

	ExportEnabled bool   `env:"EXPORT_ENABLED" envDefault:"false"`
	ExportFile    string `env:"EXPORT_FILE" envDefault:"./livepoll-results.txt"`
}

func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}
