package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds runtime settings that can be overridden from the environment.
// Values act as defaults for the matching CLI flags.
type Env struct {
	DBPath        string `env:"SUIKA_DB" envDefault:"~/.suika/scores.db"`
	LogFile       string `env:"SUIKA_LOG_FILE"`
	LogLevel      string `env:"SUIKA_LOG_LEVEL" envDefault:"info"`
	ExprAddr      string `env:"SUIKA_EXPR_ADDR"`
	SSHAddr       string `env:"SUIKA_SSH_ADDR" envDefault:":23234"`
	ConfigPath    string `env:"SUIKA_CONFIG"`
	TickRate      int    `env:"SUIKA_FPS" envDefault:"60"`
	ExprCadenceMs int    `env:"SUIKA_EXPR_CADENCE_MS" envDefault:"100"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	return e, nil
}
