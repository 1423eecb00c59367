// ABOUTME: Environment-backed defaults for the deckforge CLI, parsed with caarlos0/env.
// ABOUTME: Command-line flags are bound on top of these values, so flags always win.
package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// config holds the CLI settings. Only Output and Addr have non-empty defaults.
type config struct {
	Output  string `env:"DECKFORGE_OUTPUT" envDefault:"MongoDB_CSFLE_QE_SA_Enablement.pptx"`
	Theme   string `env:"DECKFORGE_THEME"`
	Outline string `env:"DECKFORGE_OUTLINE"`
	Handout string `env:"DECKFORGE_HANDOUT"`
	Preview string `env:"DECKFORGE_PREVIEW"`
	Verbose bool   `env:"DECKFORGE_VERBOSE"`
	History string `env:"DECKFORGE_HISTORY"`
	Addr    string `env:"DECKFORGE_ADDR" envDefault:"127.0.0.1:2389"`
}

// loadConfig reads the DECKFORGE_* environment.
func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
