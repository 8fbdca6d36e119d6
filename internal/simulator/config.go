package simulator

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/jokerforbots/internal/bot"
)

// FileConfig is the HCL layout of a simulation file:
//
//	simulation {
//	  games   = 500
//	  seed    = 42
//	  workers = 4
//	  timeout = "10s"
//	  seats   = ["hard", "cautious", "normal", "random"]
//	}
//
//	profile "cautious" {
//	  base         = "hard"
//	  chase_weight = 90
//	}
type FileConfig struct {
	Simulation SimulationSettings `hcl:"simulation,block"`
	Profiles   hcl.Body           `hcl:",remain"`
}

// SimulationSettings contains the simulation block
type SimulationSettings struct {
	Games   int      `hcl:"games,optional"`
	Seed    int64    `hcl:"seed,optional"`
	Workers int      `hcl:"workers,optional"`
	Timeout string   `hcl:"timeout,optional"`
	Seats   []string `hcl:"seats,optional"`
}

// DefaultGames is used when a config leaves games unset.
const DefaultGames = 100

// LoadConfig loads a simulation config from an HCL file. Profile blocks in
// the same file become custom profiles.
func LoadConfig(filename string) (Config, error) {
	if _, err := os.Stat(filename); err != nil {
		return Config{}, fmt.Errorf("failed to read simulation config: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decodeConfig(file.Body)
}

// ParseConfig is LoadConfig over in-memory source.
func ParseConfig(src []byte, filename string) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decodeConfig(file.Body)
}

func decodeConfig(body hcl.Body) (Config, error) {
	var fc FileConfig
	if diags := gohcl.DecodeBody(body, nil, &fc); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	custom, err := bot.DecodeProfiles(fc.Profiles)
	if err != nil {
		return Config{}, err
	}

	// Apply defaults for missing values
	settings := fc.Simulation
	if settings.Games == 0 {
		settings.Games = DefaultGames
	}
	timeout := DefaultTimeout
	if settings.Timeout != "" {
		timeout, err = time.ParseDuration(settings.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timeout %q: %w", settings.Timeout, err)
		}
	}

	cfg := Config{
		Games:    settings.Games,
		Profiles: settings.Seats,
		Custom:   custom,
		Seed:     settings.Seed,
		Workers:  settings.Workers,
		Timeout:  timeout,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a config file or flags can get wrong. Profile
// names are resolved later by New.
func (c Config) Validate() error {
	if c.Games <= 0 {
		return ErrNoGames
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	if c.Players != 0 && len(c.Profiles) != 0 && c.Players != len(c.Profiles) {
		return fmt.Errorf("%d profiles for %d players", len(c.Profiles), c.Players)
	}
	return nil
}
