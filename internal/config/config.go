// Package config loads codequest settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"codequest/internal/game"
)

// Config holds all codequest configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Game       GameConfig       `yaml:"game"`
	Challenges ChallengesConfig `yaml:"challenges"`
	Submission SubmissionConfig `yaml:"submission"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
	UI         UIConfig         `yaml:"ui"`
}

// GameConfig configures saves and hints.
type GameConfig struct {
	// SaveDir holds character saves, the journal and logs.
	SaveDir         string `yaml:"save_dir"`
	StartingArea    string `yaml:"starting_area"`
	HintsPerRequest int    `yaml:"hints_per_request"`
	// HintSeed seeds the hint generator; 0 seeds from the clock.
	HintSeed int64 `yaml:"hint_seed"`
}

// ChallengesConfig selects which challenges are loaded.
type ChallengesConfig struct {
	PackDirs []string `yaml:"pack_dirs,omitempty"`
	// Enabled limits the built-in challenges by id. Empty enables all.
	Enabled []string `yaml:"enabled,omitempty"`
}

// SubmissionConfig configures the interpreter learner code runs in.
type SubmissionConfig struct {
	// BlockedImports is a deny-list of import paths; "x/..." blocks a subtree.
	BlockedImports []string `yaml:"blocked_imports,omitempty"`
	CaptureOutput  bool     `yaml:"capture_output"`
	// Isolate runs each verification in a child process, so a crash in
	// learner code (a stack overflow, say) fails the attempt instead of the
	// game.
	Isolate bool `yaml:"isolate"`
}

// StoreConfig configures the attempt journal.
type StoreConfig struct {
	Enabled bool `yaml:"enabled"`
	// DatabasePath defaults to journal.db in the save dir.
	DatabasePath string `yaml:"database_path"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	// Theme is a glamour style: dark, light, notty or auto.
	Theme string `yaml:"theme"`
	Width int    `yaml:"width"`
}

// ValidThemes lists the accepted UI themes.
var ValidThemes = []string{"auto", "dark", "light", "notty"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "codequest",
		Version: "0.1.0",
		Game: GameConfig{
			SaveDir:         ".codequest",
			StartingArea:    game.AlgorithmForest,
			HintsPerRequest: 3,
		},
		Submission: SubmissionConfig{
			CaptureOutput: true,
			Isolate:       true,
		},
		Store: StoreConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "auto",
			Width: 80,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// envOverrides are the settings the environment can override.
type envOverrides struct {
	SaveDir  string `env:"CODEQUEST_SAVE_DIR"`
	Database string `env:"CODEQUEST_DB"`
	// PackDirs is a list separated like PATH.
	PackDirs string `env:"CODEQUEST_PACK_DIRS"`
	Theme    string `env:"CODEQUEST_THEME"`
	HintSeed *int64 `env:"CODEQUEST_HINT_SEED"`
	Debug    *bool  `env:"CODEQUEST_DEBUG"`
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.SaveDir != "" {
		c.Game.SaveDir = o.SaveDir
	}
	if o.Database != "" {
		c.Store.DatabasePath = o.Database
	}
	if o.PackDirs != "" {
		c.Challenges.PackDirs = nil
		for _, d := range filepath.SplitList(o.PackDirs) {
			if d = strings.TrimSpace(d); d != "" {
				c.Challenges.PackDirs = append(c.Challenges.PackDirs, d)
			}
		}
	}
	if o.Theme != "" {
		c.UI.Theme = o.Theme
	}
	if o.HintSeed != nil {
		c.Game.HintSeed = *o.HintSeed
	}
	if o.Debug != nil {
		c.Logging.DebugMode = *o.Debug
	}
	return nil
}

// CharactersDir is where character saves live.
func (c *Config) CharactersDir() string {
	return filepath.Join(c.Game.SaveDir, "characters")
}

// LogDir is where category log files are written.
func (c *Config) LogDir() string {
	return filepath.Join(c.Game.SaveDir, "logs")
}

// JournalPath is the attempt journal database path.
func (c *Config) JournalPath() string {
	if c.Store.DatabasePath != "" {
		return c.Store.DatabasePath
	}
	return filepath.Join(c.Game.SaveDir, "journal.db")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Game.SaveDir) == "" {
		return fmt.Errorf("game.save_dir is required")
	}
	if c.Game.HintsPerRequest < 1 {
		return fmt.Errorf("game.hints_per_request must be at least 1, got %d", c.Game.HintsPerRequest)
	}
	if _, ok := game.NewWorld().Area(c.Game.StartingArea); !ok {
		return fmt.Errorf("game.starting_area: unknown area %q", c.Game.StartingArea)
	}
	if !contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	if c.UI.Width < 0 {
		return fmt.Errorf("ui.width must not be negative")
	}
	for _, b := range c.Submission.BlockedImports {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("submission.blocked_imports contains an empty path")
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
