// Package config holds the read-only configuration for a cycle and the
// loader that resolves it from a workspace dotfile plus environment
// variables. Environment variables take precedence over the dotfile,
// and the dotfile over Defaults(); there is no explicit config-file path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/sreeduggirala/checkmate/internal/errs"
	"github.com/sreeduggirala/checkmate/internal/log"
)

// ReviewMode gates when the reviewer is invoked during a cycle.
type ReviewMode string

const (
	ReviewAlways    ReviewMode = "always"
	ReviewSelective ReviewMode = "selective"
	ReviewFinalOnly ReviewMode = "final_only"
)

// ReviewStrictness selects the strictness clause appended to the
// reviewer's system prompt.
type ReviewStrictness string

const (
	StrictnessLenient  ReviewStrictness = "lenient"
	StrictnessBalanced ReviewStrictness = "balanced"
	StrictnessStrict   ReviewStrictness = "strict"
)

// ProviderKind identifies an LLM vendor backend.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
)

// Config is the read-only configuration for a single cycle. It is
// rebuilt once per cycle from the workspace dotfile and environment;
// nothing in the orchestration core mutates it.
type Config struct {
	BuilderProvider   ProviderKind `mapstructure:"builder_provider"`
	BuilderModel      string       `mapstructure:"builder_model"`
	ReviewerProvider  ProviderKind `mapstructure:"reviewer_provider"`
	ReviewerModel     string       `mapstructure:"reviewer_model"`
	ModeratorProvider ProviderKind `mapstructure:"moderator_provider"`
	ModeratorModel    string       `mapstructure:"moderator_model"`

	TestCommand string   `mapstructure:"test_command"`
	AllowPaths  []string `mapstructure:"allow_paths"`

	MaxIterations int `mapstructure:"max_iterations"`

	ReviewMode        ReviewMode       `mapstructure:"review_mode"`
	ReviewOnTestPass  bool             `mapstructure:"review_on_test_pass"`
	ReviewStrictness  ReviewStrictness `mapstructure:"review_strictness"`
	EnableModerator   bool             `mapstructure:"enable_moderator"`
	ContextSummaryMax int              `mapstructure:"context_summary_threshold"`
}

// configFileNames are tried in order in the workspace root. ".dualagent.json"
// is the current name; ".checkmate.json" is tolerated for historical
// deployments that predate the rename.
var configFileNames = []string{".dualagent.json", ".checkmate.json"}

// Defaults returns a Config populated with the documented defaults.
func Defaults() Config {
	return Config{
		BuilderProvider:   ProviderAnthropic,
		ReviewerProvider:  ProviderAnthropic,
		ModeratorProvider: ProviderAnthropic,
		MaxIterations:     3,
		ReviewMode:        ReviewAlways,
		ReviewOnTestPass:  true,
		ReviewStrictness:  StrictnessBalanced,
		EnableModerator:   false,
		ContextSummaryMax: 2000,
	}
}

// Load resolves configuration for the given workspace root: it tries
// each recognized config file name in order, overlays values from
// environment variables, and falls back to Defaults() for anything
// left unset. Unknown fields in the config file are ignored.
func Load(workspaceRoot string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("DUALAGENT")
	v.AutomaticEnv()

	applyDefaults(v, cfg)

	path, found := findConfigFile(workspaceRoot)
	if found {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.ErrorErr(log.CatConfig, "failed to read config file", err, "path", path)
			return Config{}, fmt.Errorf("%w: reading %s: %s", errs.ErrConfig, path, err)
		}
		log.Debug(log.CatConfig, "loaded config file", "path", path)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decoding: %s", errs.ErrConfig, err)
	}

	return cfg, nil
}

func findConfigFile(workspaceRoot string) (string, bool) {
	for _, name := range configFileNames {
		p := filepath.Join(workspaceRoot, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

func applyDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("builder_provider", cfg.BuilderProvider)
	v.SetDefault("reviewer_provider", cfg.ReviewerProvider)
	v.SetDefault("moderator_provider", cfg.ModeratorProvider)
	v.SetDefault("max_iterations", cfg.MaxIterations)
	v.SetDefault("review_mode", cfg.ReviewMode)
	v.SetDefault("review_on_test_pass", cfg.ReviewOnTestPass)
	v.SetDefault("review_strictness", cfg.ReviewStrictness)
	v.SetDefault("enable_moderator", cfg.EnableModerator)
	v.SetDefault("context_summary_threshold", cfg.ContextSummaryMax)
}

// RequiredEnvVar returns the environment variable name that must be
// set for the given provider, and whether it is currently set.
func RequiredEnvVar(p ProviderKind) (name string, set bool) {
	switch p {
	case ProviderOpenAI:
		name = "OPENAI_API_KEY"
	case ProviderAnthropic:
		name = "ANTHROPIC_API_KEY"
	default:
		return "", false
	}
	_, set = os.LookupEnv(name)
	return name, set
}

// ErrMissingAPIKey is a ConfigError: the environment variable required
// by a configured provider is not set. This is fatal at startup.
type ErrMissingAPIKey struct {
	Provider ProviderKind
	EnvVar   string
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("%s: provider %q requires environment variable %s", errs.ErrConfig, e.Provider, e.EnvVar)
}

// Unwrap exposes ErrConfig so callers can test with errors.Is(err, errs.ErrConfig).
func (e *ErrMissingAPIKey) Unwrap() error {
	return errs.ErrConfig
}

// ValidateEnv checks that every provider referenced by cfg has its
// required API key set in the environment. WORKSPACE_ROOT is an
// optional override read directly by the CLI entrypoint, not by this
// package; no code in this module reads PORT.
func ValidateEnv(cfg Config) error {
	providers := map[ProviderKind]bool{
		cfg.BuilderProvider:  true,
		cfg.ReviewerProvider: true,
	}
	if cfg.EnableModerator {
		providers[cfg.ModeratorProvider] = true
	}
	for p := range providers {
		name, set := RequiredEnvVar(p)
		if name == "" {
			continue
		}
		if !set {
			return &ErrMissingAPIKey{Provider: p, EnvVar: name}
		}
	}
	return nil
}
