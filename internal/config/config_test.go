package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 3, d.MaxIterations)
	assert.Equal(t, ReviewAlways, d.ReviewMode)
	assert.True(t, d.ReviewOnTestPass)
	assert.Equal(t, StrictnessBalanced, d.ReviewStrictness)
	assert.False(t, d.EnableModerator)
	assert.Equal(t, 2000, d.ContextSummaryMax)
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxIterations)
	assert.Equal(t, ReviewAlways, cfg.ReviewMode)
}

func TestLoadDualAgentFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dualagent.json"), []byte(`{"max_iterations": 7, "review_mode": "selective"}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxIterations)
	assert.Equal(t, ReviewSelective, cfg.ReviewMode)
}

func TestLoadLegacyCheckmateFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".checkmate.json"), []byte(`{"max_iterations": 5}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxIterations)
}

func TestLoadPrefersCurrentFilenameOverLegacy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dualagent.json"), []byte(`{"max_iterations": 9}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".checkmate.json"), []byte(`{"max_iterations": 1}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MaxIterations)
}

func TestValidateEnvMissingKey(t *testing.T) {
	os.Unsetenv("OPENAI_API_KEY")
	os.Unsetenv("ANTHROPIC_API_KEY")

	cfg := Defaults()
	cfg.BuilderProvider = ProviderOpenAI
	cfg.ReviewerProvider = ProviderAnthropic

	err := ValidateEnv(cfg)
	require.Error(t, err)
	var missing *ErrMissingAPIKey
	require.ErrorAs(t, err, &missing)
}

func TestValidateEnvSatisfied(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg := Defaults()
	cfg.BuilderProvider = ProviderOpenAI
	cfg.ReviewerProvider = ProviderAnthropic

	assert.NoError(t, ValidateEnv(cfg))
}

func TestValidateEnvSkipsModeratorWhenDisabled(t *testing.T) {
	os.Unsetenv("OPENAI_API_KEY")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg := Defaults()
	cfg.BuilderProvider = ProviderAnthropic
	cfg.ReviewerProvider = ProviderAnthropic
	cfg.ModeratorProvider = ProviderOpenAI
	cfg.EnableModerator = false

	assert.NoError(t, ValidateEnv(cfg))
}
