package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/environment"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := Default()

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 6, cfg.MaxToolIterations)
	assert.Equal(t, 2, cfg.RepeatCallThreshold)
	assert.Equal(t, 3, cfg.ConsecutiveErrorLimit)
	assert.True(t, cfg.CompactToolResults)
	assert.True(t, cfg.SkipFinalModelCall)
	assert.True(t, cfg.TrimToolsToIntent)
	assert.Greater(t, cfg.FinalRoundMaxTokens, cfg.ToolRoundMaxTokens)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Parallel()
	env := environment.NewMapProvider(map[string]string{
		"COPILOT_PROVIDER":            "deepseek",
		"COPILOT_MODEL":               "deepseek-chat",
		"COPILOT_MAX_TOOL_ITERATIONS": "10",
		"COPILOT_SKIP_FINAL_MODEL_CALL": "false",
		"COPILOT_COMPACT_MAX_DEPTH":   "2",
	})

	cfg, err := Load(t.Context(), env, "")
	require.NoError(t, err)

	assert.Equal(t, "deepseek", cfg.Provider)
	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.Equal(t, 10, cfg.MaxToolIterations)
	assert.False(t, cfg.SkipFinalModelCall)
	assert.Equal(t, 2, cfg.Compaction.MaxDepth)
	// Untouched defaults survive.
	assert.True(t, cfg.CompactToolResults)
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "copilot.yaml")
	content := `
provider: deepseek
model: deepseek-chat
max_tool_iterations: 8
compaction:
  max_string_len: 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	env := environment.NewMapProvider(map[string]string{
		"COPILOT_MAX_TOOL_ITERATIONS": "4",
	})

	cfg, err := Load(t.Context(), env, path)
	require.NoError(t, err)

	assert.Equal(t, "deepseek", cfg.Provider)
	assert.Equal(t, 100, cfg.Compaction.MaxStringLen)
	// Env wins over file.
	assert.Equal(t, 4, cfg.MaxToolIterations)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Parallel()
	env := environment.NewMapProvider(map[string]string{
		"COPILOT_PROVIDER": "palantir",
	})

	_, err := Load(t.Context(), env, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider type")
}

func TestLoadInvalidNumbersIgnored(t *testing.T) {
	t.Parallel()
	env := environment.NewMapProvider(map[string]string{
		"COPILOT_MAX_TOOL_ITERATIONS": "not-a-number",
	})

	cfg, err := Load(t.Context(), env, "")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.MaxToolIterations)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()
	_, err := Load(t.Context(), environment.NewMapProvider(nil), "/nonexistent/copilot.yaml")
	assert.Error(t, err)
}
