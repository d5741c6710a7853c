// Package config is the engine's configuration surface. Values come
// from an optional YAML file overridden by environment variables, so
// deployments can tune limits without shipping a file.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/taskgrid/copilot/pkg/compact"
	"github.com/taskgrid/copilot/pkg/environment"
)

// Config holds every toggle and numeric limit the engine honors.
type Config struct {
	// Provider selects the model backend: "openai" or "deepseek".
	Provider string `yaml:"provider"`
	// Model is the model identifier sent to the provider.
	Model string `yaml:"model"`
	// BaseURL overrides the provider's default endpoint.
	BaseURL string `yaml:"base_url"`
	// Temperature is fixed low for deterministic tool planning.
	Temperature float64 `yaml:"temperature"`

	// MaxToolIterations is the hard ceiling on conversation rounds.
	// Exceeding it is a terminal failure, never a silent success.
	MaxToolIterations int `yaml:"max_tool_iterations"`
	// ToolRoundMaxTokens is the token budget while more tool rounds
	// are expected.
	ToolRoundMaxTokens int `yaml:"tool_round_max_tokens"`
	// FinalRoundMaxTokens is the larger budget once a tool result is
	// already in the conversation and the next call is likely the
	// final natural-language answer.
	FinalRoundMaxTokens int `yaml:"final_round_max_tokens"`
	// RepeatCallThreshold terminates the loop when the same non-search
	// call repeats this many times.
	RepeatCallThreshold int `yaml:"repeat_call_threshold"`
	// ConsecutiveErrorLimit is the per-tool failure count that turns
	// into a terminal failure.
	ConsecutiveErrorLimit int `yaml:"consecutive_error_limit"`

	// CompactToolResults bounds tool output before echoing it back to
	// the model.
	CompactToolResults bool `yaml:"compact_tool_results"`
	// SkipFinalModelCall enables the early-exit optimizations after a
	// fully-successful round.
	SkipFinalModelCall bool `yaml:"skip_final_model_call"`
	// TrimToolsToIntent enables narrow-to-intent schema trimming.
	TrimToolsToIntent bool `yaml:"trim_tools_to_intent"`

	// Compaction caps applied when CompactToolResults is on.
	Compaction compact.Caps `yaml:"compaction"`

	// ExecutorURL is the endpoint of the HTTP tool executor.
	ExecutorURL string `yaml:"executor_url"`
}

// Default returns the engine defaults.
func Default() *Config {
	return &Config{
		Provider:              "openai",
		Model:                 "gpt-4o-mini",
		Temperature:           0.1,
		MaxToolIterations:     6,
		ToolRoundMaxTokens:    1024,
		FinalRoundMaxTokens:   2048,
		RepeatCallThreshold:   2,
		ConsecutiveErrorLimit: 3,
		CompactToolResults:    true,
		SkipFinalModelCall:    true,
		TrimToolsToIntent:     true,
		Compaction:            compact.DefaultCaps(),
	}
}

// LoadFile reads a YAML config file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file\n%s", yaml.FormatError(err, true, true))
	}
	return cfg, nil
}

// Load builds the effective config: defaults, then the optional YAML
// file, then environment overrides.
func Load(ctx context.Context, env environment.Provider, path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.applyEnv(ctx, env)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(ctx context.Context, env environment.Provider) {
	getString(ctx, env, "COPILOT_PROVIDER", &c.Provider)
	getString(ctx, env, "COPILOT_MODEL", &c.Model)
	getString(ctx, env, "COPILOT_BASE_URL", &c.BaseURL)
	getString(ctx, env, "COPILOT_EXECUTOR_URL", &c.ExecutorURL)
	getFloat(ctx, env, "COPILOT_TEMPERATURE", &c.Temperature)

	getInt(ctx, env, "COPILOT_MAX_TOOL_ITERATIONS", &c.MaxToolIterations)
	getInt(ctx, env, "COPILOT_TOOL_ROUND_MAX_TOKENS", &c.ToolRoundMaxTokens)
	getInt(ctx, env, "COPILOT_FINAL_ROUND_MAX_TOKENS", &c.FinalRoundMaxTokens)
	getInt(ctx, env, "COPILOT_REPEAT_CALL_THRESHOLD", &c.RepeatCallThreshold)
	getInt(ctx, env, "COPILOT_CONSECUTIVE_ERROR_LIMIT", &c.ConsecutiveErrorLimit)

	getBool(ctx, env, "COPILOT_COMPACT_TOOL_RESULTS", &c.CompactToolResults)
	getBool(ctx, env, "COPILOT_SKIP_FINAL_MODEL_CALL", &c.SkipFinalModelCall)
	getBool(ctx, env, "COPILOT_TRIM_TOOLS_TO_INTENT", &c.TrimToolsToIntent)

	getInt(ctx, env, "COPILOT_COMPACT_MAX_STRING_LEN", &c.Compaction.MaxStringLen)
	getInt(ctx, env, "COPILOT_COMPACT_MAX_ARRAY_ITEMS", &c.Compaction.MaxArrayItems)
	getInt(ctx, env, "COPILOT_COMPACT_MAX_OBJECT_KEYS", &c.Compaction.MaxObjectKeys)
	getInt(ctx, env, "COPILOT_COMPACT_MAX_DEPTH", &c.Compaction.MaxDepth)
}

func (c *Config) validate() error {
	if c.Provider != "openai" && c.Provider != "deepseek" {
		return fmt.Errorf("unknown provider type: %s", c.Provider)
	}
	if c.MaxToolIterations < 1 {
		return fmt.Errorf("max_tool_iterations must be at least 1, got %d", c.MaxToolIterations)
	}
	if c.RepeatCallThreshold < 1 {
		return fmt.Errorf("repeat_call_threshold must be at least 1, got %d", c.RepeatCallThreshold)
	}
	if c.ConsecutiveErrorLimit < 1 {
		return fmt.Errorf("consecutive_error_limit must be at least 1, got %d", c.ConsecutiveErrorLimit)
	}
	return nil
}

func getString(ctx context.Context, env environment.Provider, key string, dst *string) {
	if v, ok := env.Get(ctx, key); ok && v != "" {
		*dst = v
	}
}

func getInt(ctx context.Context, env environment.Provider, key string, dst *int) {
	v, ok := env.Get(ctx, key)
	if !ok || v == "" {
		return
	}
	if parsed, err := strconv.Atoi(v); err == nil {
		*dst = parsed
	}
}

func getFloat(ctx context.Context, env environment.Provider, key string, dst *float64) {
	v, ok := env.Get(ctx, key)
	if !ok || v == "" {
		return
	}
	if parsed, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = parsed
	}
}

func getBool(ctx context.Context, env environment.Provider, key string, dst *bool) {
	v, ok := env.Get(ctx, key)
	if !ok || v == "" {
		return
	}
	if parsed, err := strconv.ParseBool(v); err == nil {
		*dst = parsed
	}
}
