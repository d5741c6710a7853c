package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/config"
	"github.com/taskgrid/copilot/pkg/environment"
)

func TestNewSelectsByConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider string
		envKey   string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"deepseek", "DEEPSEEK_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			cfg.Provider = tt.provider

			p, err := New(cfg, environment.NewMapProvider(map[string]string{tt.envKey: "k"}))
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestNewUnknownProvider(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Provider = "mystery"

	_, err := New(cfg, environment.NewMapProvider(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider type")
}

func TestNewMissingCredentialIsConfigurationError(t *testing.T) {
	t.Parallel()
	_, err := New(config.Default(), environment.NewMapProvider(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}
