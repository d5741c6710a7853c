package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapProvider(t *testing.T) {
	t.Parallel()
	p := NewMapProvider(map[string]string{"A": "1", "EMPTY": ""})

	v, ok := p.Get(t.Context(), "A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = p.Get(t.Context(), "EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = p.Get(t.Context(), "MISSING")
	assert.False(t, ok)
}

func TestMultiProviderFirstHitWins(t *testing.T) {
	t.Parallel()
	p := NewMultiProvider(
		NewMapProvider(map[string]string{"A": "first"}),
		NewMapProvider(map[string]string{"A": "second", "B": "fallback"}),
	)

	v, ok := p.Get(t.Context(), "A")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = p.Get(t.Context(), "B")
	assert.True(t, ok)
	assert.Equal(t, "fallback", v)

	_, ok = p.Get(t.Context(), "C")
	assert.False(t, ok)
}

func TestOsEnvProvider(t *testing.T) {
	t.Setenv("COPILOT_ENV_TEST", "yes")
	p := NewOsEnvProvider()

	v, ok := p.Get(t.Context(), "COPILOT_ENV_TEST")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}
