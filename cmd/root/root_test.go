package root

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), &stdout, &stderr, args...)
	return stdout.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "copilot version")
}

func TestToolsCommand(t *testing.T) {
	out, err := runCLI(t, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "core:")
	assert.Contains(t, out, "searchWorkspace")
	assert.Contains(t, out, "createTask")
}

func TestClassifyCommand(t *testing.T) {
	out, err := runCLI(t, "classify", "create a table called Budget with columns Item and Cost")
	require.NoError(t, err)
	assert.Contains(t, out, "confidence:")
	assert.Contains(t, out, "createTable")
}

func TestRunRequiresExecutor(t *testing.T) {
	t.Setenv("COPILOT_EXECUTOR_URL", "")
	_, err := runCLI(t, "run", "list my tasks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no executor configured")
}
