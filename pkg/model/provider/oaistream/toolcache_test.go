package oaistream

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/tools"
)

func testTool(name string) tools.Tool {
	return tools.Tool{
		Type: tools.ToolTypeFunction,
		Function: &tools.FunctionDefinition{
			Name: name,
			Parameters: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{"query": map[string]any{"type": "string"}},
			},
		},
	}
}

func TestToolConverterCachesBySignature(t *testing.T) {
	t.Parallel()
	c := NewToolConverter()
	selection := []tools.Tool{testTool("searchTasks"), testTool("createTask")}

	first, cached := c.Convert(selection)
	assert.False(t, cached)
	require.Len(t, first, 2)
	assert.Equal(t, "searchTasks", first[0].Function.Name)

	// Order does not matter: the signature is the sorted name set.
	second, cached := c.Convert([]tools.Tool{testTool("createTask"), testTool("searchTasks")})
	assert.True(t, cached)
	assert.Equal(t, first, second)

	third, cached := c.Convert([]tools.Tool{testTool("deleteTask")})
	assert.False(t, cached)
	require.Len(t, third, 1)
}

func TestToolConvertersAreInstanceScoped(t *testing.T) {
	t.Parallel()
	selection := []tools.Tool{testTool("searchDocs")}

	_, cached := NewToolConverter().Convert(selection)
	assert.False(t, cached)

	_, cached = NewToolConverter().Convert(selection)
	assert.False(t, cached, "converters must not share entries")
}
