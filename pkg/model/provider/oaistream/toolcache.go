package oaistream

import (
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/taskgrid/copilot/pkg/tools"
	"github.com/taskgrid/copilot/pkg/toolset"
)

// ToolConverter memoizes the SDK conversion of tool selections so
// repeated requests with the same selection skip re-serializing the
// schemas. Each client owns one converter, so tests can isolate
// instances and assert on hit/miss behavior.
type ToolConverter struct {
	cache *toolset.SchemaCache
}

func NewToolConverter() *ToolConverter {
	return &ToolConverter{cache: toolset.NewSchemaCache()}
}

// Convert returns the provider-ready tool schema for a selection,
// computing it at most once per sorted tool-name signature. The
// second return reports a cache hit.
func (c *ToolConverter) Convert(selection []tools.Tool) ([]openai.Tool, bool) {
	signature := toolset.Signature(selection)
	schema, cached, err := c.cache.Format(signature, func() (any, error) {
		return ConvertTools(selection), nil
	})
	if err != nil {
		slog.Warn("Tool schema caching failed, converting uncached", "error", err)
		return ConvertTools(selection), false
	}
	slog.Debug("Tool schema ready",
		"tools", len(selection),
		"cached", cached,
		"approx_tokens", schema.ApproxTokens)
	return schema.Payload.([]openai.Tool), cached
}
