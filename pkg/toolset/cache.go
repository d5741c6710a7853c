package toolset

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kofalt/go-memoize"
)

// Schema is a cache entry: the provider-ready payload for one tool
// selection plus a rough size metric for budgeting.
type Schema struct {
	Payload      any
	ApproxTokens int
}

// noExpiration keeps entries forever; tool definitions are static
// configuration, so entries never go stale.
const noExpiration time.Duration = -1

// SchemaCache memoizes converted schemas by tool-name signature.
// Recomputation is pure, so a miss is always safe. The key space is
// bounded by the distinct group combinations, which is small and
// finite, so there is no eviction.
type SchemaCache struct {
	memo *memoize.Memoizer
}

func NewSchemaCache() *SchemaCache {
	return &SchemaCache{memo: memoize.NewMemoizer(noExpiration, 0)}
}

// Format returns the converted schema for a selection, computing it
// at most once per signature. The second return reports a cache hit.
func (c *SchemaCache) Format(signature string, build func() (any, error)) (*Schema, bool, error) {
	value, err, cached := c.memo.Memoize(signature, func() (any, error) {
		payload, err := build()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("formatting tool schema: %w", err)
		}
		return &Schema{
			Payload: payload,
			// Rough heuristic: one token per four bytes of schema.
			ApproxTokens: len(data) / 4,
		}, nil
	})
	if err != nil {
		return nil, cached, err
	}
	return value.(*Schema), cached, nil
}
