package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMeta(t *testing.T) {
	top := map[string]interface{}{
		"data":       []interface{}{},
		"links":      Links{},
		"total":      15,
		"limit":      2,
		"skip":       0,
		"queryTime":  "3ms",
		"serverName": "a",
	}

	kept, meta := ExtractMeta(top)
	assert.Equal(t, map[string]interface{}{
		"total":       15,
		"limit":       2,
		"skip":        0,
		"query-time":  "3ms",
		"server-name": "a",
	}, meta)
	assert.Len(t, kept, 2)
	assert.Contains(t, kept, "data")
	assert.Contains(t, kept, "links")
	assert.Contains(t, top, "total", "input is not modified")
}

func TestExtractMeta_NothingToMove(t *testing.T) {
	kept, meta := ExtractMeta(map[string]interface{}{"data": nil, "included": nil, "meta": nil})
	assert.Nil(t, meta)
	assert.Len(t, kept, 3)

	kept, meta = ExtractMeta(nil)
	assert.Nil(t, meta)
	assert.Empty(t, kept)
}
