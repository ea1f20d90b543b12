package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupe(t *testing.T) {
	first := &Resource{Type: "users", ID: "1", Attributes: map[string]interface{}{"name": "old"}}
	other := &Resource{Type: "users", ID: "2"}
	later := &Resource{Type: "users", ID: "1", Attributes: map[string]interface{}{"name": "new"}}
	sameIDOtherType := &Resource{Type: "posts", ID: "1"}

	out := Dedupe([]*Resource{first, other, later, sameIDOtherType})
	require.Len(t, out, 3)
	assert.Same(t, later, out[0], "later occurrence wins")
	assert.Same(t, other, out[1])
	assert.Same(t, sameIDOtherType, out[2])
}

func TestDedupe_Empty(t *testing.T) {
	assert.Nil(t, Dedupe(nil))
	assert.Empty(t, Dedupe([]*Resource{nil}))
}

func TestDedupe_SharedRelatedRecord(t *testing.T) {
	topics, _ := topicModels()
	parent := Record{"id": 1, "title": "Go"}
	records := []Record{
		{"id": 2, "title": "Channels", "parent_topic_id": 1, "parentTopic": parent},
		{"id": 3, "title": "Goroutines", "parent_topic_id": 1, "parentTopic": parent},
	}

	out, err := AssembleMany(records, topics, "/topics", includeOnly(topics, "parentTopic"))
	require.NoError(t, err)
	require.Len(t, out.Related, 2)

	included := Dedupe(out.Related)
	require.Len(t, included, 1)
	assert.Equal(t, "1", included[0].ID)
}
