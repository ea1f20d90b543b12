package jsonapi

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

func TestParseOperation(t *testing.T) {
	for _, op := range []Operation{OpFind, OpGet, OpCreate, OpUpdate, OpPatch, OpRemove} {
		parsed, err := ParseOperation(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	_, err := ParseOperation("delete")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Operation(99).String())
}

func TestSerializer_FindPaginated(t *testing.T) {
	topics, _ := topicModels()
	s := NewSerializer(topics, Options{}, nil)

	result := NewResult([]Record{
		{"id": 1, "title": "a"},
		{"id": 2, "title": "b"},
	}, 0, 2, 15)

	doc, err := s.Find(result, IncludeContext{})
	require.NoError(t, err)

	assert.Len(t, doc.Resources(), 2)
	assert.Equal(t, Links{"next": "/topics?$skip=2", "last": "/topics?$skip=14"}, doc.Links)
	assert.Equal(t, map[string]interface{}{"total": 15, "limit": 2, "skip": 0}, doc.Meta)
	assert.Nil(t, doc.Included)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.NotContains(t, wire, "total")
	assert.NotContains(t, wire, "skip")
	assert.NotContains(t, wire, "limit")
	assert.NotContains(t, wire, "included")
}

func TestSerializer_FindWithIncludes(t *testing.T) {
	topics, comments := topicModels()
	s := NewSerializer(topics, Options{}, zap.NewNop())

	parent := Record{"id": 1, "title": "Go"}
	result := &Result{Data: []Record{
		{"id": 2, "title": "Channels", "parent_topic_id": 1, "parentTopic": parent,
			"comments": []Record{{"id": 10, "body": "nice", "topic_id": 2}}},
		{"id": 3, "title": "Select", "parent_topic_id": 1, "parentTopic": parent,
			"comments": []Record{}},
	}}

	doc, err := s.Find(result, includeAll(topics))
	require.NoError(t, err)
	assert.Nil(t, doc.Links)
	assert.Nil(t, doc.Meta)

	data := doc.Resources()
	require.Len(t, data, 2)
	for _, res := range data {
		assert.NotContains(t, res.Attributes, "parent_topic_id")
		assert.NotContains(t, res.Attributes, "parentTopic")
		assert.NotContains(t, res.Attributes, "comments")
		assert.Contains(t, res.Relationships, "parent-topic")
		assert.Contains(t, res.Relationships, "comments")
	}

	require.Len(t, doc.Included, 2, "shared parent appears once")
	types := map[string]string{}
	for _, res := range doc.Included {
		types[res.Type] = res.ID
	}
	assert.Equal(t, map[string]string{"topics": "1", comments.Name: "10"}, types)
}

func TestSerializer_FindExtraFieldsWithoutWindow(t *testing.T) {
	topics, _ := topicModels()
	s := NewSerializer(topics, Options{}, nil)

	doc, err := s.Find(&Result{Data: []Record{}, Extra: map[string]interface{}{"queryTime": 4}}, IncludeContext{})
	require.NoError(t, err)
	assert.Nil(t, doc.Links)
	assert.Nil(t, doc.Meta, "fields move into meta only alongside pagination fields")

	doc, err = s.Find(&Result{Data: []Record{}, Total: intp(0), Extra: map[string]interface{}{"queryTime": 4}}, IncludeContext{})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"query-time": 4, "total": 0}, doc.Meta)
}

func TestSerializer_FindKeepsEnvelopeMetaAndLinks(t *testing.T) {
	topics, _ := topicModels()
	s := NewSerializer(topics, Options{}, nil)

	result, err := ParseResult(map[string]interface{}{
		"data":  []interface{}{map[string]interface{}{"id": 1, "title": "Go"}},
		"skip":  0,
		"limit": 1,
		"total": 3,
		"meta":  map[string]interface{}{"source": "archive", "total": 99},
		"links": map[string]interface{}{"describedby": "/schema/topics", "next": "/stale", "count": 3},
		"took":  7,
	})
	require.NoError(t, err)

	doc, err := s.Find(result, IncludeContext{})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"source": "archive",
		"took":   7,
		"skip":   0,
		"limit":  1,
		"total":  3,
	}, doc.Meta)
	assert.Equal(t, Links{
		"describedby": "/schema/topics",
		"next":        "/topics?$skip=1",
		"last":        "/topics?$skip=3",
	}, doc.Links)
}

func TestSerializer_PrefixAppliesToRelatedLinks(t *testing.T) {
	topics, _ := topicModels()
	s := NewSerializer(topics, Options{Prefix: "/api/"}, nil)

	doc, err := s.Get(Record{
		"id": 2, "title": "Channels", "parent_topic_id": 1,
		"parentTopic": Record{"id": 1, "title": "Go"},
	}, includeOnly(topics, "parentTopic"))
	require.NoError(t, err)

	res := doc.Data.(*Resource)
	assert.Equal(t, "/api/topics/2", res.Links["self"])
	assert.Equal(t, Links{"parent": "/api/topics"}, doc.Links)
	require.Len(t, doc.Included, 1)
	assert.Equal(t, "/api/topics/1", doc.Included[0].Links["self"])

	custom := IncludeContext{
		Include: includeOnly(topics, "parentTopic").Include,
		PathFor: func(model *schema.ResourceSchema) string { return "/v2/" + model.Name },
	}
	doc, err = s.Get(Record{"id": 2, "parentTopic": Record{"id": 1}}, custom)
	require.NoError(t, err)
	assert.Equal(t, "/v2/topics/1", doc.Included[0].Links["self"])
}

func TestSerializer_Get(t *testing.T) {
	topics, _ := topicModels()
	s := NewSerializer(topics, Options{}, nil)

	doc, err := s.Get(Record{"id": 1, "title": "Go", "createdAt": "2024-01-01"}, IncludeContext{})
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"data": {
			"type": "topics",
			"id": "1",
			"attributes": {"title": "Go", "created-at": "2024-01-01"},
			"links": {"self": "/topics/1"}
		},
		"links": {"parent": "/topics"}
	}`, string(raw))
}

func TestSerializer_GetWithInclude(t *testing.T) {
	topics, _ := topicModels()
	s := NewSerializer(topics, Options{Path: "api/topics"}, nil)

	doc, err := s.Get(Record{"id": 2, "parent_topic_id": 1, "parentTopic": Record{"id": 1}}, includeOnly(topics, "parentTopic"))
	require.NoError(t, err)

	res := doc.Data.(*Resource)
	assert.Equal(t, "/api/topics/2", res.Links["self"])
	assert.Equal(t, Links{"parent": "/api/topics"}, doc.Links)
	require.Len(t, doc.Included, 1)
	assert.Equal(t, "/topics/1", doc.Included[0].Links["self"])
}

func TestSerializer_Plain(t *testing.T) {
	s := NewSerializer(nil, Options{ServiceName: "messages", IdentifierKey: "id"}, nil)

	doc, err := s.Find(NewResult([]Record{{"id": 1, "text": "hi"}}, 0, 1, 3), IncludeContext{})
	require.NoError(t, err)

	data := doc.Resources()
	require.Len(t, data, 1)
	assert.Equal(t, "messages", data[0].Type)
	assert.Equal(t, "/messages/1", data[0].Links["self"])
	assert.Equal(t, "/messages?$skip=1", doc.Links["next"])

	single, err := s.Get(Record{"id": 5, "text": "yo"}, IncludeContext{})
	require.NoError(t, err)
	assert.Equal(t, "5", single.Data.(*Resource).ID)
	assert.Equal(t, Links{"parent": "/messages"}, single.Links)
}

func TestSerializer_Dispatch(t *testing.T) {
	topics, _ := topicModels()
	core, logs := observer.New(zap.DebugLevel)
	s := NewSerializer(topics, Options{}, zap.New(core))

	t.Run("find", func(t *testing.T) {
		out, err := s.Dispatch(OpFind, []interface{}{map[string]interface{}{"id": 1}}, IncludeContext{})
		require.NoError(t, err)
		doc := out.(*Document)
		assert.Len(t, doc.Resources(), 1)
	})

	t.Run("get", func(t *testing.T) {
		out, err := s.Dispatch(OpGet, map[string]interface{}{"id": 1}, IncludeContext{})
		require.NoError(t, err)
		assert.Equal(t, "1", out.(*Document).Data.(*Resource).ID)
	})

	t.Run("pass through", func(t *testing.T) {
		input := map[string]interface{}{"id": 9}
		for _, op := range []Operation{OpCreate, OpUpdate, OpPatch, OpRemove} {
			out, err := s.Dispatch(op, input, IncludeContext{})
			require.NoError(t, err)
			assert.Equal(t, input, out)
		}
	})

	t.Run("bad shape", func(t *testing.T) {
		_, err := s.Dispatch(OpGet, "nope", IncludeContext{})
		assert.True(t, errors.Is(err, ErrUnsupportedResult))
	})

	assert.NotZero(t, logs.FilterMessage("assembled document").Len())
}

func TestSerializer_SchemaError(t *testing.T) {
	bare := schema.NewResourceSchema("bare")
	s := NewSerializer(bare, Options{}, nil)

	_, err := s.Find(&Result{Data: []Record{{"x": 1}}}, IncludeContext{})
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "bare", schemaErr.Resource)

	_, err = s.Get(Record{"x": 1}, IncludeContext{})
	assert.True(t, errors.Is(err, ErrNoPrimaryKey))
}
