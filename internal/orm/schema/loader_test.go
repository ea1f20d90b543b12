package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topicsYAML = `
resources:
  - name: topics
    underscored: true
    fields:
      - {name: id, type: int, primary: true}
      - {name: title}
      - {name: createdAt, type: timestamp}
      - {name: parent_topic_id, type: int}
    associations:
      - {as: parentTopic, target: topics, foreign_key: parent_topic_id, kind: belongs_to}
      - {as: comments, target: comments, foreign_key: topic_id, kind: has_many, underscored: false}
  - name: comments
    path: topic-comments
    table: topic_comments
    fields:
      - {name: id, type: int, primary: true}
      - {name: body, type: text}
      - {name: topic_id, type: int}
`

func TestLoad(t *testing.T) {
	registry, err := Load(strings.NewReader(topicsYAML))
	require.NoError(t, err)

	topics, ok := registry.Get("topics")
	require.True(t, ok)
	assert.True(t, topics.Underscored)
	assert.Equal(t, []string{"id", "title", "createdAt", "parent_topic_id"}, topics.AttributeNames())
	assert.Equal(t, TypeTimestamp, topics.Fields["createdAt"].Type)

	parent, ok := topics.Association("parentTopic")
	require.True(t, ok)
	assert.True(t, parent.Underscored, "association inherits resource convention")
	assert.Same(t, topics, parent.Target)
	assert.Equal(t, "parent-topic", parent.RelationshipName())

	comments, ok := topics.Association("comments")
	require.True(t, ok)
	assert.False(t, comments.Underscored)
	assert.Equal(t, AssociationHasMany, comments.Kind)

	commentSchema, ok := registry.Get("comments")
	require.True(t, ok)
	assert.Equal(t, "/topic-comments", commentSchema.BasePath())
	assert.Equal(t, "topic_comments", commentSchema.TableName)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "resources: [\n"},
		{"bad field type", "resources:\n  - name: a\n    fields: [{name: id, type: blob, primary: true}]\n"},
		{"bad kind", "resources:\n  - name: a\n    fields: [{name: id, primary: true}]\n    associations: [{as: b, target: a, foreign_key: b_id, kind: weird}]\n"},
		{"no primary key", "resources:\n  - name: a\n    fields: [{name: id}]\n"},
		{"unknown target", "resources:\n  - name: a\n    fields: [{name: id, primary: true}]\n    associations: [{as: b, target: nope, foreign_key: b_id, kind: belongs_to}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(topicsYAML), 0o644))

	registry, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"comments", "topics"}, registry.List())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
