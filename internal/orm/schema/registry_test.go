package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogRegistry(t *testing.T) *Registry {
	t.Helper()

	users := NewResourceSchema("users")
	users.AddField(&Field{Name: "id", Type: TypeInt, PrimaryKey: true})
	users.AddField(&Field{Name: "name"})

	posts := NewResourceSchema("posts")
	posts.Underscored = true
	posts.AddField(&Field{Name: "id", Type: TypeInt, PrimaryKey: true})
	posts.AddField(&Field{Name: "title"})
	posts.AddField(&Field{Name: "author_id", Type: TypeInt})
	posts.AddAssociation(&Association{As: "author", TargetName: "users", ForeignKey: "author_id", Kind: AssociationBelongsTo})
	posts.AddAssociation(&Association{As: "relatedPosts", TargetName: "posts", ForeignKey: "post_id", Kind: AssociationHasMany, Underscored: true})

	registry := NewRegistry()
	require.NoError(t, registry.Register(users))
	require.NoError(t, registry.Register(posts))
	require.NoError(t, registry.Resolve())
	return registry
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := newBlogRegistry(t)

	posts, ok := registry.Get("posts")
	require.True(t, ok)
	assert.Equal(t, "posts", posts.Name)

	_, ok = registry.Get("comments")
	assert.False(t, ok)

	assert.Equal(t, []string{"posts", "users"}, registry.List())
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	registry := newBlogRegistry(t)

	dup := NewResourceSchema("users")
	dup.AddField(&Field{Name: "id", PrimaryKey: true})
	err := registry.Register(dup)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_RegisterRejectsMissingPrimaryKey(t *testing.T) {
	registry := NewRegistry()

	s := NewResourceSchema("notes")
	s.AddField(&Field{Name: "body"})

	err := registry.Register(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPrimaryKey))

	_, ok := registry.Get("notes")
	assert.False(t, ok)
}

func TestRegistry_RegisterRejectsIncompleteAssociation(t *testing.T) {
	registry := NewRegistry()

	s := NewResourceSchema("notes")
	s.AddField(&Field{Name: "id", PrimaryKey: true})
	s.AddAssociation(&Association{As: "owner", TargetName: "users"})

	err := registry.Register(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAssociation))
}

func TestRegistry_RegisterRejectsTwoPrimaryKeys(t *testing.T) {
	registry := NewRegistry()

	s := NewResourceSchema("notes")
	s.AddField(&Field{Name: "id", PrimaryKey: true})
	s.AddField(&Field{Name: "uuid", PrimaryKey: true})

	assert.Error(t, registry.Register(s))
}

func TestRegistry_ResolveBindsTargets(t *testing.T) {
	registry := newBlogRegistry(t)

	posts, _ := registry.Get("posts")
	users, _ := registry.Get("users")

	author, ok := posts.Association("author")
	require.True(t, ok)
	assert.Same(t, users, author.Target)

	related, ok := posts.Association("relatedPosts")
	require.True(t, ok)
	assert.Same(t, posts, related.Target)
}

func TestRegistry_ResolveUnknownTarget(t *testing.T) {
	registry := NewRegistry()

	s := NewResourceSchema("posts")
	s.AddField(&Field{Name: "id", PrimaryKey: true})
	s.AddAssociation(&Association{As: "author", TargetName: "people", ForeignKey: "author_id"})
	require.NoError(t, registry.Register(s))

	err := registry.Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownResource))
}

func TestRegistry_Includes(t *testing.T) {
	registry := newBlogRegistry(t)

	t.Run("request order kept", func(t *testing.T) {
		assocs, err := registry.Includes("posts", []string{"relatedPosts", "author"})
		require.NoError(t, err)
		require.Len(t, assocs, 2)
		assert.Equal(t, "relatedPosts", assocs[0].As)
		assert.Equal(t, "author", assocs[1].As)
	})

	t.Run("relationship name matches", func(t *testing.T) {
		assocs, err := registry.Includes("posts", []string{"related-posts", "relatedPosts"})
		require.NoError(t, err)
		require.Len(t, assocs, 1)
		assert.Equal(t, "relatedPosts", assocs[0].As)
	})

	t.Run("empty", func(t *testing.T) {
		assocs, err := registry.Includes("posts", nil)
		require.NoError(t, err)
		assert.Empty(t, assocs)
	})

	t.Run("unknown association", func(t *testing.T) {
		_, err := registry.Includes("posts", []string{"comments"})
		assert.True(t, errors.Is(err, ErrUnknownAssociation))
	})

	t.Run("unknown resource", func(t *testing.T) {
		_, err := registry.Includes("comments", []string{"author"})
		assert.True(t, errors.Is(err, ErrUnknownResource))
	})
}
