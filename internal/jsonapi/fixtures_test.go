package jsonapi

import (
	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// topicModels builds topics (self-referencing through parentTopic) and
// comments (has_many from topics).
func topicModels() (topics, comments *schema.ResourceSchema) {
	topics = schema.NewResourceSchema("topics")
	topics.Underscored = true
	topics.AddField(&schema.Field{Name: "id", Type: schema.TypeInt, PrimaryKey: true})
	topics.AddField(&schema.Field{Name: "title", Type: schema.TypeString})
	topics.AddField(&schema.Field{Name: "createdAt", Type: schema.TypeTimestamp})
	topics.AddField(&schema.Field{Name: "parent_topic_id", Type: schema.TypeInt})

	comments = schema.NewResourceSchema("comments")
	comments.AddField(&schema.Field{Name: "id", Type: schema.TypeInt, PrimaryKey: true})
	comments.AddField(&schema.Field{Name: "body", Type: schema.TypeText})
	comments.AddField(&schema.Field{Name: "topic_id", Type: schema.TypeInt})

	topics.AddAssociation(&schema.Association{
		As:          "parentTopic",
		Kind:        schema.AssociationBelongsTo,
		Target:      topics,
		TargetName:  "topics",
		ForeignKey:  "parent_topic_id",
		Underscored: true,
	})
	topics.AddAssociation(&schema.Association{
		As:         "comments",
		Kind:       schema.AssociationHasMany,
		Target:     comments,
		TargetName: "comments",
		ForeignKey: "topic_id",
	})
	return topics, comments
}

func includeAll(model *schema.ResourceSchema) IncludeContext {
	return IncludeContext{Include: model.Associations}
}

func includeOnly(model *schema.ResourceSchema, as string) IncludeContext {
	assoc, ok := model.Association(as)
	if !ok {
		panic("no association " + as)
	}
	return IncludeContext{Include: []*schema.Association{assoc}}
}

func intp(n int) *int {
	return &n
}
