package relationships

import (
	"context"
	"fmt"

	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// EagerLoad embeds each association's related records under its As field.
// belongs_to associations receive one record or nil; has_one one record or
// nil; has_many a possibly empty slice. Only one level is loaded.
func (l *Loader) EagerLoad(
	ctx context.Context,
	records []map[string]interface{},
	resource *schema.ResourceSchema,
	associations []*schema.Association,
) error {
	if len(records) == 0 {
		return nil
	}

	for _, assoc := range associations {
		if err := assoc.Validate(resource.Name); err != nil {
			return err
		}
		if err := l.loadAssociation(ctx, records, resource, assoc); err != nil {
			return fmt.Errorf("failed to load relationship %s: %w", assoc.As, err)
		}
	}

	return nil
}

func (l *Loader) loadAssociation(
	ctx context.Context,
	records []map[string]interface{},
	resource *schema.ResourceSchema,
	assoc *schema.Association,
) error {
	switch assoc.Kind {
	case schema.AssociationBelongsTo:
		return l.loadBelongsTo(ctx, records, assoc)
	case schema.AssociationHasOne, schema.AssociationHasMany:
		return l.loadHasMany(ctx, records, resource, assoc)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidRelationType, assoc.Kind)
	}
}

// loadBelongsTo loads belongs-to associations using a batched IN query
// Example: Topic belongs_to parent Topic
//   - Collect all unique parent_topic_ids
//   - Single query: SELECT ... FROM topics WHERE id IN (...)
//   - Map parents back to topics
func (l *Loader) loadBelongsTo(
	ctx context.Context,
	records []map[string]interface{},
	assoc *schema.Association,
) error {
	targetKey, err := assoc.IdentifierKey()
	if err != nil {
		return err
	}

	ids, err := collectKeys(records, assoc.ForeignKey)
	if err != nil {
		return err
	}

	related := make(map[string]map[string]interface{})
	if len(ids) > 0 {
		results, err := l.operations(assoc.Target).FindIn(ctx, targetKey, ids)
		if err != nil {
			return err
		}
		for _, rec := range results {
			key, err := idToString(rec[targetKey])
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidKey, targetKey, err)
			}
			related[key] = rec
		}
	}

	for _, record := range records {
		record[assoc.As] = nil
		fk := record[assoc.ForeignKey]
		if fk == nil {
			continue
		}
		key, _ := idToString(fk)
		if rec, ok := related[key]; ok {
			record[assoc.As] = rec
		}
	}

	return nil
}

// loadHasMany loads has-one and has-many associations using a batched IN
// query over the parents' primary keys
// Example: Topic has_many Comment
//   - Collect all topic ids
//   - Single query: SELECT ... FROM comments WHERE topic_id IN (...)
//   - Group comments by topic_id
func (l *Loader) loadHasMany(
	ctx context.Context,
	records []map[string]interface{},
	resource *schema.ResourceSchema,
	assoc *schema.Association,
) error {
	pkField, err := resource.GetPrimaryKey()
	if err != nil {
		return err
	}
	pk := pkField.Name

	ids, err := collectKeys(records, pk)
	if err != nil {
		return err
	}

	grouped := make(map[string][]map[string]interface{})
	if len(ids) > 0 {
		results, err := l.operations(assoc.Target).FindIn(ctx, assoc.ForeignKey, ids)
		if err != nil {
			return err
		}
		for _, rec := range results {
			key, err := idToString(rec[assoc.ForeignKey])
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidKey, assoc.ForeignKey, err)
			}
			grouped[key] = append(grouped[key], rec)
		}
	}

	for _, record := range records {
		var children []map[string]interface{}
		if id := record[pk]; id != nil {
			key, _ := idToString(id)
			children = grouped[key]
		}

		if assoc.Kind == schema.AssociationHasOne {
			if len(children) > 0 {
				record[assoc.As] = children[0]
			} else {
				record[assoc.As] = nil
			}
			continue
		}

		// always an empty slice, not nil
		if children == nil {
			children = []map[string]interface{}{}
		}
		record[assoc.As] = children
	}

	return nil
}

// collectKeys returns the distinct non-nil values of field across records,
// in first-seen order
func collectKeys(records []map[string]interface{}, field string) ([]interface{}, error) {
	var ids []interface{}
	seen := make(map[string]bool)

	for _, record := range records {
		id, ok := record[field]
		if !ok || id == nil {
			continue
		}
		key, err := idToString(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKey, field, err)
		}
		if !seen[key] {
			seen[key] = true
			ids = append(ids, id)
		}
	}

	return ids, nil
}
