package jsonapi

import (
	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// included accumulates fully serialized related resources for one
// top-level document.
type included struct {
	resources []*Resource
	pathFor   func(*schema.ResourceSchema) string
}

func newIncluded(ic IncludeContext) *included {
	return &included{pathFor: ic.basePath}
}

func (a *included) add(resources ...*Resource) {
	a.resources = append(a.resources, resources...)
}

func (a *included) empty() bool {
	return len(a.resources) == 0
}

// resolveRelationships converts the embedded values named by include into
// relationship references, serializes the embedded records into acc, and
// strips the embedded and foreign-key fields from working.
//
// Nested records are assembled with an empty include list, so expansion
// stops one level below the parent even for self-referencing associations.
func resolveRelationships(
	working Record,
	owner *schema.ResourceSchema,
	include []*schema.Association,
	acc *included,
) (map[string]*Relationship, error) {
	relationships := make(map[string]*Relationship, len(include))

	for _, assoc := range include {
		if err := assoc.Validate(owner.Name); err != nil {
			return nil, err
		}
		key, err := assoc.IdentifierKey()
		if err != nil {
			return nil, err
		}

		var (
			data    interface{}
			related []Record
		)

		embedded := working[assoc.As]
		if one, ok := asRecord(embedded); ok {
			data = &Reference{Type: assoc.Target.Name, Key: key, ID: formatID(one[key])}
			related = []Record{one}
		} else if many, ok := asRecords(embedded); ok {
			refs := make([]*Reference, 0, len(many))
			for _, rec := range many {
				refs = append(refs, &Reference{Type: assoc.Target.Name, Key: key, ID: formatID(rec[key])})
			}
			data = refs
			related = many
		}

		for _, rec := range related {
			res, err := assembleRecord(rec, assoc.Target, acc.pathFor(assoc.Target), nil, acc)
			if err != nil {
				return nil, err
			}
			acc.add(res)
		}

		delete(working, assoc.As)
		delete(working, assoc.ForeignKey)

		if data != nil {
			relationships[assoc.RelationshipName()] = &Relationship{Data: data}
		}
	}

	return relationships, nil
}

// asRecord reports whether v is a single embedded record
func asRecord(v interface{}) (Record, bool) {
	switch rec := v.(type) {
	case Record:
		return rec, rec != nil
	case map[string]interface{}:
		return Record(rec), rec != nil
	default:
		return nil, false
	}
}

// asRecords reports whether v is a sequence of embedded records. Elements
// that are not records are skipped.
func asRecords(v interface{}) ([]Record, bool) {
	switch seq := v.(type) {
	case []Record:
		if seq == nil {
			return nil, false
		}
		return seq, true
	case []map[string]interface{}:
		if seq == nil {
			return nil, false
		}
		records := make([]Record, 0, len(seq))
		for _, m := range seq {
			if m != nil {
				records = append(records, Record(m))
			}
		}
		return records, true
	case []interface{}:
		if seq == nil {
			return nil, false
		}
		records := make([]Record, 0, len(seq))
		for _, item := range seq {
			if rec, ok := asRecord(item); ok {
				records = append(records, rec)
			}
		}
		return records, true
	default:
		return nil, false
	}
}
