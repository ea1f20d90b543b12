package jsonapi

import (
	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// IncludeContext lists the associations requested for inclusion, in the
// order their relationships should be resolved.
type IncludeContext struct {
	Include []*schema.Association

	// PathFor returns the collection path related resources of a model link
	// to. Nil means the model's own BasePath.
	PathFor func(*schema.ResourceSchema) string
}

func (ic IncludeContext) basePath(model *schema.ResourceSchema) string {
	if ic.PathFor != nil {
		return ic.PathFor(model)
	}
	return model.BasePath()
}

// Assembly is the outcome of assembling one record or collection.
type Assembly struct {
	// Data is a *Resource for a single record and a []*Resource for a
	// collection.
	Data interface{}

	// Links holds the self link of the assembled data
	Links Links

	// Related holds every related resource serialized while resolving
	// relationships, before deduplication. Nil when nothing was included.
	Related []*Resource
}

// AssembleOne builds a resource object for a single model-backed record.
// selfURL is the collection path the resource's self link is built from.
func AssembleOne(record Record, model *schema.ResourceSchema, selfURL string, ic IncludeContext) (*Assembly, error) {
	acc := newIncluded(ic)
	res, err := assembleRecord(record, model, selfURL, ic.Include, acc)
	if err != nil {
		return nil, err
	}

	out := &Assembly{
		Data:  res,
		Links: Links{"self": res.Links["self"]},
	}
	if !acc.empty() {
		out.Related = acc.resources
	}
	return out, nil
}

// AssembleMany builds resource objects for a collection of model-backed
// records, keeping input order. An empty collection assembles to an empty,
// non-nil slice.
func AssembleMany(records []Record, model *schema.ResourceSchema, selfURL string, ic IncludeContext) (*Assembly, error) {
	acc := newIncluded(ic)
	data := make([]*Resource, 0, len(records))
	for _, record := range records {
		res, err := assembleRecord(record, model, selfURL, ic.Include, acc)
		if err != nil {
			return nil, err
		}
		data = append(data, res)
	}

	out := &Assembly{
		Data:  data,
		Links: Links{"self": selfURL},
	}
	if !acc.empty() {
		out.Related = acc.resources
	}
	return out, nil
}

// assembleRecord serializes one record against its model. The input record
// is never modified; relationship resolution works on a shallow clone.
func assembleRecord(
	record Record,
	model *schema.ResourceSchema,
	selfURL string,
	include []*schema.Association,
	acc *included,
) (*Resource, error) {
	pk, err := PrimaryKeyOf(model)
	if err != nil {
		return nil, err
	}

	working := record.Clone()
	if len(include) > 0 {
		relationships, err := resolveRelationships(working, model, include, acc)
		if err != nil {
			return nil, err
		}
		if len(relationships) > 0 {
			working[relationshipsKey] = relationships
		}
	}

	res := serializeResource(working, model, pk, selfURL)
	hoistRelationships(res)
	return res, nil
}

// serializeResource selects attributes by the model's declared field names.
// The injected relationships member is selected like any other attribute and
// must be hoisted out by the caller.
func serializeResource(working Record, model *schema.ResourceSchema, pk, selfURL string) *Resource {
	id := formatID(working[pk])

	attributes := make(map[string]interface{}, len(model.FieldOrder))
	for _, name := range model.FieldOrder {
		if name == pk || name == relationshipsKey {
			continue
		}
		value, ok := working[name]
		if !ok {
			continue
		}
		attributes[ToDashCase(name)] = value
	}
	if rel, ok := working[relationshipsKey]; ok {
		attributes[relationshipsKey] = rel
	}

	return &Resource{
		Type:       model.Name,
		ID:         id,
		Attributes: attributes,
		Links:      Links{"self": joinPath(selfURL, id)},
	}
}

// hoistRelationships moves a relationships member out of the attributes and
// onto the resource object.
func hoistRelationships(res *Resource) {
	value, ok := res.Attributes[relationshipsKey]
	if !ok {
		return
	}
	delete(res.Attributes, relationshipsKey)

	if relationships, ok := value.(map[string]*Relationship); ok && len(relationships) > 0 {
		res.Relationships = relationships
	}
}
