package jsonapi

import (
	"sort"
)

// PlainOptions configures the fallback serializer for records that carry no
// model metadata.
type PlainOptions struct {
	// ServiceName is the resource type when TypeKey is unset or absent
	ServiceName string
	// Path is the collection path self links are built from
	Path string
	// IdentifierKey names the field used as id. Empty means content hash.
	IdentifierKey string
	// TypeKey names the field used as type. Empty means ServiceName.
	TypeKey string
}

func (o PlainOptions) basePath() string {
	if o.Path == "" {
		return "/" + o.ServiceName
	}
	if o.Path[0] != '/' {
		return "/" + o.Path
	}
	return o.Path
}

// SerializePlain builds a resource object for a single plain record. A
// configured key that is missing from the record falls back to the default
// for that member.
func SerializePlain(record Record, opts PlainOptions) *Resource {
	consumed := make(map[string]bool, 2)

	var id string
	if value, ok := record[opts.IdentifierKey]; opts.IdentifierKey != "" && ok {
		id = formatID(value)
		consumed[opts.IdentifierKey] = true
	} else {
		id = DerivedIdentity(record)
	}

	typ := opts.ServiceName
	if value, ok := record[opts.TypeKey]; opts.TypeKey != "" && ok {
		typ = formatID(value)
		consumed[opts.TypeKey] = true
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		if !consumed[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	attributes := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		attributes[ToDashCase(key)] = record[key]
	}

	return &Resource{
		Type:       typ,
		ID:         id,
		Attributes: attributes,
		Links:      Links{"self": joinPath(opts.basePath(), id)},
	}
}

// SerializePlainData serializes a collection of plain records. Empty input
// yields an empty, non-nil slice.
func SerializePlainData(records []Record, opts PlainOptions) []*Resource {
	data := make([]*Resource, 0, len(records))
	for _, record := range records {
		data = append(data, SerializePlain(record, opts))
	}
	return data
}
