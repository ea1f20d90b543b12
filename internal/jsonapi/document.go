// Package jsonapi assembles JSON:API documents from tree-shaped read results.
//
// Records arrive as plain attribute maps, optionally with related records
// already embedded under association fields. Model metadata from the schema
// package decides the resource type, the primary key and how embedded
// records become relationships and included resources. Records without
// metadata go through a plain fallback that derives identity from content.
//
// The engine is synchronous and allocates a fresh included accumulator per
// document; nothing is shared between invocations.
package jsonapi

import (
	"encoding/json"
)

// relationshipsKey is the member name relationships are injected under
// before attribute selection and hoisted out of afterwards.
const relationshipsKey = "relationships"

// Record is a single read result: attribute name to scalar, nested record or
// collection of nested records.
type Record map[string]interface{}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Links maps link names (self, parent, first, prev, next, last) to URLs
type Links map[string]string

// Resource is a JSON:API resource object
type Resource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id"`
	Attributes    map[string]interface{}   `json:"attributes"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	Links         Links                    `json:"links,omitempty"`
}

// Relationship is a JSON:API relationship object. Data holds a *Reference
// for to-one relations and a []*Reference for to-many relations.
type Relationship struct {
	Data interface{} `json:"data"`
}

// Reference is the minimal pointer to a resource: its type plus the
// identifier member named by Key.
type Reference struct {
	Type string
	Key  string
	ID   string
}

// MarshalJSON renders {"type": ..., <Key>: ...}
func (r *Reference) MarshalJSON() ([]byte, error) {
	key := r.Key
	if key == "" {
		key = "id"
	}
	return json.Marshal(map[string]string{
		"type": r.Type,
		key:    r.ID,
	})
}

// Document is a top-level JSON:API document. Data holds a *Resource for
// single-record documents and a []*Resource for collections.
type Document struct {
	Data     interface{}            `json:"data"`
	Included []*Resource            `json:"included,omitempty"`
	Links    Links                  `json:"links,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
}

// Resources returns the primary data as a slice regardless of shape
func (d *Document) Resources() []*Resource {
	switch data := d.Data.(type) {
	case *Resource:
		if data == nil {
			return nil
		}
		return []*Resource{data}
	case []*Resource:
		return data
	default:
		return nil
	}
}
