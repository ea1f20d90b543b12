package jsonapi

// reserved top-level document members that are never moved into meta
var reserved = map[string]bool{
	"data":     true,
	"included": true,
	"meta":     true,
	"links":    true,
}

// ExtractMeta splits top-level result members into the members a document
// keeps and a meta mapping holding everything else, with dash-cased keys.
// The input map is not modified. meta is nil when nothing moved.
func ExtractMeta(top map[string]interface{}) (kept, meta map[string]interface{}) {
	kept = make(map[string]interface{}, len(top))
	for key, value := range top {
		if reserved[key] {
			kept[key] = value
			continue
		}
		if meta == nil {
			meta = make(map[string]interface{})
		}
		meta[ToDashCase(key)] = value
	}
	return kept, meta
}

// mergeMeta overlays moved onto a meta member already present on the result.
// The result's own keys are kept as given. Nil when both are empty.
func mergeMeta(existing interface{}, moved map[string]interface{}) map[string]interface{} {
	var base map[string]interface{}
	switch m := existing.(type) {
	case map[string]interface{}:
		base = m
	case Record:
		base = m
	}
	if len(base) == 0 {
		return moved
	}

	merged := make(map[string]interface{}, len(base)+len(moved))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range moved {
		merged[k] = v
	}
	return merged
}

// mergeLinks adds the string-valued members of a links member already on the
// result to generated links. Generated links win on conflict.
func mergeLinks(existing interface{}, generated Links) Links {
	base := make(Links)
	switch m := existing.(type) {
	case Links:
		for k, v := range m {
			base[k] = v
		}
	case map[string]string:
		for k, v := range m {
			base[k] = v
		}
	case map[string]interface{}:
		for k, v := range m {
			if str, ok := v.(string); ok {
				base[k] = str
			}
		}
	}
	if len(base) == 0 {
		return generated
	}

	for k, v := range generated {
		base[k] = v
	}
	return base
}
