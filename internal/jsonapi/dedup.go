package jsonapi

// Dedupe collapses resources sharing a type and id into one entry. A later
// occurrence replaces the earlier one in the position the identity was first
// seen. Resources are keyed by type as well as id so that two types sharing
// an id value do not collide.
func Dedupe(resources []*Resource) []*Resource {
	if len(resources) == 0 {
		return nil
	}

	index := make(map[string]int, len(resources))
	out := make([]*Resource, 0, len(resources))
	for _, res := range resources {
		if res == nil {
			continue
		}
		key := res.Type + ":" + res.ID
		if i, seen := index[key]; seen {
			out[i] = res
			continue
		}
		index[key] = len(out)
		out = append(out, res)
	}
	return out
}
