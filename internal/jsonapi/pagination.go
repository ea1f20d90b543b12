package jsonapi

import (
	"strconv"
	"strings"
)

// skipParam is the query parameter pagination links carry
const skipParam = "$skip"

// Window is the offset/limit/total triple of a paginated read. Nil fields
// are undefined.
type Window struct {
	Skip  *int
	Limit *int
	Total *int
}

// Complete reports whether all three counts are defined
func (w Window) Complete() bool {
	return w.Skip != nil && w.Limit != nil && w.Total != nil
}

// Any reports whether at least one count is defined
func (w Window) Any() bool {
	return w.Skip != nil || w.Limit != nil || w.Total != nil
}

// BuildPaginationLinks computes first/prev/next/last links for path. It
// returns nil unless skip, limit and total are all defined, and also when
// limit is not positive since no page boundary exists then.
func BuildPaginationLinks(path string, w Window) Links {
	if !w.Complete() {
		return nil
	}
	skip, limit, total := *w.Skip, *w.Limit, *w.Total
	if limit <= 0 {
		return nil
	}

	base := "/" + strings.TrimLeft(path, "/")
	link := func(n int) string {
		return base + "?" + skipParam + "=" + strconv.Itoa(n)
	}

	links := Links{}
	if skip >= limit {
		links["first"] = link(0)
	}
	if skip+limit > limit {
		prev := skip - limit
		if prev < 0 {
			prev = 0
		}
		links["prev"] = link(prev)
	}
	if skip+limit < total {
		links["next"] = link(skip + limit)
		links["last"] = link((total / limit) * limit)
	}

	if len(links) == 0 {
		return nil
	}
	return links
}
