package cache

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// varyHeaders are the request headers that change the rendered document
var varyHeaders = []string{"Accept"}

// RequestKey derives the cache key of a document request from its method,
// path, sorted query and Accept header.
func RequestKey(r *http.Request) string {
	parts := []string{r.Method, r.URL.Path}

	if r.URL.RawQuery != "" {
		query := r.URL.Query()
		queryParts := make([]string, 0, len(query))
		for key, values := range query {
			sorted := append([]string(nil), values...)
			sort.Strings(sorted)
			for _, value := range sorted {
				queryParts = append(queryParts, key+"="+value)
			}
		}
		sort.Strings(queryParts)
		parts = append(parts, strings.Join(queryParts, "&"))
	}

	for _, header := range varyHeaders {
		if value := r.Header.Get(header); value != "" {
			parts = append(parts, header+"="+value)
		}
	}

	return fmt.Sprintf("doc:%016x", xxhash.Sum64String(strings.Join(parts, "\n")))
}
