package cache

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// GenerateETag returns a strong ETag for a rendered document
func GenerateETag(content []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(content))
}

// ParseIfNoneMatch splits an If-None-Match header into its entity tags
func ParseIfNoneMatch(header string) []string {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}
	if header == "*" {
		return []string{"*"}
	}

	var etags []string
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			etags = append(etags, part)
		}
	}
	return etags
}

// MatchesETag reports whether etag matches any candidate using the weak
// comparison If-None-Match requires
func MatchesETag(etag string, candidates []string) bool {
	for _, candidate := range candidates {
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}

// NotModified reports whether the request's If-None-Match matches etag
func NotModified(r *http.Request, etag string) bool {
	return MatchesETag(etag, ParseIfNoneMatch(r.Header.Get("If-None-Match")))
}
