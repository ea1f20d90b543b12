package query

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	// SkipParam selects the window offset; pagination links carry it
	SkipParam = "$skip"
	// LimitParam selects the window size
	LimitParam = "$limit"
)

// ErrInvalidWindow is returned for malformed $skip/$limit values
var ErrInvalidWindow = errors.New("invalid pagination window")

// ParseInclude parses the include query parameter into a slice of relationship names.
// Example: ?include=author,comments returns ["author", "comments"]
// Returns an empty slice if the include parameter is not present.
func ParseInclude(r *http.Request) []string {
	include := r.URL.Query().Get("include")
	if include == "" {
		return []string{}
	}

	parts := strings.Split(include, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// ParseWindow reads $skip and $limit. A missing $skip is 0 and a missing
// $limit is defaultLimit; limits above maxLimit are clamped to it.
func ParseWindow(r *http.Request, defaultLimit, maxLimit int) (skip, limit int, err error) {
	q := r.URL.Query()

	skip, err = parseCount(q.Get(SkipParam), 0)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrInvalidWindow, SkipParam, err)
	}

	limit, err = parseCount(q.Get(LimitParam), defaultLimit)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrInvalidWindow, LimitParam, err)
	}
	if limit == 0 {
		return 0, 0, fmt.Errorf("%w: %s must be positive", ErrInvalidWindow, LimitParam)
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	return skip, limit, nil
}

func parseCount(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
