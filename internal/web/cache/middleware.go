package cache

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// entry is a cached rendered document
type entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	ETag        string `json:"etag"`
	Body        []byte `json:"body"`
}

// Middleware serves GET documents from cache, stores successful rendered
// documents, sets a strong ETag on every document it sees and answers
// matching If-None-Match requests with 304.
func Middleware(c Cache, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := RequestKey(r)

			if raw, err := c.Get(ctx, key); err == nil {
				var cached entry
				if err := json.Unmarshal(raw, &cached); err == nil {
					w.Header().Set("X-Cache", "HIT")
					serve(w, r, &cached)
					return
				}
				logger.Warn("discarding unreadable cache entry", zap.String("key", key))
			} else if !IsCacheMiss(err) {
				logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			}

			rec := &bufferedWriter{header: http.Header{}, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			for k, values := range rec.header {
				w.Header()[k] = values
			}
			w.Header().Set("X-Cache", "MISS")

			if rec.status < 200 || rec.status >= 300 {
				w.WriteHeader(rec.status)
				w.Write(rec.body.Bytes())
				return
			}

			fresh := &entry{
				Status:      rec.status,
				ContentType: rec.header.Get("Content-Type"),
				ETag:        GenerateETag(rec.body.Bytes()),
				Body:        rec.body.Bytes(),
			}
			if raw, err := json.Marshal(fresh); err == nil {
				if err := c.Set(ctx, key, raw, ttl); err != nil {
					logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
				}
			}

			serve(w, r, fresh)
		})
	}
}

func serve(w http.ResponseWriter, r *http.Request, e *entry) {
	w.Header().Set("ETag", e.ETag)
	if NotModified(r, e.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.WriteHeader(e.Status)
	w.Write(e.Body)
}

// bufferedWriter holds the whole response so the ETag can be computed
// before anything reaches the client
type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(status int) {
	if !b.wroteHeader {
		b.status = status
		b.wroteHeader = true
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.wroteHeader = true
	return b.body.Write(p)
}
