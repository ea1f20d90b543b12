package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapify/internal/web/response"
)

// Recovery turns a panicking handler into a 500 JSON:API error document and
// logs the panic with its stack.
func Recovery(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.Any("panic", rec),
						zap.Stack("stack"),
					)
					response.RenderInternalError(w, fmt.Errorf("an unexpected error occurred"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
