package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const callInfoKey ctxKey = iota

// callInfo is filled in by the handler and read back by the logger.
type callInfo struct {
	requestID   string
	operation   string
	strategy    string
	correlation string
	failed      bool
}

func infoFrom(ctx context.Context) *callInfo {
	if info, ok := ctx.Value(callInfoKey).(*callInfo); ok {
		return info
	}
	return &callInfo{}
}

// requestLogger logs one line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			info := &callInfo{requestID: r.Header.Get(requestIDHeader)}
			if info.requestID == "" {
				info.requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, info.requestID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), callInfoKey, info)))

			event := log.Info()
			if info.failed {
				event = log.Warn()
			}
			event.
				Str("request_id", info.requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("operation", info.operation).
				Str("strategy", info.strategy).
				Str("correlation_id", info.correlation).
				Msg("request")
		})
	}
}
