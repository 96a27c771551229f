// Package logging builds the application's logrus logger and the HTTP access-log
// middleware that attaches a request-scoped entry to every request context.
package logging

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/user/storeapi-go/config"
)

type ctxKeyLog struct{}

// New creates a logger from the log configuration. Unknown levels fall back to info.
func New(cfg *config.LogConfig) *logrus.Logger {
	return newWithOutput(cfg, os.Stdout)
}

func newWithOutput(cfg *config.LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = out

	if strings.EqualFold(cfg.Format, "text") {
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	} else {
		log.Formatter = &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
		}
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.Level = level
	return log
}

// Middleware logs one line per request with status, size and latency.
// It must run after chi's RequestID middleware so the id is available.
func Middleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			entry := log.WithFields(logrus.Fields{
				"http.req.path":   r.URL.Path,
				"http.req.method": r.Method,
				"http.req.id":     middleware.GetReqID(r.Context()),
				"http.req.remote": r.RemoteAddr,
			})
			ctx := context.WithValue(r.Context(), ctxKeyLog{}, entry)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				fields := entry.WithFields(logrus.Fields{
					"http.resp.status":  status,
					"http.resp.bytes":   ww.BytesWritten(),
					"http.resp.took_ms": time.Since(start).Milliseconds(),
				})
				if status >= http.StatusInternalServerError {
					fields.Warn("request complete")
				} else {
					fields.Info("request complete")
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request-scoped entry, or fallback when none was attached.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if entry, ok := ctx.Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
		return entry
	}
	return fallback
}
