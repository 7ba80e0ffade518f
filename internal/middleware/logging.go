package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type requestInfoKey struct{}

// requestInfo is shared between the logging middleware and the handlers it wraps.
type requestInfo struct {
	id     string
	userID int64
}

// GetRequestID returns the id assigned by RequestLogger, or "".
func GetRequestID(ctx context.Context) string {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		return info.id
	}
	return ""
}

func setLoggedUser(ctx context.Context, userID int64) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.userID = userID
	}
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// RequestLogger logs every request with its status, duration, request id and
// user id. Panics in later handlers are logged and answered with 500.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			info := &requestInfo{id: id}
			w.Header().Set(RequestIDHeader, id)

			rec := recordStatus(w)
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info))

			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error("Handler panicked",
						"request_id", id,
						"panic", p,
						"stack", string(debug.Stack()),
					)
					if !rec.wroteHeader {
						writeMessage(rec, http.StatusInternalServerError, "internal server error")
					}
				}

				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.status,
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", id,
				}
				if info.userID != 0 {
					attrs = append(attrs, "user_id", info.userID)
				}

				switch {
				case rec.status >= 500:
					logger.Error("Request failed", attrs...)
				case rec.status >= 400:
					logger.Warn("Request rejected", attrs...)
				default:
					logger.Info("Request completed", attrs...)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// writeMessage writes a {"message": ...} JSON body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
