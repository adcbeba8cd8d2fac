package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"petex-service/internal/platform/obs"
	"petex-service/internal/ports"
)

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware stamps a request id and logs end-to-end duration and
// response size for basic observability.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := obs.WithRequestID(r.Context())
		r = r.WithContext(ctx)

		sw := &statusWriter{
			ResponseWriter: w,
			status:         0,
		}

		next.ServeHTTP(sw, r)

		duration := time.Since(start).Milliseconds()

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			obs.RequestID(ctx), r.Method, r.URL.RequestURI(), sw.status, sw.bytes, duration,
		)
	})
}

type identityKey struct{}

// CallerIdentity returns the identity resolved by authRequired, if any.
func CallerIdentity(ctx context.Context) (ports.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(ports.Identity)
	return id, ok
}

// authRequired resolves the bearer credential before the handler runs.
// Missing or unverifiable credentials end the request with 401.
func authRequired(auth ports.Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeAuthError(w, http.StatusUnauthorized, "missing bearer credential")
			return
		}

		identity, err := auth.ResolveCaller(strings.TrimSpace(token))
		if err != nil {
			log.Printf("auth rejected: req_id=%s err=%v", obs.RequestID(r.Context()), err)
			writeAuthError(w, http.StatusUnauthorized, "invalid credential")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly gates a handler behind the administrator role. Must run inside
// authRequired.
func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CallerIdentity(r.Context())
		if !ok || identity.Role != ports.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "administrator role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
