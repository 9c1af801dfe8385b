package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// authMiddleware provides simple API key authentication
func (h *Handler) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey == "" {
			next(w, r)
			return
		}

		if !h.validKey(r.Header.Get("Authorization"), "Bearer "+h.apiKey) &&
			!h.validKey(r.Header.Get("X-API-Key"), h.apiKey) {
			h.writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing API key")
			return
		}

		next(w, r)
	}
}

func (h *Handler) validKey(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs each request at debug level
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("HTTP request")
	})
}
