package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/core"
)

// analysisDate resolves the analysis date for a request. An explicit
// date=YYYY-MM-DD query parameter wins; otherwise today's calendar date.
func analysisDate(r *http.Request) (core.Date, error) {
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		return core.ParseDate(v)
	}
	now := time.Now()
	return core.NewDate(now.Year(), int(now.Month()), now.Day()), nil
}

// clientIP extracts the client address, considering proxies.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
