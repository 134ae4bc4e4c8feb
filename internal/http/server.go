// Package http serves the read-only analytics API: the dashboard snapshot,
// the alert list, and the alerts summary.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bilancio/internal/analysis"
	"bilancio/internal/cache"
	"bilancio/internal/core"
	applog "bilancio/internal/log"
)

const (
	snapshotCacheSize = 32
	snapshotCacheTTL  = time.Minute
)

// AnalyticsProvider is the slice of the analysis engine the API exposes.
// *analysis.Analyzer satisfies it.
type AnalyticsProvider interface {
	Snapshot(ctx context.Context, today core.Date) (analysis.DashboardSnapshot, error)
	GenerateAllAlerts(ctx context.Context, today core.Date) ([]core.Alert, error)
	AlertsSummary(ctx context.Context, today core.Date) (analysis.AlertsSummary, error)
}

type Server struct {
	http.Server
	provider      AnalyticsProvider
	rateLimiter   *rateLimiter
	snapshotCache *cache.LRUCache[analysis.DashboardSnapshot]
	cacheManager  *cache.Manager
	logger        *applog.StructuredLogger
	shutdownOnce  sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, provider AnalyticsProvider) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		provider:      provider,
		rateLimiter:   newRateLimiter(),
		snapshotCache: cache.NewLRUCache[analysis.DashboardSnapshot](snapshotCacheSize, snapshotCacheTTL),
		cacheManager:  cache.NewManager(),
		logger: applog.NewStructuredLogger(applog.New(applog.Config{
			Level:     applog.DefaultConfig().Level,
			Component: applog.ComponentHTTP,
		})),
	}

	s.cacheManager.Register(s.snapshotCache)
	s.cacheManager.StartCleanup(5 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/dashboard", s.withAPIMiddleware(s.handleDashboard))
	mux.HandleFunc("/api/alerts", s.withAPIMiddleware(s.handleAlerts))
	mux.HandleFunc("/api/alerts/summary", s.withAPIMiddleware(s.handleAlertsSummary))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
