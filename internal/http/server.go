package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendy/internal/core"
	"spendy/internal/genai"
	applog "spendy/internal/log"
	"spendy/internal/session"
	"spendy/internal/storage"
)

// SheetFetcher pulls spending records from a configured spreadsheet range.
type SheetFetcher interface {
	Fetch(ctx context.Context) ([]core.Transaction, error)
}

type Server struct {
	http.Server
	session *session.Session
	store   storage.SnapshotStore
	vision  genai.Client
	sheet   SheetFetcher

	rateLimiter    *rateLimiter
	maxUploadBytes int64
	shutdownOnce   sync.Once
}

// Options carries the optional collaborators. A nil Vision client disables
// the image endpoints, a nil Sheet disables the spreadsheet endpoint.
type Options struct {
	Vision         genai.Client
	Sheet          SheetFetcher
	MaxUploadBytes int64
	Logger         *applog.Logger
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

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, sess *session.Session, store storage.SnapshotStore, opts Options) *Server {
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}

	s := &Server{
		session:        sess,
		store:          store,
		vision:         opts.Vision,
		sheet:          opts.Sheet,
		rateLimiter:    newRateLimiter(),
		maxUploadBytes: maxUpload,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/transactions/file", s.withLimits(s.handleUploadFile))
	mux.HandleFunc("POST /api/transactions/text", s.withLimits(s.handleUploadText))
	mux.HandleFunc("POST /api/transactions/images", s.withLimits(s.handleUploadImages))
	mux.HandleFunc("POST /api/transactions/sheet", s.withLimits(s.handleUploadSheet))
	mux.HandleFunc("GET /api/result", s.handleResult)
	mux.HandleFunc("POST /api/session/finish", s.withLimits(s.handleFinish))
	mux.HandleFunc("GET /api/versions", s.handleListVersions)
	mux.HandleFunc("GET /api/versions/{id}", s.handleGetVersion)
	mux.HandleFunc("DELETE /api/versions/{id}", s.handleDeleteVersion)
	mux.HandleFunc("GET /healthz", handleHealth)

	var handler http.Handler = mux
	if opts.Logger != nil {
		handler = applog.Middleware(opts.Logger)(applog.RequestLogger(opts.Logger)(mux))
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// withLimits applies rate limiting and standard headers to mutating routes
func (s *Server) withLimits(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next(w, r)
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
