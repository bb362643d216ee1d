// Package server provides the HTTP REST API for the resume analysis service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/linklift/linklift/internal/config"
	"github.com/linklift/linklift/internal/db"
	"github.com/linklift/linklift/internal/extract"
	"github.com/linklift/linklift/internal/llm"
	"github.com/linklift/linklift/internal/payments"
	"github.com/linklift/linklift/internal/pipeline"
	"github.com/linklift/linklift/internal/profile"
	"github.com/linklift/linklift/internal/server/middleware"
	"github.com/linklift/linklift/internal/server/ratelimit"
)

// ResumeStore is the subset of the database layer the handlers need.
type ResumeStore interface {
	CreateResume(ctx context.Context, userID, filePath, fileURL, slug string) (uuid.UUID, error)
	GetResume(ctx context.Context, resumeID uuid.UUID) (*db.Resume, error)
	GetResumeBySlug(ctx context.Context, slug string) (*db.Resume, error)
	ListResumesByUser(ctx context.Context, userID string) ([]db.Resume, error)
	UpdateSlug(ctx context.Context, resumeID uuid.UUID, slug string) error
	SetTemplate(ctx context.Context, resumeID uuid.UUID, templateID string) error
	MarkPaid(ctx context.Context, resumeID uuid.UUID) error
	Ping(ctx context.Context) error
}

// ResumeAnalyzer runs the full analysis flow for one resume.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, fileURL string, resumeID uuid.UUID) (*profile.Profile, error)
}

// OrderCreator creates payment orders for portfolio upgrades.
type OrderCreator interface {
	CreateOrder(ctx context.Context, resumeID string) (*payments.Order, error)
	KeyID() string
}

// Server represents the HTTP server.
type Server struct {
	httpServer    *http.Server
	database      *db.DB
	store         ResumeStore
	analyzer      ResumeAnalyzer
	orders        OrderCreator
	webhookSecret string
	validate      *validator.Validate
	rateLimiter   *ratelimit.Limiter
	jwtService    *JWTService
}

// New wires the full service from configuration: database pool, extraction
// orchestrator, payments client, and the HTTP surface.
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var fallback extract.FallbackProvider
	if cfg.GroqAPIKey != "" {
		fallback = llm.NewGroq(cfg.GroqAPIKey, "", "")
	}
	orchestrator := extract.New(extract.Options{
		GeminiKeys: cfg.GeminiKeys,
		Fallback:   fallback,
	})

	var orders OrderCreator
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		orders = payments.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, "")
	}

	s := &Server{
		database:      database,
		store:         database,
		analyzer:      pipeline.New(database, orchestrator, nil),
		orders:        orders,
		webhookSecret: cfg.RazorpayWebhookSecret,
		validate:      validator.New(),
		rateLimiter:   ratelimit.NewLimiter(ratelimit.LoadConfig()),
		jwtService:    NewJWTService(cfg.AuthJWTSecret),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // analysis can take a while under provider backoff
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze-resume", s.handleAnalyze)
	mux.HandleFunc("GET /templates", s.handleTemplates)
	mux.HandleFunc("GET /portfolio/{slug}", s.handlePortfolio)
	mux.HandleFunc("POST /checkout", s.handleCheckout)
	mux.HandleFunc("POST /webhook/razorpay", s.handleWebhook)
	mux.HandleFunc("POST /contact", s.handleContact)

	// Resume ownership routes require an identity-provider session token.
	auth := middleware.Auth(s.jwtService)
	mux.Handle("POST /resumes", auth(http.HandlerFunc(s.handleCreateResume)))
	mux.Handle("GET /resumes", auth(http.HandlerFunc(s.handleListResumes)))
	mux.Handle("PUT /resumes/{id}/template", auth(http.HandlerFunc(s.handleSelectTemplate)))

	return mux
}

// Start begins listening for requests and blocks until shutdown completes.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("[SERVER] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("[SERVER] shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.database != nil {
		s.database.Close()
	}
	log.Println("[SERVER] stopped")
	return err
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit enforces per-client budgets.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())+1))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID resolves the client identity for rate limiting, preferring
// proxy headers over the raw remote address.
func (s *Server) extractClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
	w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
