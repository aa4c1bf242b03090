// Package server wires configuration, storage, services, and HTTP
// routes into a runnable SoReL instance.
package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/sorelhq/sorel/internal/analytics"
	"github.com/sorelhq/sorel/internal/collector"
	"github.com/sorelhq/sorel/internal/config"
	"github.com/sorelhq/sorel/internal/health"
	"github.com/sorelhq/sorel/internal/history"
	"github.com/sorelhq/sorel/internal/insights"
	"github.com/sorelhq/sorel/internal/logging"
	"github.com/sorelhq/sorel/internal/metrics"
	"github.com/sorelhq/sorel/internal/monitor"
	"github.com/sorelhq/sorel/internal/ratelimit"
	"github.com/sorelhq/sorel/internal/realtime"
	"github.com/sorelhq/sorel/internal/reputation"
	"github.com/sorelhq/sorel/internal/security"
	"github.com/sorelhq/sorel/internal/traces"
	"github.com/sorelhq/sorel/internal/validation"
)

// Version reported by the health and info endpoints.
const Version = "0.1.0"

// Server is the SoReL HTTP server
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	db *sql.DB // nil when using in-memory stores

	walletStore  reputation.WalletStore
	historyStore history.Store
	checkStore   monitor.CheckStore

	reputationSvc *reputation.Service
	analyticsSvc  *analytics.Service
	insightsSvc   *insights.Service
	rpcMonitor    *monitor.Monitor
	monitorTimer  *monitor.Timer

	realtimeHub *realtime.Hub
	rateLimiter *ratelimit.Limiter
	healthReg   *health.Registry

	router  *gin.Engine
	httpSrv *http.Server

	tracesShutdown func(context.Context) error
	cancelRunCtx   context.CancelFunc

	ready   atomic.Bool
	healthy atomic.Bool
}

// Option configures the server
type Option func(*Server)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a new server with all routes configured
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logging.New(cfg.LogLevel, "json"),
	}

	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()

	// Tracing (no-op unless an OTLP endpoint is configured)
	shutdown, err := traces.Init(ctx, cfg.OTLPEndpoint, s.logger)
	if err != nil {
		s.logger.Warn("failed to initialize tracing", "error", err)
	} else {
		s.tracesShutdown = shutdown
	}

	// Storage (Postgres if DATABASE_URL set, otherwise in-memory)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		s.db = db
		s.logger.Info("using PostgreSQL storage", "url", maskDSN(cfg.DatabaseURL))

		walletStore := reputation.NewPostgresWalletStore(db)
		if err := walletStore.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate wallet store: %w", err)
		}
		s.walletStore = walletStore

		historyStore := history.NewPostgresStore(db)
		if err := historyStore.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate history store: %w", err)
		}
		s.historyStore = historyStore

		checkStore := monitor.NewPostgresCheckStore(db)
		if err := checkStore.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate check store: %w", err)
		}
		s.checkStore = checkStore
	} else {
		s.walletStore = reputation.NewMemoryWalletStore()
		s.historyStore = history.NewMemoryStore()
		s.checkStore = monitor.NewMemoryCheckStore()
		s.logger.Info("using in-memory storage (data will not persist)")
	}

	// Metrics source: live chain data or deterministic synthetic data,
	// chosen once at startup.
	var source reputation.MetricsSource
	rpcClient := collector.NewSolanaClient(cfg.SolanaRPCURL, cfg.RPCTimeout)
	switch cfg.DataSource {
	case "synthetic":
		source = collector.NewSyntheticSource()
		s.logger.Info("using synthetic metrics source")
	default:
		source = collector.NewRemoteSource(rpcClient)
		s.logger.Info("using remote metrics source", "rpc_url", cfg.SolanaRPCURL)
	}

	// Realtime hub streams analysis and monitor events over WebSocket
	s.realtimeHub = realtime.NewHub(s.logger)

	s.reputationSvc = reputation.NewService(source, s.walletStore, s.historyStore, s.realtimeHub)
	s.analyticsSvc = analytics.NewService(s.walletStore, s.historyStore)

	// AI insights (disabled without an LLM endpoint; the handler
	// returns 503 ai_unavailable)
	var chatClient insights.ChatClient
	if cfg.InsightsEnabled() {
		chatClient = insights.NewHTTPChatClient(insights.ChatConfig{
			APIURL:      cfg.LLMAPIURL,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
			Timeout:     cfg.LLMTimeout,
		})
		s.logger.Info("AI insights enabled", "model", cfg.LLMModel)
	} else {
		s.logger.Info("AI insights disabled (no LLM endpoint configured)")
	}
	s.insightsSvc = insights.NewService(chatClient, cfg.LLMModel)

	// RPC monitoring
	s.rpcMonitor = monitor.New(rpcClient, cfg.SolanaRPCURL, s.checkStore)
	s.rpcMonitor.SetNotifier(s.realtimeHub)
	if cfg.MonitorInterval > 0 {
		s.monitorTimer = monitor.NewTimer(s.rpcMonitor, cfg.MonitorInterval, s.logger)
		s.logger.Info("background RPC monitoring enabled", "interval", cfg.MonitorInterval)
	}

	s.setupHealthChecks()

	// Configure gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)

	return s, nil
}

// maskDSN hides password in connection string for logging
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.String()
}

func (s *Server) setupHealthChecks() {
	s.healthReg = health.NewRegistry()

	if s.db != nil {
		db := s.db
		s.healthReg.Register("database", func(ctx context.Context) health.Status {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return health.Fail("database", err.Error())
			}
			return health.OK("database")
		})
	}

	// The RPC endpoint only gates health when analyses depend on it.
	if s.cfg.DataSource == "remote" {
		mon := s.rpcMonitor
		s.healthReg.Register("solana_rpc", func(ctx context.Context) health.Status {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			result := mon.Check(ctx)
			if result.Status == monitor.StatusUnhealthy {
				return health.Fail("solana_rpc", result.Error)
			}
			return health.OK("solana_rpc")
		})
	}
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) setupMiddleware() {
	// Recovery with logging
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}))

	// Security headers
	s.router.Use(security.HeadersMiddleware())

	// CORS
	s.router.Use(security.CORSMiddleware(splitOrigins(s.cfg.CORSOrigins)))

	// Request size limit (1MB)
	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))

	// Rate limiting
	rlCfg := ratelimit.DefaultConfig()
	if s.cfg.RateLimitRPM > 0 {
		rlCfg.RequestsPerMinute = s.cfg.RateLimitRPM
	}
	s.rateLimiter = ratelimit.New(rlCfg)
	s.router.Use(s.rateLimiter.Middleware())

	// Prometheus metrics
	s.router.Use(metrics.Middleware())

	// Request ID
	s.router.Use(s.requestIDMiddleware())

	// Logging
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := logging.L(c.Request.Context())

		// Log level based on status code
		switch {
		case status >= 500:
			logger.Error("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		case status >= 400:
			logger.Warn("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		default:
			logger.Info("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}
	}
}

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	// Health & metrics endpoints
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/health/live", s.livenessHandler)
	s.router.GET("/health/ready", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	// API info
	s.router.GET("/", s.infoHandler)

	// WebSocket for real-time streaming
	s.router.GET("/ws", func(c *gin.Context) {
		s.realtimeHub.HandleWebSocket(c.Writer, c.Request)
	})

	// V1 API group
	v1 := s.router.Group("/v1")
	// Validate :address URL params on all v1 routes (no-op when param absent)
	v1.Use(validation.AddressParamMiddleware())

	reputation.NewHandler(s.reputationSvc, s.historyStore).RegisterRoutes(v1)
	analytics.NewHandler(s.analyticsSvc).RegisterRoutes(v1)
	insights.NewHandler(s.insightsSvc, s.walletStore).RegisterRoutes(v1)
	monitor.NewHandler(s.rpcMonitor, s.checkStore).RegisterRoutes(v1)
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// HealthResponse for health check endpoints
type HealthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Checks    []health.Status `json:"checks,omitempty"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) healthHandler(c *gin.Context) {
	healthy, statuses := s.healthReg.CheckAll(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   Version,
		Checks:    statuses,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "SoReL",
		"description": "Solana wallet reputation scoring",
		"version":     Version,
		"data_source": s.cfg.DataSource,
	})
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Run starts the server and blocks until shutdown
func (s *Server) Run(ctx context.Context) error {
	// Cancellable context for background goroutines so Shutdown() can stop them.
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRunCtx = cancel

	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting server",
			"port", s.cfg.Port,
			"env", s.cfg.Env,
			"data_source", s.cfg.DataSource,
		)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Start realtime hub
	go s.realtimeHub.Run(runCtx)

	// Start background RPC monitor
	if s.monitorTimer != nil {
		go s.monitorTimer.Start(runCtx)
	}

	// Sample connection pool stats into Prometheus
	if s.db != nil {
		go metrics.StartDBStatsCollector(runCtx, s.db, 15*time.Second)
	}

	// Mark as ready after brief delay for startup
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.ready.Store(true)
		s.logger.Info("server ready")
	}()

	// Wait for shutdown signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	// Cancel the context for all background goroutines (hub, monitor timer)
	if s.cancelRunCtx != nil {
		s.cancelRunCtx()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	if s.monitorTimer != nil {
		s.monitorTimer.Stop()
		s.logger.Info("monitor timer stopped")
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
		s.logger.Info("rate limiter stopped")
	}

	if s.tracesShutdown != nil {
		if err := s.tracesShutdown(ctx); err != nil {
			s.logger.Error("traces shutdown error", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("database close error", "error", err)
		} else {
			s.logger.Info("database connection closed")
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
