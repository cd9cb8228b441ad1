package ledgerfake

import (
	"net/http" // HTTP status codes
	"sync"     // Call counter lock
	"time"     // Clock

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Server is the dev ledger: a Store behind a gin router
type Server struct {
	store  *Store
	db     *gorm.DB // Backing database; in-memory SQLite when nil
	engine *gin.Engine
	secret string             // Bearer JWT secret; empty disables auth
	logger logrus.FieldLogger // Request and mutation log
	now    func() time.Time

	mu    sync.Mutex
	calls map[string]int // "METHOD /route" -> count
}

// Option configures a Server
type Option func(*Server)

// WithJWTSecret requires a bearer JWT signed with secret on every /api/v1 route
func WithJWTSecret(secret string) Option {
	return func(s *Server) { s.secret = secret }
}

// WithDB stores the ledger in db instead of a fresh in-memory database
func WithDB(db *gorm.DB) Option {
	return func(s *Server) { s.db = db }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock sets the clock used for transaction timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New migrates the database and builds the ledger routes
func New(opts ...Option) (*Server, error) {
	s := &Server{
		logger: logrus.StandardLogger(),
		now:    time.Now,
		calls:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.db == nil {
		db, err := OpenMemory()
		if err != nil {
			return nil, err
		}
		s.db = db
	}
	store, err := NewStore(s.db, s.now)
	if err != nil {
		return nil, err
	}
	s.store = store
	s.engine = s.routes()
	return s, nil
}

// Close releases the database
func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()                                  // No default stdout logger
	r.Use(gin.Recovery(), s.count(), s.accessLog()) // Recover, count, log

	v1 := r.Group("/api/v1")
	if s.secret != "" {
		v1.Use(JWTAuthMiddleware(s.secret)) // Protect every ledger route
	}

	v1.GET("/users/", s.listUsers)              // List users
	v1.POST("/users/", s.createUser)            // Create user
	v1.DELETE("/users/:id", s.deleteUser)       // Delete user and its wallets
	v1.GET("/wallets/", s.listWallets)          // List wallets
	v1.POST("/wallets/", s.createWallet)        // Create wallet
	v1.GET("/wallets/:id", s.getWallet)         // Get wallet
	v1.DELETE("/wallets/:id", s.deleteWallet)   // Delete wallet
	v1.POST("/wallets/:id/deposit", s.deposit)  // Deposit
	v1.POST("/transfer/", s.transfer)           // Single transfer
	v1.POST("/transfer/batch", s.batchTransfer) // Batch transfer
	v1.GET("/transfer/history", s.history)      // Transaction history
	return r
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the ledger on addr until the listener fails
func (s *Server) Run(addr string) error {
	// Set trusted proxies for Gin
	if err := s.engine.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return err
	}
	return s.engine.Run(addr)
}

// Store exposes the backing store, mostly for seeding in tests
func (s *Server) Store() *Store {
	return s.store
}

// Calls returns how many requests reached route, e.g. Calls("POST", "/api/v1/transfer/")
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+route]
}

// count increments the per-route counter
func (s *Server) count() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath() // Registered pattern, not the concrete URL
		if route == "" {
			route = c.Request.URL.Path
		}
		s.mu.Lock()
		s.calls[c.Request.Method+" "+route]++
		s.mu.Unlock()
		c.Next()
	}
}

// accessLog writes one logrus line per request
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,            // HTTP method
			"path":       c.Request.URL.Path,          // Request path
			"status":     c.Writer.Status(),           // Response status
			"request_id": c.GetHeader("X-Request-Id"), // Client correlation id
			"latency":    time.Since(start).String(),  // Handling time
		}).Debug("Ledger request")
	}
}
