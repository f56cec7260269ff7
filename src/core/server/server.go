package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"agentmarket/src/core/catalog"
	"agentmarket/src/core/config"
	"agentmarket/src/core/logger"
)

// Version is the service version reported by the operational endpoints.
const Version = "0.1.0"

// Server is the HTTP wrapper around one injected catalog instance.
//
// The catalog itself is a single-writer structure, so the server owns the
// mutual exclusion: writes take the write lock, reads the read lock, and a
// listing is never visible with a rating that does not match its reviews.
type Server struct {
	engine    *gin.Engine
	catalog   *catalog.Catalog
	config    *config.Config
	log       *logger.Logger
	cache     *responseCache
	mu        sync.RWMutex
	startTime time.Time
}

// NewServer creates a registry server around the given catalog.
func NewServer(cat *catalog.Catalog, cfg *config.Config, log *logger.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	// Per-request access logging is noisy at scale, so it is only attached
	// when the logger is running at debug level.
	if log.IsDebugEnabled() {
		engine.Use(gin.Logger())
	}

	s := &Server{
		engine:    engine,
		catalog:   cat,
		config:    cfg,
		log:       log,
		cache:     newResponseCache(time.Duration(cfg.CacheTTL)*time.Second, cfg.EnableResponseCache),
		startTime: time.Now().UTC(),
	}

	s.setupRoutes()
	return s
}

// Engine exposes the underlying gin engine for tests and embedding.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.log.Info("Registry API listening on %s", addr)
	return s.engine.Run(addr)
}

// RegisterListing registers a validated listing under the write lock and
// drops cached read responses. Used by the publish handler and the
// manifest loader.
//
// Invalidation runs inside the write-lock critical section. Together with
// cache fills running under the read lock this ensures no reader can
// re-populate the cache with a pre-write snapshot after the invalidation.
func (s *Server) RegisterListing(l catalog.Listing) {
	s.mu.Lock()
	s.catalog.Register(l)
	s.cache.invalidate()
	s.mu.Unlock()
}

// addReview attaches a validated review under the write lock.
func (s *Server) addReview(agentID string, r catalog.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.AddReview(agentID, r); err != nil {
		return err
	}
	s.cache.invalidate()
	return nil
}
