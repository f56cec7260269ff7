package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agentmarket/src/core/catalog"
)

// ErrorResponse is the error payload shape used by all endpoints.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// setupRoutes configures all registry endpoints.
func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/agents", s.handleSearchAgents)
	api.GET("/agents/top-rated", s.handleTopRated)
	api.GET("/agents/trending", s.handleTrending)
	api.GET("/agents/:agent_id", s.handleGetAgent)
	api.GET("/agents/:agent_id/reviews", s.handleListReviews)
	api.POST("/agents", s.handlePublishAgent)
	api.POST("/agents/:agent_id/reviews", s.handleAddReview)

	// Operational endpoints
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/", s.handleRoot)
}

// handleSearchAgents handles GET /api/agents.
//
// Query params: query, min_rating, and repeatable capability / tag. All
// are optional; with none present every listing is returned, sorted by
// rating descending.
func (s *Server) handleSearchAgents(c *gin.Context) {
	filter := catalog.SearchFilter{}

	if q := c.Query("query"); q != "" {
		filter.Query = &q
	}
	if mr := c.Query("min_rating"); mr != "" {
		value, err := strconv.ParseFloat(mr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "min_rating must be a number"})
			return
		}
		filter.MinRating = &value
	}
	if caps := c.QueryArray("capability"); len(caps) > 0 {
		filter.Capabilities = caps
	}
	if tags := c.QueryArray("tag"); len(tags) > 0 {
		filter.Tags = tags
	}

	filter, err := catalog.NewSearchFilter(filter)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
		return
	}

	cacheKey := s.cache.key("search", filter)
	if cached, ok := s.cache.get(cacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	// The cache fill must stay inside the read-lock critical section.
	// Filling after RUnlock would let a slow reader store a pre-write
	// snapshot after a concurrent write already invalidated the cache.
	s.mu.RLock()
	results := s.catalog.Search(filter)
	s.cache.set(cacheKey, results)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, results)
}

// handleTopRated handles GET /api/agents/top-rated.
func (s *Server) handleTopRated(c *gin.Context) {
	limit := s.parseLimit(c)

	cacheKey := s.cache.key("top-rated", limit)
	if cached, ok := s.cache.get(cacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	// Cache fill under the read lock, same as the search handler.
	s.mu.RLock()
	results := s.catalog.TopRated(limit)
	s.cache.set(cacheKey, results)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, results)
}

// handleTrending handles GET /api/agents/trending.
func (s *Server) handleTrending(c *gin.Context) {
	limit := s.parseLimit(c)

	cacheKey := s.cache.key("trending", limit)
	if cached, ok := s.cache.get(cacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	// Cache fill under the read lock, same as the search handler.
	s.mu.RLock()
	results := s.catalog.Trending(limit)
	s.cache.set(cacheKey, results)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, results)
}

// handleGetAgent handles GET /api/agents/:agent_id.
func (s *Server) handleGetAgent(c *gin.Context) {
	agentID := c.Param("agent_id")

	s.mu.RLock()
	listing, err := s.catalog.Get(agentID)
	s.mu.RUnlock()

	if err != nil {
		s.renderCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// handleListReviews handles GET /api/agents/:agent_id/reviews. Unknown
// agents yield an empty list, mirroring the catalog contract; use the
// agent endpoint to distinguish "no reviews" from "no agent".
func (s *Server) handleListReviews(c *gin.Context) {
	agentID := c.Param("agent_id")

	s.mu.RLock()
	reviews := s.catalog.Reviews(agentID)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, reviews)
}

// handlePublishAgent handles POST /api/agents.
func (s *Server) handlePublishAgent(c *gin.Context) {
	var in catalog.Listing
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid JSON payload"})
		return
	}

	listing, err := catalog.NewListing(in)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
		return
	}

	s.RegisterListing(listing)
	s.log.Info("Published agent '%s' (version %s)", listing.AgentID, listing.Version)
	c.JSON(http.StatusCreated, listing)
}

// handleAddReview handles POST /api/agents/:agent_id/reviews.
func (s *Server) handleAddReview(c *gin.Context) {
	agentID := c.Param("agent_id")

	var in catalog.Review
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid JSON payload"})
		return
	}

	review, err := catalog.NewReview(in)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
		return
	}

	if err := s.addReview(agentID, review); err != nil {
		s.renderCatalogError(c, err)
		return
	}

	s.log.Debug("Review by '%s' recorded for agent '%s'", review.Reviewer, agentID)
	c.JSON(http.StatusCreated, review)
}

// handleHealth returns registry health status.
func (s *Server) handleHealth(c *gin.Context) {
	uptime := time.Since(s.startTime).Seconds()

	s.mu.RLock()
	count := s.catalog.Count()
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"version":        Version,
		"uptime_seconds": int(uptime),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"service":        s.config.RegistryName,
		"agent_count":    count,
	})
}

// handleRoot returns basic registry info.
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.config.RegistryName,
		"version": Version,
		"status":  "running",
		"endpoints": []string{
			"/health",
			"/api/agents",
			"/api/agents/top-rated",
			"/api/agents/trending",
			"/api/agents/:agent_id",
			"/api/agents/:agent_id/reviews",
		},
	})
}

// renderCatalogError maps catalog errors onto HTTP statuses.
func (s *Server) renderCatalogError(c *gin.Context, err error) {
	var notFound *catalog.AgentNotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: notFound.Error()})
		return
	}

	var verr catalog.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: verr.Error()})
		return
	}

	s.log.Error("Unhandled catalog error: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal error"})
}

// parseLimit reads the limit query param, falling back to the configured
// default for missing or non-numeric values. Non-positive limits are
// passed through: the catalog defines them as "empty result".
func (s *Server) parseLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return s.config.DefaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return s.config.DefaultListLimit
	}
	return limit
}
