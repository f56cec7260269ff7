package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentmarket/src/core/catalog"
	"agentmarket/src/core/config"
	"agentmarket/src/core/logger"
)

func TestResponseCache(t *testing.T) {
	t.Run("SetAndGet", func(t *testing.T) {
		c := newResponseCache(time.Minute, true)
		key := c.key("search", map[string]string{"query": "x"})

		_, ok := c.get(key)
		assert.False(t, ok)

		c.set(key, []string{"result"})
		value, ok := c.get(key)
		require.True(t, ok)
		assert.Equal(t, []string{"result"}, value)
	})

	t.Run("KeyDependsOnParams", func(t *testing.T) {
		c := newResponseCache(time.Minute, true)
		assert.NotEqual(t,
			c.key("search", map[string]string{"query": "x"}),
			c.key("search", map[string]string{"query": "y"}))
		assert.NotEqual(t,
			c.key("search", map[string]string{"query": "x"}),
			c.key("trending", map[string]string{"query": "x"}))
	})

	t.Run("Expiry", func(t *testing.T) {
		c := newResponseCache(10*time.Millisecond, true)
		c.set("k", "v")

		time.Sleep(25 * time.Millisecond)
		_, ok := c.get("k")
		assert.False(t, ok)
	})

	t.Run("Invalidate", func(t *testing.T) {
		c := newResponseCache(time.Minute, true)
		c.set("k", "v")
		c.invalidate()

		_, ok := c.get("k")
		assert.False(t, ok)
	})

	t.Run("DisabledCacheStoresNothing", func(t *testing.T) {
		c := newResponseCache(time.Minute, false)
		c.set("k", "v")
		_, ok := c.get("k")
		assert.False(t, ok)
	})

	t.Run("ZeroTTLDisables", func(t *testing.T) {
		c := newResponseCache(0, true)
		c.set("k", "v")
		_, ok := c.get("k")
		assert.False(t, ok)
	})
}

// Writes must invalidate cached read responses so a cached result never
// disagrees with the catalog.
func TestCachedEndpointsInvalidatedByWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		RegistryName:        "agentmarket-test",
		DefaultListLimit:    10,
		LogLevel:            "ERROR",
		CacheTTL:            60,
		EnableResponseCache: true,
	}
	s := NewServer(catalog.New(), cfg, logger.New(cfg))

	publishTestAgent(t, s, "a", 4.0, 0)

	decode := func(t *testing.T, path string) []catalog.Listing {
		t.Helper()
		w := performRequest(s, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var listings []catalog.Listing
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
		return listings
	}

	// Prime the cache.
	require.Len(t, decode(t, "/api/agents"), 1)

	// A write lands and the next read must observe it.
	publishTestAgent(t, s, "b", 2.0, 0)
	assert.Len(t, decode(t, "/api/agents"), 2)

	// Reviews also invalidate: the rating change must be visible.
	w := performRequest(s, http.MethodPost, "/api/agents/b/reviews", gin.H{
		"reviewer": "alice", "rating": 5.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	listings := decode(t, "/api/agents")
	require.Len(t, listings, 2)
	assert.Equal(t, "b", listings[0].AgentID)
	assert.Equal(t, 5.0, listings[0].Rating)
}

// A read whose catalog snapshot predates a write must not leave that
// snapshot in the cache once the write has completed. Reads run
// concurrently with a publish here; the first read issued after the
// publish returns has to include the new agent, even when a slower
// reader took its snapshot before the write landed.
func TestCacheNeverServesPreWriteSnapshotAfterWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for i := 0; i < 25; i++ {
		cfg := &config.Config{
			RegistryName:        "agentmarket-test",
			DefaultListLimit:    10,
			LogLevel:            "ERROR",
			CacheTTL:            60,
			EnableResponseCache: true,
		}
		s := NewServer(catalog.New(), cfg, logger.New(cfg))

		publishTestAgent(t, s, "a", 4.0, 0)

		stop := make(chan struct{})
		var wg sync.WaitGroup
		for r := 0; r < 4; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
						performRequest(s, http.MethodGet, "/api/agents", nil)
					}
				}
			}()
		}

		publishTestAgent(t, s, "b", 2.0, 0)
		w := performRequest(s, http.MethodGet, "/api/agents", nil)

		close(stop)
		wg.Wait()

		require.Equal(t, http.StatusOK, w.Code)
		var listings []catalog.Listing
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
		require.Len(t, listings, 2, "read after a completed publish must include the new agent")
	}
}
