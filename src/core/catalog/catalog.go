package catalog

import (
	"math"
	"sort"
	"strings"
)

// DefaultLimit is the result count used by TopRated and Trending when the
// caller has no preference.
const DefaultLimit = 10

// Catalog is the in-memory registry of agent listings and their reviews.
//
// The catalog itself carries no locking: it is a single-writer structure
// and expects the hosting service to serialize mutations (the HTTP server
// wraps it in one RWMutex). All operations are synchronous linear scans.
type Catalog struct {
	listings map[string]Listing
	order    []string // agent ids in first-registration order
	reviews  map[string][]Review
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		listings: make(map[string]Listing),
		reviews:  make(map[string][]Review),
	}
}

// Register inserts or overwrites the listing keyed by its agent id.
// Overwrite is last-write-wins and does not touch the review log: any
// reviews already recorded keep counting toward future recomputation,
// which only AddReview triggers. A re-registered agent keeps its original
// position in iteration order.
func (c *Catalog) Register(l Listing) {
	if _, exists := c.listings[l.AgentID]; !exists {
		c.order = append(c.order, l.AgentID)
	}
	c.listings[l.AgentID] = l
}

// Get returns the listing for agentID, or *AgentNotFoundError.
func (c *Catalog) Get(agentID string) (Listing, error) {
	l, ok := c.listings[agentID]
	if !ok {
		return Listing{}, &AgentNotFoundError{AgentID: agentID}
	}
	return l, nil
}

// Reviews returns the reviews for agentID in the exact order they were
// added. Unknown ids yield an empty slice, never an error; callers that
// need to distinguish "no reviews" from "no agent" must use Get.
func (c *Catalog) Reviews(agentID string) []Review {
	stored := c.reviews[agentID]
	out := make([]Review, len(stored))
	copy(out, stored)
	return out
}

// AddReview appends review to the agent's log and recomputes the stored
// rating as the mean over the full review history, rounded to two
// decimals. The listing is replaced with a copy whose only changed field
// is Rating. Fails with *AgentNotFoundError before recording anything, so
// a sequential caller never observes a review the rating does not reflect.
func (c *Catalog) AddReview(agentID string, review Review) error {
	listing, err := c.Get(agentID)
	if err != nil {
		return err
	}

	c.reviews[agentID] = append(c.reviews[agentID], review)

	var sum float64
	all := c.reviews[agentID]
	for _, r := range all {
		sum += r.Rating
	}

	listing.Rating = roundRating(sum / float64(len(all)))
	c.listings[agentID] = listing
	return nil
}

// Search evaluates every listing against the filter's predicates and
// returns the matches sorted by rating descending. Omitted filter fields
// are vacuously true; present ones must all pass. Ties keep registration
// order (stable sort), pinning deterministic results.
func (c *Catalog) Search(f SearchFilter) []Listing {
	results := make([]Listing, 0)
	for _, id := range c.order {
		listing := c.listings[id]
		if matchesFilter(listing, f) {
			results = append(results, listing)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rating > results[j].Rating
	})
	return results
}

// TopRated returns up to limit listings sorted by rating descending.
// A non-positive limit yields an empty slice; a limit beyond the catalog
// size returns everything.
func (c *Catalog) TopRated(limit int) []Listing {
	all := c.snapshot()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Rating > all[j].Rating
	})
	return truncate(all, limit)
}

// Trending returns up to limit listings sorted by download count
// descending. Cumulative downloads stand in for recency; per-window
// download telemetry is not modeled.
func (c *Catalog) Trending(limit int) []Listing {
	all := c.snapshot()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Downloads > all[j].Downloads
	})
	return truncate(all, limit)
}

// Count returns the number of registered listings.
func (c *Catalog) Count() int {
	return len(c.listings)
}

// snapshot copies all listings in first-registration order.
func (c *Catalog) snapshot() []Listing {
	out := make([]Listing, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.listings[id])
	}
	return out
}

func truncate(listings []Listing, limit int) []Listing {
	if limit <= 0 {
		return []Listing{}
	}
	if limit > len(listings) {
		limit = len(listings)
	}
	return listings[:limit]
}

// matchesFilter applies the filter predicates cheapest-first and
// short-circuits on the first failure.
func matchesFilter(l Listing, f SearchFilter) bool {
	if f.MinRating != nil && l.Rating < *f.MinRating {
		return false
	}
	if f.Query != nil {
		q := strings.ToLower(*f.Query)
		if !strings.Contains(strings.ToLower(l.Name), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}
	if f.Capabilities != nil && !hasAll(l.Capabilities, f.Capabilities) {
		return false
	}
	if f.Tags != nil && !hasAll(l.Tags, f.Tags) {
		return false
	}
	return true
}

// hasAll reports whether every required value is present in available.
// Both sides are treated as sets: order and duplicates are irrelevant.
func hasAll(available, required []string) bool {
	for _, req := range required {
		if !contains(available, req) {
			return false
		}
	}
	return true
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// roundRating rounds to two decimals, half away from zero. 4.8 and 4.2
// average to exactly 4.5; a .005 midpoint like 4.125 rounds up to 4.13.
func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
