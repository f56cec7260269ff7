package catalog

import (
	"time"
)

// DefaultVersion is assigned to listings published without a version.
// No semver enforcement happens here; the string is stored as-is.
const DefaultVersion = "1.0.0"

// Listing is a published agent record. JSON field names are the wire
// contract shared by the HTTP API, CLI manifests, and snapshots.
type Listing struct {
	AgentID        string    `json:"agent_id" yaml:"agent_id"`
	Name           string    `json:"name" yaml:"name"`
	Description    string    `json:"description" yaml:"description"`
	Version        string    `json:"version" yaml:"version"`
	Author         string    `json:"author" yaml:"author"`
	Capabilities   []string  `json:"capabilities" yaml:"capabilities"`
	Tags           []string  `json:"tags" yaml:"tags"`
	Downloads      int       `json:"downloads" yaml:"downloads"`
	Rating         float64   `json:"rating" yaml:"rating"`
	License        string    `json:"license" yaml:"license"`
	InstallCommand string    `json:"install_command" yaml:"install_command"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// Review is a single rating+comment submission for a listing. Reviews are
// immutable once constructed; the catalog only ever appends them.
type Review struct {
	Reviewer  string    `json:"reviewer" yaml:"reviewer"`
	Rating    float64   `json:"rating" yaml:"rating"`
	Comment   string    `json:"comment" yaml:"comment"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SearchFilter selects listings by the logical AND of its non-nil fields.
// A nil field imposes no constraint; an empty-but-present slice requires
// containment of nothing and therefore also matches everything.
type SearchFilter struct {
	Query        *string  `json:"query,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	MinRating    *float64 `json:"min_rating,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// NewListing validates l, fills defaults, and returns the canonical value.
// Validation happens exactly once here; the catalog trusts stored values.
func NewListing(l Listing) (Listing, error) {
	if l.Version == "" {
		l.Version = DefaultVersion
	}
	if l.Capabilities == nil {
		l.Capabilities = []string{}
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	required := []struct {
		field, value string
	}{
		{"agent_id", l.AgentID},
		{"name", l.Name},
		{"description", l.Description},
		{"author", l.Author},
		{"license", l.License},
		{"install_command", l.InstallCommand},
	}
	for _, r := range required {
		if r.value == "" {
			return Listing{}, ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}

	if l.Downloads < 0 {
		return Listing{}, ValidationError{Field: "downloads", Message: "downloads must be non-negative"}
	}
	if err := validateRatingRange("rating", l.Rating); err != nil {
		return Listing{}, err
	}

	return l, nil
}

// NewReview validates r, stamps the creation time, and returns the
// canonical value.
func NewReview(r Review) (Review, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Reviewer == "" {
		return Review{}, ValidationError{Field: "reviewer", Message: "reviewer is required"}
	}
	if err := validateRatingRange("rating", r.Rating); err != nil {
		return Review{}, err
	}
	return r, nil
}

// NewSearchFilter validates f and returns it unchanged on success.
//
// MinRating gets its own explicit range check with a fixed message: the
// bound is safety-relevant for filtering, and the check must hold even if
// the filter value arrived through a path that skipped field validation.
func NewSearchFilter(f SearchFilter) (SearchFilter, error) {
	if f.MinRating != nil && (*f.MinRating < 0.0 || *f.MinRating > 5.0) {
		return SearchFilter{}, ValidationError{
			Field:   "min_rating",
			Message: "min_rating must be between 0.0 and 5.0.",
		}
	}
	return f, nil
}
