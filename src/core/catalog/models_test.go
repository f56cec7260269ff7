package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validListing() Listing {
	return Listing{
		AgentID:        "code-review-agent",
		Name:           "Code Review Agent",
		Description:    "Reviews pull requests for style and correctness",
		Author:         "aumai",
		License:        "Apache-2.0",
		InstallCommand: "pip install code-review-agent",
	}
}

func TestNewListing(t *testing.T) {
	t.Run("AppliesDefaults", func(t *testing.T) {
		l, err := NewListing(validListing())
		require.NoError(t, err)

		assert.Equal(t, DefaultVersion, l.Version)
		assert.Equal(t, []string{}, l.Capabilities)
		assert.Equal(t, []string{}, l.Tags)
		assert.Equal(t, 0, l.Downloads)
		assert.Equal(t, 0.0, l.Rating)
		assert.False(t, l.CreatedAt.IsZero())
	})

	t.Run("PreservesProvidedFields", func(t *testing.T) {
		in := validListing()
		in.Version = "2.3.1"
		in.Capabilities = []string{"code-review", "linting"}
		in.Tags = []string{"dev-tools"}
		in.Downloads = 420
		in.Rating = 4.7
		in.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		l, err := NewListing(in)
		require.NoError(t, err)
		assert.Equal(t, in, l)
	})

	t.Run("RequiredStrings", func(t *testing.T) {
		cases := []struct {
			field  string
			mutate func(*Listing)
		}{
			{"agent_id", func(l *Listing) { l.AgentID = "" }},
			{"name", func(l *Listing) { l.Name = "" }},
			{"description", func(l *Listing) { l.Description = "" }},
			{"author", func(l *Listing) { l.Author = "" }},
			{"license", func(l *Listing) { l.License = "" }},
			{"install_command", func(l *Listing) { l.InstallCommand = "" }},
		}
		for _, tc := range cases {
			t.Run(tc.field, func(t *testing.T) {
				in := validListing()
				tc.mutate(&in)

				_, err := NewListing(in)
				require.Error(t, err)
				var verr ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tc.field, verr.Field)
			})
		}
	})

	t.Run("NegativeDownloads", func(t *testing.T) {
		in := validListing()
		in.Downloads = -1

		_, err := NewListing(in)
		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "downloads", verr.Field)
	})

	t.Run("RatingOutOfRange", func(t *testing.T) {
		for _, rating := range []float64{-0.1, 5.1} {
			in := validListing()
			in.Rating = rating

			_, err := NewListing(in)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "rating", verr.Field)
		}
	})

	t.Run("BoundaryRatingsValid", func(t *testing.T) {
		for _, rating := range []float64{0.0, 5.0} {
			in := validListing()
			in.Rating = rating

			_, err := NewListing(in)
			assert.NoError(t, err)
		}
	})
}

func TestNewReview(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r, err := NewReview(Review{Reviewer: "alice", Rating: 4.5, Comment: "solid"})
		require.NoError(t, err)
		assert.Equal(t, "alice", r.Reviewer)
		assert.Equal(t, 4.5, r.Rating)
		assert.False(t, r.CreatedAt.IsZero())
	})

	t.Run("EmptyCommentAllowed", func(t *testing.T) {
		_, err := NewReview(Review{Reviewer: "bob", Rating: 3.0})
		assert.NoError(t, err)
	})

	t.Run("MissingReviewer", func(t *testing.T) {
		_, err := NewReview(Review{Rating: 3.0})
		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "reviewer", verr.Field)
	})

	t.Run("RatingOutOfRange", func(t *testing.T) {
		_, err := NewReview(Review{Reviewer: "carol", Rating: 5.5})
		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "rating", verr.Field)
	})
}

func TestNewSearchFilter(t *testing.T) {
	t.Run("EmptyFilterValid", func(t *testing.T) {
		_, err := NewSearchFilter(SearchFilter{})
		assert.NoError(t, err)
	})

	t.Run("MinRatingBounds", func(t *testing.T) {
		for _, v := range []float64{0.0, 2.5, 5.0} {
			v := v
			_, err := NewSearchFilter(SearchFilter{MinRating: &v})
			assert.NoError(t, err)
		}
	})

	t.Run("MinRatingOutOfRange", func(t *testing.T) {
		six := 6.0
		_, err := NewSearchFilter(SearchFilter{MinRating: &six})
		require.Error(t, err)

		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "min_rating", verr.Field)
		assert.Equal(t, "min_rating must be between 0.0 and 5.0.", verr.Message)
		assert.Contains(t, err.Error(), "min_rating")
		assert.Contains(t, err.Error(), "0.0 and 5.0")
	})
}
