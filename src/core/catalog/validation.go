package catalog

import "fmt"

// ValidationError reports a field that violated its declared constraints
// at construction time.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AgentNotFoundError is returned by Get and AddReview when the referenced
// agent_id is absent from the catalog.
type AgentNotFoundError struct {
	AgentID string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("Agent '%s' not found.", e.AgentID)
}

func validateRatingRange(field string, value float64) error {
	if value < 0.0 || value > 5.0 {
		return ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be between 0.0 and 5.0", field),
		}
	}
	return nil
}
