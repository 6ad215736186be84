package ai

import "context"

// AdviceRequest carries the reduced vision evidence the advisor reasons over.
type AdviceRequest struct {
	DishName            string
	FoodTags            []string
	MenuText            string
	DietaryRestrictions []string
	HealthConditions    []string
}

// Advisor port (interface for the LLM completion service). The returned map
// is the decoded JSON advice object; its schema is advisory only.
type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (map[string]any, error)
}
