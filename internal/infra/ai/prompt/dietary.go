package prompt

import (
	"fmt"
	"strings"

	"github.com/promptmenu/promptmenu-api/internal/domain/ai"
)

// GetSystemPrompt pins the assistant persona and the JSON-only contract.
func GetSystemPrompt() string {
	return "You are a nutrition expert providing detailed food analysis in JSON format."
}

// GetUserPrompt builds the dish analysis request around the vision evidence.
func GetUserPrompt(req ai.AdviceRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a nutrition expert analyzing a food item from a menu.\n\n")
	fmt.Fprintf(&b, "The food item appears to be: %s\n\n", req.DishName)
	fmt.Fprintf(&b, "Additional food tags identified: %s\n\n", strings.Join(req.FoodTags, ", "))
	fmt.Fprintf(&b, "Text extracted from the menu:\n%s\n\n", req.MenuText)

	if len(req.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s\n", strings.Join(req.DietaryRestrictions, ", "))
	}
	if len(req.HealthConditions) > 0 {
		fmt.Fprintf(&b, "Health conditions: %s\n", strings.Join(req.HealthConditions, ", "))
	}

	b.WriteString(`
Please provide:
1. A brief description of this dish
2. Likely ingredients (list the main ingredients)
3. Estimated calorie count (provide a range)
4. Nutritional information (protein, carbs, fat estimates)
5. Dietary considerations (is it vegetarian, vegan, gluten-free, etc.)
6. Health considerations (how this dish might affect someone with the mentioned health conditions)
7. Recommendations (whether to eat it, portion control advice, etc.)

Format your response as JSON with the following structure:
{"description": "...", "ingredients": ["...", "..."], "calories": "...", "nutrition": {"protein": "...", "carbs": "...", "fat": "..."}, "dietary_info": "...", "health_warnings": "...", "recommendations": "..."}`)

	return b.String()
}
