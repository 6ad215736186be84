package vision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFoodTags(t *testing.T) {
	res := &AnalyzeResult{Tags: &TagsResult{Values: []Tag{
		{Name: "table", Confidence: 0.99},
		{Name: "pizza", Confidence: 0.92},
		{Name: "fast food", Confidence: 0.88},
		{Name: "plate", Confidence: 0.95},
		{Name: "italian cuisine", Confidence: 0.81},
	}}}

	s := Reduce(res)
	require.Len(t, s.FoodTags, 2, "pizza and plate carry no food keyword")
	assert.Equal(t, "fast food", s.FoodTags[0].Name)
	assert.Equal(t, "italian cuisine", s.FoodTags[1].Name)
}

func TestFilterFoodTagsSortedByConfidenceDesc(t *testing.T) {
	res := &AnalyzeResult{Tags: &TagsResult{Values: []Tag{
		{Name: "dessert", Confidence: 0.4},
		{Name: "street food", Confidence: 0.9},
		{Name: "meal", Confidence: 0.6},
	}}}

	s := Reduce(res)
	require.Len(t, s.FoodTags, 3)
	assert.Equal(t, []Tag{
		{Name: "street food", Confidence: 0.9},
		{Name: "meal", Confidence: 0.6},
		{Name: "dessert", Confidence: 0.4},
	}, s.FoodTags)
}

func TestFilterFoodTagsStableOnTies(t *testing.T) {
	res := &AnalyzeResult{Tags: &TagsResult{Values: []Tag{
		{Name: "comfort food", Confidence: 0.5},
		{Name: "dessert", Confidence: 0.5},
		{Name: "meal", Confidence: 0.5},
	}}}

	s := Reduce(res)
	require.Len(t, s.FoodTags, 3)
	assert.Equal(t, "comfort food", s.FoodTags[0].Name)
	assert.Equal(t, "dessert", s.FoodTags[1].Name)
	assert.Equal(t, "meal", s.FoodTags[2].Name)
}

func TestReduceDishFromTopTag(t *testing.T) {
	res := &AnalyzeResult{
		Tags:    &TagsResult{Values: []Tag{{Name: "street food", Confidence: 0.92}}},
		Caption: &CaptionResult{Text: "a photo of a bowl of food", Confidence: 0.8},
	}
	s := Reduce(res)
	assert.Equal(t, "street food", s.DishName)
}

func TestReduceDishFromCaption(t *testing.T) {
	res := &AnalyzeResult{
		Caption: &CaptionResult{Text: "a photo of a bowl of food", Confidence: 0.8},
	}
	s := Reduce(res)
	assert.Equal(t, "bowl of", s.DishName)
	assert.Equal(t, "a photo of a bowl of food", s.Caption)
	assert.Equal(t, 0.8, s.CaptionConfidence)
}

func TestReduceLowConfidenceTagFallsThroughToCaption(t *testing.T) {
	res := &AnalyzeResult{
		Tags:    &TagsResult{Values: []Tag{{Name: "dessert", Confidence: 0.5}}},
		Caption: &CaptionResult{Text: "a plate of food", Confidence: 0.9},
	}
	s := Reduce(res)
	assert.Equal(t, "food", s.DishName, "plate boilerplate strips to the bare subject")
}

func TestReduceCaptionWithoutFoodIsIgnored(t *testing.T) {
	res := &AnalyzeResult{
		Caption: &CaptionResult{Text: "a photo of a table", Confidence: 0.9},
		Read: &ReadResult{Blocks: []ReadBlock{{Lines: []ReadLine{
			{Text: "$12.00"},
			{Text: "Margherita Pizza"},
		}}}},
	}
	s := Reduce(res)
	assert.Equal(t, "Margherita Pizza", s.DishName)
}

func TestReduceMenuTextJoinsLines(t *testing.T) {
	res := &AnalyzeResult{
		Read: &ReadResult{Blocks: []ReadBlock{
			{Lines: []ReadLine{{Text: "Starters"}, {Text: "Soup $5"}}},
			{Lines: []ReadLine{{Text: "Mains"}}},
		}},
	}
	s := Reduce(res)
	assert.Equal(t, "Starters\nSoup $5\nMains\n", s.MenuText)
	assert.Equal(t, "Starters", s.DishName)
}

func TestReduceNoSignals(t *testing.T) {
	s := Reduce(&AnalyzeResult{})
	assert.Equal(t, "", s.DishName)
	assert.Empty(t, s.FoodTags)
}

func TestReduceNil(t *testing.T) {
	assert.Equal(t, Summary{}, Reduce(nil))
}

func TestReduceObjects(t *testing.T) {
	res := &AnalyzeResult{Objects: &ObjectsResult{Values: []DetectedObject{
		{Tags: []Tag{{Name: "bowl", Confidence: 0.9}, {Name: "tableware", Confidence: 0.5}}},
		{},
	}}}
	s := Reduce(res)
	require.Len(t, s.Objects, 1)
	assert.Equal(t, "bowl", s.Objects[0].Name)
}

func TestStripCaptionLeadIns(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a photo of a bowl of food", "bowl of"},
		{"a plate of food", "food"},
		{"an image of a burger with food", "burger with"},
		{"a picture of seafood", "seafood"},
		{"Food", "food"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCaptionLeadIns(tt.in), "input %q", tt.in)
	}
}

func TestFailed(t *testing.T) {
	s := Failed(errors.New("analysis timed out"))
	assert.Equal(t, "analysis timed out", s.Error)
	assert.Empty(t, s.DishName)
}
