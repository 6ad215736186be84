package vision

// Tag is a labeled confidence score from the vision service.
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Summary is the reduced view of an image analysis: a single best-guess
// subject plus the evidence that produced it.
type Summary struct {
	DishName          string  `json:"dish_name"`
	Caption           string  `json:"caption"`
	CaptionConfidence float64 `json:"caption_confidence"`
	FoodTags          []Tag   `json:"food_tags"`
	MenuText          string  `json:"menu_text"`
	Objects           []Tag   `json:"objects"`
	Error             string  `json:"error,omitempty"`
}

// Wire types for the image-analysis response (tags, caption, objects, read).

type AnalyzeResult struct {
	Caption *CaptionResult `json:"captionResult,omitempty"`
	Tags    *TagsResult    `json:"tagsResult,omitempty"`
	Objects *ObjectsResult `json:"objectsResult,omitempty"`
	Read    *ReadResult    `json:"readResult,omitempty"`
}

type CaptionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type TagsResult struct {
	Values []Tag `json:"values"`
}

type ObjectsResult struct {
	Values []DetectedObject `json:"values"`
}

type DetectedObject struct {
	Tags []Tag `json:"tags"`
}

type ReadResult struct {
	Blocks []ReadBlock `json:"blocks"`
}

type ReadBlock struct {
	Lines []ReadLine `json:"lines"`
}

type ReadLine struct {
	Text string `json:"text"`
}
