package vision

import (
	"regexp"
	"sort"
	"strings"
)

// tags whose name contains one of these count as food evidence
var foodKeywords = []string{"food", "cuisine", "dish", "meal", "ingredient", "dessert", "fruit", "vegetable", "meat"}

var (
	captionLeadIn  = regexp.MustCompile(`(a|an) (photo|picture|image) of`)
	captionPlate   = regexp.MustCompile(`a plate of`)
	captionArticle = regexp.MustCompile(`^(a|an)\s+`)
	dishLinePat    = regexp.MustCompile(`^[A-Z][a-zA-Z\s]+$`)
)

// Reduce turns a raw image analysis into a Summary. Subject selection order:
// top food tag above 0.7 confidence, then a food caption with boilerplate
// stripped, then the first OCR line that looks like a dish heading.
func Reduce(res *AnalyzeResult) Summary {
	if res == nil {
		return Summary{}
	}
	s := Summary{
		FoodTags: filterFoodTags(res.Tags),
		MenuText: readText(res.Read),
	}
	if res.Caption != nil {
		s.Caption = res.Caption.Text
		s.CaptionConfidence = res.Caption.Confidence
	}
	if res.Objects != nil {
		for _, obj := range res.Objects.Values {
			if len(obj.Tags) > 0 {
				s.Objects = append(s.Objects, obj.Tags[0])
			}
		}
	}

	switch {
	case len(s.FoodTags) > 0 && s.FoodTags[0].Confidence > 0.7:
		s.DishName = s.FoodTags[0].Name
	case s.Caption != "" && strings.Contains(strings.ToLower(s.Caption), "food"):
		s.DishName = stripCaptionLeadIns(s.Caption)
	default:
		s.DishName = dishFromMenuText(s.MenuText)
	}
	return s
}

// Failed produces the degraded summary used when the vision call itself
// errors; downstream advice generation still runs on it.
func Failed(err error) Summary {
	return Summary{Error: err.Error()}
}

func filterFoodTags(tags *TagsResult) []Tag {
	if tags == nil {
		return nil
	}
	var food []Tag
	for _, tag := range tags.Values {
		name := strings.ToLower(tag.Name)
		for _, kw := range foodKeywords {
			if strings.Contains(name, kw) {
				food = append(food, tag)
				break
			}
		}
	}
	// stable: ties keep source order
	sort.SliceStable(food, func(i, j int) bool { return food[i].Confidence > food[j].Confidence })
	return food
}

// stripCaptionLeadIns removes boilerplate around the caption subject:
// "a/an photo/picture/image of", "a plate of", a leading article, and the
// trailing "food" qualifier that the selection check already consumed.
func stripCaptionLeadIns(caption string) string {
	s := strings.ToLower(caption)
	s = strings.TrimSpace(captionLeadIn.ReplaceAllString(s, ""))
	s = strings.TrimSpace(captionPlate.ReplaceAllString(s, ""))
	s = captionArticle.ReplaceAllString(s, "")
	if rest := strings.TrimSuffix(s, " food"); rest != s && strings.TrimSpace(rest) != "" {
		s = rest
	}
	return strings.TrimSpace(s)
}

func readText(read *ReadResult) string {
	if read == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range read.Blocks {
		for _, line := range block.Lines {
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// dishFromMenuText picks the first OCR line that starts with an uppercase
// letter and contains only letters and whitespace.
func dishFromMenuText(menuText string) string {
	for _, line := range strings.Split(menuText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && dishLinePat.MatchString(line) {
			return line
		}
	}
	return ""
}
