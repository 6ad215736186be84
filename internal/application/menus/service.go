package menus

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/promptmenu/promptmenu-api/internal/application"
	"github.com/promptmenu/promptmenu-api/internal/domain/ai"
	"github.com/promptmenu/promptmenu-api/internal/domain/records"
	"github.com/promptmenu/promptmenu-api/internal/domain/vision"
)

// Service implements the menu image analysis use-case. Vision and advice
// failures degrade the result instead of failing the request, and a storage
// failure yields a partial-success result: the caller still gets the
// analysis.
type Service struct {
	Vision     vision.Analyzer
	Advisor    ai.Advisor
	Blobs      records.BlobStore
	Repo       records.Repository
	Clock      application.Clock
	PresignTTL time.Duration
}

type AnalyzeMenuCommand struct {
	TenantID            string
	FileName            string
	Content             []byte
	UserInfo            map[string]string
	Metadata            map[string]string
	DietaryRestrictions []string
	HealthConditions    []string
}

// StatusNotSaved marks analysis that completed but could not be persisted.
const StatusNotSaved = "analysis-completed-but-not-saved"

type AnalyzeMenuResult struct {
	Record       *records.ClassifiedRecord
	Vision       vision.Summary
	Advice       map[string]any
	Saved        bool
	Degraded     bool
	StorageError string
}

func (s *Service) Analyze(ctx context.Context, cmd AnalyzeMenuCommand) (*AnalyzeMenuResult, error) {
	now := s.Clock.Now()

	blobName := fmt.Sprintf("menu_%s%s", now.UTC().Format("20060102150405"), filepath.Ext(cmd.FileName))
	blobURL, err := s.Blobs.Upload(ctx, blobName, cmd.Content, cmd.Metadata)
	if err != nil {
		return nil, fmt.Errorf("blob upload: %w", err)
	}
	sasURL, err := s.Blobs.PresignedURL(ctx, blobName, s.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign blob: %w", err)
	}

	// vision failure reduces to an error summary; advice still runs
	degraded := false
	var summary vision.Summary
	if raw, verr := s.Vision.AnalyzeImage(ctx, cmd.Content); verr != nil {
		log.Printf("vision analysis failed for %s: %v", blobName, verr)
		summary = vision.Failed(verr)
		degraded = true
	} else {
		summary = vision.Reduce(raw)
	}

	advice, aerr := s.Advisor.Advise(ctx, adviceRequest(summary, cmd))
	if aerr != nil {
		log.Printf("dietary advice failed for %s: %v", blobName, aerr)
		advice = degradedAdvice(aerr, summary.DishName, now)
		degraded = true
	}

	rec := s.buildMenuRecord(cmd, records.BlobReference{Name: blobName, URL: blobURL, SASURL: sasURL}, summary, advice, now)

	res := &AnalyzeMenuResult{Record: rec, Vision: summary, Advice: advice, Saved: true, Degraded: degraded}
	if serr := s.Repo.Save(ctx, rec); serr != nil {
		// partial success: analysis stands, persistence did not
		log.Printf("record save failed for %s: %v", rec.DocumentKey, serr)
		res.Saved = false
		res.StorageError = serr.Error()
	}
	return res, nil
}

func (s *Service) buildMenuRecord(cmd AnalyzeMenuCommand, blob records.BlobReference, summary vision.Summary, advice map[string]any, now time.Time) *records.ClassifiedRecord {
	dish := summary.DishName
	if dish == "" {
		dish = "unknown_dish"
	}
	keyPrefix := "menu_" + records.Normalize(dish)

	rec := &records.ClassifiedRecord{
		ID:          records.RecordID(uuid.New().String()),
		TenantID:    cmd.TenantID,
		DocumentKey: records.DocumentKey(keyPrefix, records.Username(cmd.UserInfo), now),
		Blob:        blob,
		UploadedAt:  now.UTC(),
		ReceiptType: records.TypeUnknown,
		UserInfo:    cmd.UserInfo,
		Metadata:    cmd.Metadata,

		DishName:            displayDish(summary.DishName),
		DietaryRestrictions: cmd.DietaryRestrictions,
		HealthConditions:    cmd.HealthConditions,
		Analysis: map[string]any{
			"vision_analysis":  summary,
			"dietary_analysis": advice,
		},
	}

	// promote the queryable advice fields
	rec.Calories = advice["calories"]
	rec.Nutrition = advice["nutrition"]
	rec.DietaryInfo = advice["dietary_info"]
	rec.HealthWarnings = advice["health_warnings"]
	return rec
}

func adviceRequest(summary vision.Summary, cmd AnalyzeMenuCommand) ai.AdviceRequest {
	tags := make([]string, 0, 5)
	for _, t := range summary.FoodTags {
		if len(tags) == 5 {
			break
		}
		tags = append(tags, t.Name)
	}
	return ai.AdviceRequest{
		DishName:            displayDish(summary.DishName),
		FoodTags:            tags,
		MenuText:            summary.MenuText,
		DietaryRestrictions: cmd.DietaryRestrictions,
		HealthConditions:    cmd.HealthConditions,
	}
}

func displayDish(dish string) string {
	if dish == "" {
		return "Unknown dish"
	}
	return dish
}

// degradedAdvice is the advice object returned when the LLM call fails.
func degradedAdvice(err error, dish string, now time.Time) map[string]any {
	return map[string]any{
		"error":              err.Error(),
		"dish_analyzed":      displayDish(dish),
		"analysis_timestamp": now.UTC().Format(time.RFC3339),
	}
}
