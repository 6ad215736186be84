package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptmenu/promptmenu-api/internal/application"
	"github.com/promptmenu/promptmenu-api/internal/domain/docintel"
	"github.com/promptmenu/promptmenu-api/internal/domain/records"
)

// Service implements the document/receipt analysis use-cases.
// A storage failure here fails the whole request: the persisted record is the
// point of this endpoint.
type Service struct {
	Analyzer   docintel.Analyzer
	Blobs      records.BlobStore
	Repo       records.Repository
	Clock      application.Clock
	ModelID    string
	PresignTTL time.Duration
}

// Command for one uploaded document
type AnalyzeCommand struct {
	TenantID string
	FileName string
	Content  []byte
	UserInfo map[string]string
	Metadata map[string]string
}

type AnalyzeResult struct {
	Record  *records.ClassifiedRecord `json:"record"`
	Summary docintel.Summary          `json:"analysis_results"`
}

// Analyze uploads the file, runs the external analysis over a temporary
// access URL, derives the record and persists it.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	now := s.Clock.Now()

	blobName := UniqueBlobName(cmd.FileName, now)
	blobURL, err := s.Blobs.Upload(ctx, blobName, cmd.Content, cmd.Metadata)
	if err != nil {
		return nil, fmt.Errorf("blob upload: %w", err)
	}
	sasURL, err := s.Blobs.PresignedURL(ctx, blobName, s.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign blob: %w", err)
	}

	raw, err := s.Analyzer.AnalyzeURL(ctx, s.ModelID, sasURL)
	if err != nil {
		return nil, fmt.Errorf("document analysis: %w", err)
	}

	docs := docintel.Extract(raw)
	rec := records.Build(
		records.BlobReference{Name: blobName, URL: blobURL, SASURL: sasURL},
		cmd.UserInfo,
		cmd.Metadata,
		docs,
		now,
	)
	rec.ID = records.RecordID(uuid.New().String())
	rec.TenantID = cmd.TenantID

	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", records.ErrStorage, err)
	}

	return &AnalyzeResult{Record: rec, Summary: docintel.Summarize(raw)}, nil
}

// Latest returns the N most recent records
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*records.ClassifiedRecord, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get returns one record by id
func (s *Service) Get(ctx context.Context, tenant string, id records.RecordID) (*records.ClassifiedRecord, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Paginate returns a page of records
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*records.ClassifiedRecord, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// UniqueBlobName keeps the original stem and extension but stamps the name so
// repeated uploads of the same file never collide.
func UniqueBlobName(fileName string, now time.Time) string {
	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(filepath.Base(fileName), ext)
	return fmt.Sprintf("%s_%s%s", stem, now.UTC().Format("20060102150405"), ext)
}
