package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptmenu/promptmenu-api/internal/application"
	appdocs "github.com/promptmenu/promptmenu-api/internal/application/documents"
	apphelp "github.com/promptmenu/promptmenu-api/internal/application/helpbot"
	appmenus "github.com/promptmenu/promptmenu-api/internal/application/menus"
	"github.com/promptmenu/promptmenu-api/internal/config"
	"github.com/promptmenu/promptmenu-api/internal/domain/ai"
	"github.com/promptmenu/promptmenu-api/internal/domain/docintel"
	"github.com/promptmenu/promptmenu-api/internal/domain/qna"
	"github.com/promptmenu/promptmenu-api/internal/domain/records"
	"github.com/promptmenu/promptmenu-api/internal/domain/vision"
)

type stubAnalyzer struct {
	res *docintel.AnalyzeResult
	err error
}

func (s *stubAnalyzer) AnalyzeURL(ctx context.Context, modelID, documentURL string) (*docintel.AnalyzeResult, error) {
	return s.res, s.err
}

type stubVision struct {
	res *vision.AnalyzeResult
	err error
}

func (s *stubVision) AnalyzeImage(ctx context.Context, image []byte) (*vision.AnalyzeResult, error) {
	return s.res, s.err
}

type stubAdvisor struct {
	advice map[string]any
	err    error
}

func (s *stubAdvisor) Advise(ctx context.Context, req ai.AdviceRequest) (map[string]any, error) {
	return s.advice, s.err
}

type stubAnswerer struct {
	res *qna.Response
	err error
}

func (s *stubAnswerer) Ask(ctx context.Context, question string) (*qna.Response, error) {
	return s.res, s.err
}

type stubBlobs struct{}

func (stubBlobs) Upload(ctx context.Context, blobName string, data []byte, metadata map[string]string) (string, error) {
	return "http://store/documents/" + blobName, nil
}

func (stubBlobs) PresignedURL(ctx context.Context, blobName string, ttl time.Duration) (string, error) {
	return "http://store/documents/" + blobName + "?sig=abc", nil
}

type stubRepo struct {
	saveErr error
	saved   []*records.ClassifiedRecord
}

func (s *stubRepo) Save(ctx context.Context, rec *records.ClassifiedRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *stubRepo) Get(ctx context.Context, tenant string, id records.RecordID) (*records.ClassifiedRecord, error) {
	return nil, errors.New("not found")
}

func (s *stubRepo) Latest(ctx context.Context, tenant string, limit int) ([]*records.ClassifiedRecord, error) {
	return s.saved, nil
}

func (s *stubRepo) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*records.ClassifiedRecord, error) {
	return s.saved, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.DocIntel.Endpoint = "https://docintel.example"
	cfg.DocIntel.Key = "k"
	cfg.Vision.Endpoint = "https://vision.example"
	cfg.Vision.Key = "k"
	cfg.OpenAI.APIKey = "k"
	cfg.HelpBot.Endpoint = "https://qna.example"
	cfg.HelpBot.Key = "k"
	cfg.Limits.MaxUploadBytes = 1 << 20
	return cfg
}

func testHandler(cfg *config.Config, an *stubAnalyzer, vis *stubVision, adv *stubAdvisor, ans *stubAnswerer, repo *stubRepo) http.Handler {
	docsSvc := &appdocs.Service{
		Analyzer:   an,
		Blobs:      stubBlobs{},
		Repo:       repo,
		Clock:      application.SystemClock{},
		ModelID:    "prebuilt-receipt",
		PresignTTL: time.Hour,
	}
	menusSvc := &appmenus.Service{
		Vision:     vis,
		Advisor:    adv,
		Blobs:      stubBlobs{},
		Repo:       repo,
		Clock:      application.SystemClock{},
		PresignTTL: time.Hour,
	}
	return NewRouter(cfg, docsSvc, menusSvc, apphelp.NewService(ans))
}

func defaultHandler(repo *stubRepo) http.Handler {
	merchant := "Corner Market"
	an := &stubAnalyzer{res: &docintel.AnalyzeResult{Documents: []docintel.RawDocument{{
		DocType: "receipt",
		Fields: map[string]docintel.RawField{
			"MerchantName": {Type: "string", ValueString: &merchant, Content: merchant},
		},
	}}}}
	vis := &stubVision{res: &vision.AnalyzeResult{
		Tags: &vision.TagsResult{Values: []vision.Tag{{Name: "comfort food", Confidence: 0.9}}},
	}}
	adv := &stubAdvisor{advice: map[string]any{"calories": "600 kcal"}}
	ans := &stubAnswerer{res: &qna.Response{Answers: []qna.Answer{{Text: "Upload via the app.", ConfidenceScore: 0.9}}}}
	return testHandler(testConfig(), an, vis, adv, ans, repo)
}

func multipartBody(t *testing.T, fileName string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalyzeDocumentHappyPath(t *testing.T) {
	repo := &stubRepo{}
	h := defaultHandler(repo)

	buf, ct := multipartBody(t, "receipt.jpg", map[string]string{
		"displayName": "Jane Doe",
		"source":      "mobile",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/documents/analyze", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Document processed successfully", body["message"])
	assert.NotEmpty(t, body["blob_name"])
	assert.Contains(t, body, "record")
	assert.Contains(t, body, "analysis_results")

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "acme", repo.saved[0].TenantID)
	assert.Equal(t, map[string]string{"displayName": "Jane Doe"}, repo.saved[0].UserInfo)
	assert.Equal(t, map[string]string{"source": "mobile"}, repo.saved[0].Metadata)
}

func TestAnalyzeDocumentMissingFile(t *testing.T) {
	h := defaultHandler(&stubRepo{})

	buf, ct := multipartBody(t, "", map[string]string{"displayName": "Jane"})
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/documents/analyze", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "file")
}

func TestAnalyzeDocumentRejectsBadExtension(t *testing.T) {
	h := defaultHandler(&stubRepo{})

	buf, ct := multipartBody(t, "payload.exe", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/documents/analyze", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeDocumentMissingConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DocIntel.Endpoint = ""
	h := testHandler(cfg, &stubAnalyzer{}, &stubVision{}, &stubAdvisor{}, &stubAnswerer{}, &stubRepo{})

	buf, ct := multipartBody(t, "receipt.jpg", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/documents/analyze", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "docintel.endpoint")
}

func TestAnalyzeDocumentStorageFailure(t *testing.T) {
	repo := &stubRepo{saveErr: errors.New("db down")}
	h := defaultHandler(repo)

	buf, ct := multipartBody(t, "receipt.jpg", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/documents/analyze", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalyzeMenuHappyPath(t *testing.T) {
	repo := &stubRepo{}
	h := defaultHandler(repo)

	buf, ct := multipartBody(t, "menu.png", map[string]string{
		"dietary_restrictions": "vegetarian, gluten-free",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/menus/analyze", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Menu image analysis completed successfully", body["message"])
	assert.Equal(t, "comfort food", body["dish_name"])
	assert.NotContains(t, body, "status")

	require.Len(t, repo.saved, 1)
	assert.Equal(t, []string{"vegetarian", "gluten-free"}, repo.saved[0].DietaryRestrictions)
}

func TestAnalyzeMenuStorageFailureIsPartialSuccess(t *testing.T) {
	repo := &stubRepo{saveErr: errors.New("db down")}
	h := defaultHandler(repo)

	buf, ct := multipartBody(t, "menu.png", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/menus/analyze", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, appmenus.StatusNotSaved, body["status"])
	assert.Equal(t, "db down", body["storage_error"])
}

func TestHelpHappyPath(t *testing.T) {
	h := defaultHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/help", strings.NewReader(`{"message":"How do I upload a receipt?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Upload via the app.", body["answer_text"])
	assert.Equal(t, false, body["is_default_answer"])
}

func TestHelpEmptyMessage(t *testing.T) {
	h := defaultHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/help", strings.NewReader(`{"message":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHelpInvalidBody(t *testing.T) {
	h := defaultHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/help", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordsLatest(t *testing.T) {
	repo := &stubRepo{saved: []*records.ClassifiedRecord{{ID: "abc", TenantID: "acme"}}}
	h := defaultHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/records/latest?limit=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestRecordGetInvalidID(t *testing.T) {
	h := defaultHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/records/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidTenantRejected(t *testing.T) {
	h := defaultHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/bad!tenant/records/latest", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
