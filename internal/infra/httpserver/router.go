package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appdocs "github.com/promptmenu/promptmenu-api/internal/application/documents"
	apphelp "github.com/promptmenu/promptmenu-api/internal/application/helpbot"
	appmenus "github.com/promptmenu/promptmenu-api/internal/application/menus"
	"github.com/promptmenu/promptmenu-api/internal/config"
	domai "github.com/promptmenu/promptmenu-api/internal/domain/ai"
	"github.com/promptmenu/promptmenu-api/internal/domain/records"
	"github.com/promptmenu/promptmenu-api/internal/middleware"
)

// form fields copied into the record's user identity instead of metadata
var userInfoFields = map[string]bool{
	"owner":       true,
	"displayName": true,
	"fullName":    true,
	"email":       true,
	"userId":      true,
	"restaurant":  true,
}

type Router struct {
	cfg      *config.Config
	docsSvc  *appdocs.Service
	menusSvc *appmenus.Service
	helpSvc  *apphelp.Service
}

func NewRouter(cfg *config.Config, docsSvc *appdocs.Service, menusSvc *appmenus.Service, helpSvc *apphelp.Service) http.Handler {
	r := &Router{cfg: cfg, docsSvc: docsSvc, menusSvc: menusSvc, helpSvc: helpSvc}
	mux := chi.NewRouter()

	mux.Post("/v1/help", r.wrap(r.handleHelp))

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/documents/analyze", r.wrap(r.handleAnalyzeDocument))
		rt.Post("/menus/analyze", r.wrap(r.handleAnalyzeMenu))
		rt.Get("/records/latest", r.wrap(r.handleLatest))
		rt.Get("/records/{id}", r.wrap(r.handleGet))
		rt.Get("/records", r.wrap(r.handleList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks caller mistakes so wrap maps them to 400.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br *badRequestError
			switch {
			case errors.Is(err, sql.ErrNoRows):
				writeError(w, http.StatusNotFound, "not found")
			case errors.As(err, &br):
				writeError(w, http.StatusBadRequest, br.msg)
			case errors.Is(err, records.ErrNoFile):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domai.ErrQuotaExceeded):
				writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
			default:
				// includes records.ErrMissingConfig and records.ErrStorage
				writeError(w, http.StatusInternalServerError, err.Error())
			}
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// upload is the parsed multipart request shared by both analyze endpoints.
type upload struct {
	fileName            string
	content             []byte
	userInfo            map[string]string
	metadata            map[string]string
	dietaryRestrictions []string
	healthConditions    []string
}

func (r *Router) parseUpload(req *http.Request) (*upload, error) {
	if err := req.ParseMultipartForm(r.cfg.Limits.MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: please upload a file using multipart/form-data", records.ErrNoFile)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: no file found with the key 'file'", records.ErrNoFile)
	}
	defer file.Close()

	if err := middleware.ValidateUploadFilename(header.Filename); err != nil {
		return nil, badRequest("%s", err.Error())
	}

	content, err := readAll(file, r.cfg.Limits.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	up := &upload{
		fileName: header.Filename,
		content:  content,
		userInfo: map[string]string{},
		metadata: map[string]string{},
	}
	for key, values := range req.MultipartForm.Value {
		if key == "file" || len(values) == 0 {
			continue
		}
		value := middleware.SanitizeString(values[0])
		switch {
		case userInfoFields[key]:
			up.userInfo[key] = value
		case key == "dietary_restrictions":
			up.dietaryRestrictions = splitList(value)
		case key == "health_conditions":
			up.healthConditions = splitList(value)
		default:
			up.metadata[key] = value
		}
	}
	return up, nil
}

func readAll(file multipart.File, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, badRequest("file exceeds the %d byte upload limit", limit)
	}
	return data, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// POST /v1/{tenant}/documents/analyze
func (r *Router) handleAnalyzeDocument(w http.ResponseWriter, req *http.Request) error {
	if missing := r.cfg.MissingDocIntel(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", records.ErrMissingConfig, strings.Join(missing, ", "))
	}
	tenant, err := r.tenantParam(req)
	if err != nil {
		return err
	}
	up, err := r.parseUpload(req)
	if err != nil {
		return err
	}
	middleware.IncrementUploads()

	res, err := r.docsSvc.Analyze(req.Context(), appdocs.AnalyzeCommand{
		TenantID: tenant,
		FileName: up.fileName,
		Content:  up.content,
		UserInfo: up.userInfo,
		Metadata: up.metadata,
	})
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	middleware.IncrementRecordsSaved()

	return writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Document processed successfully",
		"blob_name":        res.Record.Blob.Name,
		"blob_url":         res.Record.Blob.URL,
		"sas_url":          res.Record.Blob.SASURL,
		"record":           res.Record,
		"analysis_results": res.Summary,
	})
}

// POST /v1/{tenant}/menus/analyze
func (r *Router) handleAnalyzeMenu(w http.ResponseWriter, req *http.Request) error {
	if missing := r.cfg.MissingVision(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", records.ErrMissingConfig, strings.Join(missing, ", "))
	}
	tenant, err := r.tenantParam(req)
	if err != nil {
		return err
	}
	up, err := r.parseUpload(req)
	if err != nil {
		return err
	}
	middleware.IncrementUploads()

	res, err := r.menusSvc.Analyze(req.Context(), appmenus.AnalyzeMenuCommand{
		TenantID:            tenant,
		FileName:            up.fileName,
		Content:             up.content,
		UserInfo:            up.userInfo,
		Metadata:            up.metadata,
		DietaryRestrictions: up.dietaryRestrictions,
		HealthConditions:    up.healthConditions,
	})
	if err != nil {
		return err
	}

	payload := map[string]any{
		"message":      "Menu image analysis completed successfully",
		"blob_name":    res.Record.Blob.Name,
		"blob_url":     res.Record.Blob.URL,
		"document_key": res.Record.DocumentKey,
		"document_id":  res.Record.ID,
		"dish_name":    res.Record.DishName,
		"analysis":     res.Advice,
	}
	middleware.IncrementAnalyses()
	if res.Saved {
		middleware.IncrementRecordsSaved()
	} else {
		// analysis succeeded, persistence did not: still a 200, flagged
		middleware.IncrementRecordsNotSaved()
		payload["status"] = appmenus.StatusNotSaved
		payload["storage_error"] = res.StorageError
	}
	if res.Degraded {
		middleware.IncrementAnalysesDegraded()
	}
	return writeJSON(w, http.StatusOK, payload)
}

// POST /v1/help
// Body: {"message": "<question>"}
func (r *Router) handleHelp(w http.ResponseWriter, req *http.Request) error {
	if missing := r.cfg.MissingHelpBot(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", records.ErrMissingConfig, strings.Join(missing, ", "))
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("please pass a valid JSON body with a 'message' field")
	}
	if strings.TrimSpace(body.Message) == "" {
		return badRequest("please provide a message in the request body")
	}

	reply, err := r.helpSvc.Ask(req.Context(), body.Message)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, reply)
}

// GET /v1/{tenant}/records/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenantParam(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.docsSvc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/{tenant}/records/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenantParam(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return badRequest("%s", err.Error())
	}

	rec, err := r.docsSvc.Get(req.Context(), tenant, records.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// GET /v1/{tenant}/records?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenantParam(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	size = middleware.ValidatePageSize(size)

	list, err := r.docsSvc.Paginate(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

func (r *Router) tenantParam(req *http.Request) (string, error) {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return "", badRequest("%s", err.Error())
	}
	return tenant, nil
}
