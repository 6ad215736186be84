package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/promptmenu/promptmenu-api/internal/application"
	appdocs "github.com/promptmenu/promptmenu-api/internal/application/documents"
	apphelp "github.com/promptmenu/promptmenu-api/internal/application/helpbot"
	appmenus "github.com/promptmenu/promptmenu-api/internal/application/menus"
	"github.com/promptmenu/promptmenu-api/internal/config"
	"github.com/promptmenu/promptmenu-api/internal/domain/records"
	openaiclient "github.com/promptmenu/promptmenu-api/internal/infra/ai/openai"
	mysqlp "github.com/promptmenu/promptmenu-api/internal/infra/db/mysql"
	postgresp "github.com/promptmenu/promptmenu-api/internal/infra/db/postgres"
	docintelazure "github.com/promptmenu/promptmenu-api/internal/infra/docintel/azure"
	"github.com/promptmenu/promptmenu-api/internal/infra/httpserver"
	qnaazure "github.com/promptmenu/promptmenu-api/internal/infra/qna/azure"
	minioStore "github.com/promptmenu/promptmenu-api/internal/infra/storage"
	visionazure "github.com/promptmenu/promptmenu-api/internal/infra/vision/azure"
	"github.com/promptmenu/promptmenu-api/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database
	db, repo, err := connectRepo(ctx, cfg)
	if err != nil {
		log.Fatalf("database connect error: %v", err)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	presignTTL := time.Duration(cfg.Minio.PresignTTLMinutes) * time.Minute

	// init external AI clients
	docintelCli := docintelazure.NewClient(cfg.DocIntel.Endpoint, cfg.DocIntel.Key)
	visionCli := visionazure.NewClient(cfg.Vision.Endpoint, cfg.Vision.Key)
	advisorCli := openaiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	qnaCli := qnaazure.NewClient(cfg.HelpBot.Endpoint, cfg.HelpBot.Key, cfg.HelpBot.Project, cfg.HelpBot.Deployment)

	// init services
	docsSvc := &appdocs.Service{
		Analyzer:   docintelCli,
		Blobs:      store,
		Repo:       repo,
		Clock:      application.SystemClock{},
		ModelID:    cfg.DocIntel.ModelID,
		PresignTTL: presignTTL,
	}
	menusSvc := &appmenus.Service{
		Vision:     visionCli,
		Advisor:    advisorCli,
		Blobs:      store,
		Repo:       repo,
		Clock:      application.SystemClock{},
		PresignTTL: presignTTL,
	}
	helpSvc := apphelp.NewService(qnaCli)

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	mux.Use(middleware.RateLimitMiddleware(cfg.Limits.Burst, cfg.Limits.RatePerSecond))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Mount("/", httpserver.NewRouter(cfg, docsSvc, menusSvc, helpSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func connectRepo(ctx context.Context, cfg *config.Config) (*sql.DB, records.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, postgresp.NewRecordRepository(db), nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, mysqlp.NewRecordRepository(db), nil
	}
}
