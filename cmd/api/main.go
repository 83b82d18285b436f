package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"resumatch/internal/config"
	"resumatch/internal/handlers"
	"resumatch/internal/logger"
	"resumatch/internal/repositories"
	"resumatch/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	resumeRepo := repositories.NewResumeRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	embeddingRepo := repositories.NewEmbeddingRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx := context.Background()

	// One genai client serves both embeddings and name recognition.
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		zlog.Fatal("failed to initialize Gemini client", zap.Error(err))
	}

	embedder := services.NewGeminiEmbedder(genaiClient)
	recognizer := services.NewGeminiRecognizer(genaiClient, zlog)
	redactor := services.NewRedactor(recognizer, zlog)

	extractor := services.NewExtractorService()
	ingestService := services.NewIngestService(extractor, redactor, zlog)

	taxonomy := services.NewTaxonomy(cfg.Analysis.SkillsPath)

	// The vector index is optional: without it, similar-resume search is
	// unavailable but analysis still works.
	var vectorIndex services.VectorIndex
	if idx, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zlog); err != nil {
		zlog.Warn("vector index unavailable, similar-resume search disabled", zap.Error(err))
	} else if err := idx.EnsureCollection(ctx); err != nil {
		zlog.Warn("vector index collection init failed, similar-resume search disabled", zap.Error(err))
	} else {
		vectorIndex = idx
	}

	analyzer := services.NewAnalyzerService(
		analysisRepo,
		resumeRepo,
		jobRepo,
		embeddingRepo,
		embedder,
		taxonomy,
		vectorIndex,
		zlog,
	)

	worker := services.NewWorker(analysisRepo, analyzer, cfg.Worker.Concurrency, zlog)
	worker.Start(ctx)

	resumeHandler := handlers.NewResumeHandler(resumeRepo, storageService, ingestService, cfg.Storage.MaxFileSize, zlog)
	jobHandler := handlers.NewJobHandler(jobRepo)
	analysisHandler := handlers.NewAnalysisHandler(
		analysisRepo,
		resumeRepo,
		jobRepo,
		embeddingRepo,
		analyzer,
		worker,
		vectorIndex,
	)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Match API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/resumes/upload", resumeHandler.HandleUpload)
	api.Get("/resumes", resumeHandler.HandleList)
	api.Get("/resumes/:id", resumeHandler.HandleGet)
	api.Get("/resumes/:id/similar", analysisHandler.HandleSimilarResumes)

	api.Post("/jobs", jobHandler.HandleCreate)
	api.Get("/jobs/:id", jobHandler.HandleGet)
	api.Post("/jobs/:id/rank", analysisHandler.HandleRank)

	api.Post("/analyze", analysisHandler.HandleAnalyze)
	api.Get("/analyses/:id", analysisHandler.HandleGetAnalysis)
	api.Post("/compare", analysisHandler.HandleCompare)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Match API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes/upload",
				"GET /api/v1/resumes",
				"GET /api/v1/resumes/:id",
				"GET /api/v1/resumes/:id/similar",
				"POST /api/v1/jobs",
				"GET /api/v1/jobs/:id",
				"POST /api/v1/jobs/:id/rank",
				"POST /api/v1/analyze",
				"GET /api/v1/analyses/:id",
				"POST /api/v1/compare",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
