package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/analyze"
	"github.com/spendwise/spendwise/internal/api/handlers"
	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/categorize"
	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/ingest"
	"github.com/spendwise/spendwise/internal/jobs"
	"github.com/spendwise/spendwise/internal/jobs/inmemory"
	"github.com/spendwise/spendwise/internal/logger"
	"github.com/spendwise/spendwise/internal/profile"
	"github.com/spendwise/spendwise/internal/store/postgres"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	learning := categorize.NewLearningEngine(ctx, db, logger.WithComponent(log, "learning"))
	categorizer := categorize.New(categorize.DefaultRules(), learning)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobBuffer, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		importJob, ok := job.(*jobs.ImportStatementJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}
		return runImport(ctx, importJob, db, categorizer, log)
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Nightly pattern maintenance: idle learned patterns lose confidence and
	// stale ones are pruned.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 3 * * *", func() {
		learning.Decay(context.Background())
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule pattern decay")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	transactionsHandler := handlers.NewTransactionsHandler(db, jobQueue, learning, log)
	categorizeHandler := handlers.NewCategorizeHandler(categorizer, learning, db, log)
	insightsHandler := handlers.NewInsightsHandler(db, db, log)
	goalsHandler := handlers.NewGoalsHandler(log)
	profileHandler := handlers.NewProfileHandler(db, profile.NewGeminiGenerator(cfg.GeminiModel, cfg.GeminiKey), log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	r := mux.NewRouter()

	r.HandleFunc("/api/transactions", transactionsHandler.ListTransactions).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions/import", transactionsHandler.ImportStatement).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/{id}", func(w http.ResponseWriter, req *http.Request) {
		transactionsHandler.PatchTransaction(w, req, mux.Vars(req)["id"])
	}).Methods(http.MethodPatch)

	r.HandleFunc("/api/categorize", categorizeHandler.CategorizeBatch).Methods(http.MethodPost)
	r.HandleFunc("/api/feedback", categorizeHandler.Feedback).Methods(http.MethodPost)

	r.HandleFunc("/api/insights", insightsHandler.GenerateInsights).Methods(http.MethodPost)
	r.HandleFunc("/api/recurring", insightsHandler.ListRecurring).Methods(http.MethodGet)

	r.HandleFunc("/api/debts/compare", goalsHandler.CompareDebts).Methods(http.MethodPost)
	r.HandleFunc("/api/goals/feasibility", goalsHandler.GoalFeasibility).Methods(http.MethodPost)

	r.HandleFunc("/api/profile", profileHandler.GenerateProfile).Methods(http.MethodPost)

	r.HandleFunc("/api/jobs", jobsHandler.ListJobs).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
		jobsHandler.GetJob(w, req, mux.Vars(req)["id"])
	}).Methods(http.MethodGet)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(cfg.JWTSecret)(r),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// runImport parses the uploaded statement, categorizes and tags each row,
// and persists the batch. Parse failures on individual rows are counted as
// skips, not errors.
func runImport(ctx context.Context, job *jobs.ImportStatementJob, db *postgres.Store, categorizer *categorize.Categorizer, log zerolog.Logger) error {
	result, err := ingest.ParseCSV(bytes.NewReader(job.CSV), job.UserID, job.AccountID)
	if err != nil {
		return fmt.Errorf("runImport: parse statement: %w", err)
	}

	for i := range result.Transactions {
		t := &result.Transactions[i]
		res := categorizer.Categorize(t.Description)
		t.Category = res.Category
		t.Subcategory = res.Subcategory
		t.Tag = analyze.PredictTag(*t)
	}

	if err := db.Insert(ctx, result.Transactions); err != nil {
		return fmt.Errorf("runImport: insert transactions: %w", err)
	}

	job.Imported = len(result.Transactions)
	job.Skipped = result.Skipped

	log.Info().
		Str("job_id", job.JobID).
		Int("imported", job.Imported).
		Int("skipped", job.Skipped).
		Msg("Statement import completed")

	return nil
}
