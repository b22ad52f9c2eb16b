package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/analyze"
	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/categorize"
	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/goals"
	"github.com/spendwise/spendwise/internal/jobs"
	"github.com/spendwise/spendwise/internal/profile"
	"github.com/spendwise/spendwise/internal/store"
)

const maxImportBytes = 10 << 20 // 10 MiB statement upload cap

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	repo      store.TransactionRepository
	publisher jobs.Publisher
	learning  *categorize.LearningEngine
	log       zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo store.TransactionRepository, publisher jobs.Publisher, learning *categorize.LearningEngine, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		repo:      repo,
		publisher: publisher,
		learning:  learning,
		log:       log,
	}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	transactions, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, transactions)
}

// ImportStatement handles POST /api/transactions/import. The request body is
// the raw CSV statement; parsing and categorization happen asynchronously.
func (h *TransactionsHandler) ImportStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read statement body")
		return
	}
	if len(body) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Statement body is empty")
		return
	}

	job := &jobs.ImportStatementJob{
		UserID:    middleware.UserID(ctx),
		AccountID: accountID,
		CSV:       body,
	}

	if err := h.publisher.PublishImport(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue import job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue import job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("account_id", accountID).Msg("Import job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// PatchTransaction handles PATCH /api/transactions/{id}. A category change
// is treated as a correction and fed back into the learning engine when the
// caller includes the transaction description.
func (h *TransactionsHandler) PatchTransaction(w http.ResponseWriter, r *http.Request, transactionID string) {
	ctx := r.Context()

	var req struct {
		store.TransactionPatch
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == nil && req.Subcategory == nil && req.Tag == nil {
		middleware.WriteError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if req.Tag != nil && *req.Tag != domain.TagEssential && *req.Tag != domain.TagDiscretionary {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid tag value")
		return
	}

	if err := h.repo.Update(ctx, transactionID, req.TransactionPatch); err != nil {
		h.log.Error().Err(err).Str("transaction_id", transactionID).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	if req.Category != nil && req.Description != "" && h.learning != nil {
		subcategory := ""
		if req.Subcategory != nil {
			subcategory = *req.Subcategory
		}
		h.learning.LearnFromFeedback(ctx, req.Description, *req.Category, subcategory)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"id":     transactionID,
		"status": "updated",
	})
}

// CategorizeHandler handles categorization and feedback endpoints.
type CategorizeHandler struct {
	categorizer *categorize.Categorizer
	learning    *categorize.LearningEngine
	feedback    store.FeedbackRepository
	log         zerolog.Logger
}

// NewCategorizeHandler creates a new categorize handler.
func NewCategorizeHandler(categorizer *categorize.Categorizer, learning *categorize.LearningEngine, feedback store.FeedbackRepository, log zerolog.Logger) *CategorizeHandler {
	return &CategorizeHandler{
		categorizer: categorizer,
		learning:    learning,
		feedback:    feedback,
		log:         log,
	}
}

type categorizeItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type categorizedItem struct {
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Confidence  float64    `json:"confidence"`
	Tag         domain.Tag `json:"tag"`
}

// CategorizeBatch handles POST /api/categorize
func (h *CategorizeHandler) CategorizeBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transactions []categorizeItem `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Transactions) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "transactions is required")
		return
	}

	results := make([]categorizedItem, 0, len(req.Transactions))
	for _, item := range req.Transactions {
		res := h.categorizer.Categorize(item.Description)
		tag := analyze.PredictTag(domain.Transaction{
			Description: item.Description,
			Amount:      item.Amount,
			Category:    res.Category,
			Subcategory: res.Subcategory,
		})
		results = append(results, categorizedItem{
			Description: item.Description,
			Category:    res.Category,
			Subcategory: res.Subcategory,
			Confidence:  res.Confidence,
			Tag:         tag,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// Feedback handles POST /api/feedback. Accepted suggestions reinforce the
// matched patterns; rejections carry the description of the suggestion the
// user turned down so its unique patterns can be suppressed.
func (h *CategorizeHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Description           string `json:"description"`
		Category              string `json:"category"`
		Subcategory           string `json:"subcategory"`
		Accepted              bool   `json:"accepted"`
		DeselectedDescription string `json:"deselected_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Description == "" || req.Category == "" {
		middleware.WriteError(w, http.StatusBadRequest, "description and category are required")
		return
	}

	if req.Accepted {
		h.learning.LearnFromFeedback(ctx, req.Description, req.Category, req.Subcategory)
	} else {
		h.learning.LearnFromNegativeFeedback(ctx, req.Description, req.DeselectedDescription, req.Category, req.Subcategory)
	}

	userID := middleware.UserID(ctx)
	if err := h.feedback.RecordFeedback(ctx, userID, req.Accepted); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to record feedback event")
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// InsightsHandler handles analysis endpoints that read the user's
// transaction history.
type InsightsHandler struct {
	repo     store.TransactionRepository
	feedback store.FeedbackRepository
	log      zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(repo store.TransactionRepository, feedback store.FeedbackRepository, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		repo:     repo,
		feedback: feedback,
		log:      log,
	}
}

// GenerateInsights handles POST /api/insights
func (h *InsightsHandler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req struct {
		Goals        []domain.Goal `json:"goals"`
		Debts        []domain.Debt `json:"debts"`
		ExtraPayment float64       `json:"extra_payment"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	transactions, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	rate, err := h.feedback.AcceptanceRate(ctx, userID)
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to load acceptance rate, using default")
		rate = 1
	}

	insights := analyze.GeneratePersonalized(analyze.Input{
		Transactions:   transactions,
		Goals:          req.Goals,
		Debts:          req.Debts,
		ExtraPayment:   req.ExtraPayment,
		AcceptanceRate: rate,
		Now:            time.Now(),
	})
	if insights == nil {
		insights = []domain.PersonalizedInsight{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"insights": insights,
		"count":    len(insights),
	})
}

// ListRecurring handles GET /api/recurring
func (h *InsightsHandler) ListRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	transactions, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	recurring := analyze.DetectRecurring(transactions)
	if recurring == nil {
		recurring = []domain.RecurringTransaction{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recurring": recurring,
		"count":     len(recurring),
	})
}

// GoalsHandler handles goal and debt planning endpoints. These are pure
// calculators; all inputs arrive in the request body.
type GoalsHandler struct {
	log zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{log: log}
}

// CompareDebts handles POST /api/debts/compare
func (h *GoalsHandler) CompareDebts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Debts        []domain.Debt `json:"debts"`
		ExtraPayment float64       `json:"extra_payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Debts) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "debts is required")
		return
	}
	for _, d := range req.Debts {
		if d.Balance < 0 || d.MinPayment < 0 || d.InterestRate < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Debt amounts must be non-negative")
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, goals.CompareStrategies(req.Debts, req.ExtraPayment))
}

// GoalFeasibility handles POST /api/goals/feasibility
func (h *GoalsHandler) GoalFeasibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goals          []domain.Goal `json:"goals"`
		MonthlySurplus float64       `json:"monthly_surplus"`
		OptionalSpend  float64       `json:"optional_spend"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Goals) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "goals is required")
		return
	}

	now := time.Now()
	results := make([]goals.Feasibility, 0, len(req.Goals))
	for _, g := range req.Goals {
		results = append(results, goals.GoalFeasibility(g, req.MonthlySurplus, req.OptionalSpend, now))
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// ProfileHandler generates a narrative spending profile with the model.
type ProfileHandler struct {
	repo store.TransactionRepository
	gen  profile.Generator
	log  zerolog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(repo store.TransactionRepository, gen profile.Generator, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		repo: repo,
		gen:  gen,
		log:  log,
	}
}

// GenerateProfile handles POST /api/profile
func (h *ProfileHandler) GenerateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	transactions, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}
	if len(transactions) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No transactions to profile")
		return
	}

	prompt := profile.PromptFromTransactions(transactions)
	narrative, err := h.gen.GenerateProfile(ctx, prompt)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate profile")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"id":      uuid.New().String(),
		"profile": narrative,
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	if job.UserID != middleware.UserID(ctx) {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		UserID: middleware.UserID(ctx),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
