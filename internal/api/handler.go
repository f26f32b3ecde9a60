package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/observability"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
	"github.com/start-again-06/Travel-Agent-Voice-Based/pkg/response"
)

// EvaluationRequest is the body of POST /api/v1/evaluations.
type EvaluationRequest struct {
	Itinerary string           `json:"itinerary" binding:"required"`
	Context   eval.EvalContext `json:"context"`
}

// DefaultReportTTL is how long served reports stay retrievable by run ID.
const DefaultReportTTL = time.Hour

// EvaluationHandler serves evaluation requests. Runs are serialized: one
// evaluation executes at a time. Recent reports are kept in memory for
// lookup by run ID.
type EvaluationHandler struct {
	mu      sync.Mutex
	runner  *eval.Runner
	logger  *slog.Logger
	reports *cache.Cache
}

// NewEvaluationHandler creates a handler backed by runner. Reports expire
// after ttl (DefaultReportTTL when zero).
func NewEvaluationHandler(runner *eval.Runner, logger *slog.Logger, ttl time.Duration) *EvaluationHandler {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &EvaluationHandler{
		runner:  runner,
		logger:  logger,
		reports: cache.New(ttl, ttl/4),
	}
}

// Evaluate handles POST /api/v1/evaluations. With ?format=text the rendered
// text report is returned instead of the JSON envelope.
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid evaluation request", err)
		return
	}

	ctx := c.Request.Context()

	h.mu.Lock()
	report := h.runner.RunAll(ctx, req.Itinerary, req.Context)
	h.mu.Unlock()

	h.reports.Set(report.RunID.String(), report, cache.DefaultExpiration)

	observability.WithTrace(ctx, h.logger).Info("evaluation served",
		"run_id", report.RunID.String(),
		"all_passed", report.Overall.AllPassed,
		"total_issues", report.Overall.TotalIssues,
	)

	if c.Query("format") == "text" {
		c.String(http.StatusOK, eval.GenerateReport(report))
		return
	}
	response.Success(c, report)
}

// Render handles POST /api/v1/reports: the body is a saved report, the
// response its text rendering.
func (h *EvaluationHandler) Render(c *gin.Context) {
	var report eval.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		response.BadRequest(c, "Invalid report", err)
		return
	}
	c.String(http.StatusOK, eval.GenerateReport(&report))
}

// Get handles GET /api/v1/evaluations/:id for reports served recently.
func (h *EvaluationHandler) Get(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid run ID", err)
		return
	}

	cached, found := h.reports.Get(id.String())
	if !found {
		response.NotFound(c, "Evaluation not found")
		return
	}

	report := cached.(*eval.Report)
	if c.Query("format") == "text" {
		c.String(http.StatusOK, eval.GenerateReport(report))
		return
	}
	response.Success(c, report)
}
