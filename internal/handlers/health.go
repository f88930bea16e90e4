package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vavassoriluca/MongoDB-RAG/internal/contextutil"
	"github.com/vavassoriluca/MongoDB-RAG/internal/llm"
	"github.com/vavassoriluca/MongoDB-RAG/internal/store"
)

// HealthHandler reports the availability of the service's dependencies.
type HealthHandler struct {
	documentStore      store.DocumentStore
	llmClient          *llm.Client
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(documentStore store.DocumentStore, llmClient *llm.Client) *HealthHandler {
	return &HealthHandler{
		documentStore:      documentStore,
		llmClient:          llmClient,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP runs the dependency checks. The document store is the
// critical dependency: if it is down the service is unhealthy. The LLM
// only affects the generate stage, so its failure degrades rather than
// fails the check.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	status := "healthy"
	httpStatus := http.StatusOK

	if h.checkStore(checkCtx, logger) {
		checks["document_store"] = "ok"
	} else {
		checks["document_store"] = "error"
		issues = append(issues, "document_store_unavailable")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.checkLLM(checkCtx, logger) {
		checks["llm"] = "ok"
	} else {
		checks["llm"] = "error"
		issues = append(issues, "llm_unavailable")
		if status == "healthy" {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	writeJSON(w, httpStatus, response)
}

func (h *HealthHandler) checkStore(ctx context.Context, logger *slog.Logger) bool {
	if err := h.documentStore.Ping(ctx); err != nil {
		logger.WarnContext(ctx, "document store health check failed", "error", err)
		return false
	}
	return true
}

func (h *HealthHandler) checkLLM(ctx context.Context, logger *slog.Logger) bool {
	if err := h.llmClient.Ping(ctx); err != nil {
		logger.WarnContext(ctx, "llm health check failed", "error", err)
		return false
	}
	return true
}
