package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LSUDOKO/TrustLens.AI/internal/history"
	"github.com/LSUDOKO/TrustLens.AI/internal/logging"
	"github.com/LSUDOKO/TrustLens.AI/internal/metrics"
	"github.com/LSUDOKO/TrustLens.AI/internal/provider"
	"github.com/LSUDOKO/TrustLens.AI/internal/risk"
	"github.com/LSUDOKO/TrustLens.AI/internal/validation"
)

const apiVersion = "0.1.0"

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// Health & info
// -----------------------------------------------------------------------------

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	healthy, statuses := s.checks.CheckAll(ctx)

	checks := make(map[string]string, len(statuses))
	for _, st := range statuses {
		if st.Healthy {
			checks[st.Name] = "healthy"
		} else {
			checks[st.Name] = "unhealthy"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   apiVersion,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":           "TrustLens",
		"description":    "Deterministic wallet trust and risk scoring",
		"version":        apiVersion,
		"chainId":        s.cfg.ChainID,
		"catalogVersion": risk.CatalogVersion,
	})
}

func (s *Server) docsRedirectHandler(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "https://github.com/LSUDOKO/TrustLens.AI")
}

// -----------------------------------------------------------------------------
// Analysis
// -----------------------------------------------------------------------------

func (s *Server) analyzeWalletHandler(c *gin.Context) {
	address := validation.SanitizeAddress(c.Param("address"))

	refresh := c.Query("refresh") == "true"

	// Scores are deterministic for a given metrics record, so a cached
	// report stays valid until new chain activity can matter (the TTL).
	if !refresh {
		if report, ok := s.cache.Get(address); ok {
			metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
			c.JSON(http.StatusOK, report)
			return
		}
	}
	metrics.CacheHitsTotal.WithLabelValues("miss").Inc()

	// Per-address lock so concurrent misses for the same wallet do not
	// stampede the upstream providers.
	unlock, err := s.analyzeLocks.LockContext(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{
			"error":   "request_cancelled",
			"message": "Client cancelled the request",
		})
		return
	}
	defer unlock()

	if !refresh {
		if report, ok := s.cache.Get(address); ok {
			c.JSON(http.StatusOK, report)
			return
		}
	}

	report, err := s.analysis.AnalyzeWallet(c.Request.Context(), address)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.cache.Add(address, report)

	s.realtimeHub.BroadcastAnalysis(map[string]interface{}{
		"address":    report.Address,
		"trustScore": report.Trust.Score,
		"category":   string(report.Trust.Category),
		"cluster":    string(report.Behavior.Primary().Cluster),
	})
	if level := report.HighestRiskLevel(); level == string(risk.SeverityCritical) || level == string(risk.SeverityHigh) {
		s.realtimeHub.BroadcastRiskAlert(map[string]interface{}{
			"address":   report.Address,
			"riskLevel": level,
			"factors":   len(report.RiskFactors),
		})
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) historyHandler(c *gin.Context) {
	address := validation.SanitizeAddress(c.Param("address"))

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be an integer between 1 and 100",
			})
			return
		}
		limit = n
	}

	snaps, err := s.analysis.History(c.Request.Context(), address, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if snaps == nil {
		snaps = []*history.Snapshot{}
	}

	c.JSON(http.StatusOK, gin.H{
		"address":   address,
		"snapshots": snaps,
		"count":     len(snaps),
	})
}

func (s *Server) trendHandler(c *gin.Context) {
	address := validation.SanitizeAddress(c.Param("address"))

	window := 30 * 24 * time.Hour
	if raw := c.Query("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_window",
				"message": "window must be a positive duration, e.g. 168h",
			})
			return
		}
		window = d
	}

	delta, samples, err := s.analysis.Trend(c.Request.Context(), address, window)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"window":  window.String(),
		"delta":   delta,
		"samples": samples,
	})
}

// -----------------------------------------------------------------------------
// Simulation
// -----------------------------------------------------------------------------

// SimulateRequest is the body for POST /v1/simulate
type SimulateRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"` // native units (ETH)
}

func (s *Server) simulateHandler(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must be valid JSON",
		})
		return
	}

	req.From = validation.SanitizeAddress(req.From)
	req.To = validation.SanitizeAddress(req.To)
	if verrs := validation.Validate(
		validation.Required("from", req.From),
		validation.ValidAddress("from", req.From),
		validation.Required("to", req.To),
		validation.ValidAddress("to", req.To),
		validation.NonNegativeFloat("amount", req.Amount),
	); len(verrs) > 0 {
		s.respondError(c, verrs)
		return
	}

	assessment, err := s.analysis.SimulateTransaction(c.Request.Context(), req.From, req.To, req.Amount)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.realtimeHub.BroadcastSimulation(map[string]interface{}{
		"from":      req.From,
		"to":        req.To,
		"amount":    req.Amount,
		"riskScore": float64(assessment.RiskScore),
		"riskLevel": string(assessment.RiskLevel),
	})

	c.JSON(http.StatusOK, assessment)
}

// -----------------------------------------------------------------------------
// Operational
// -----------------------------------------------------------------------------

func (s *Server) statsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"realtime":       s.realtimeHub.Stats(),
		"cachedAnalyses": s.cache.Len(),
		"catalogVersion": risk.CatalogVersion,
	})
}

func (s *Server) purgeCacheHandler(c *gin.Context) {
	n := s.cache.Len()
	s.cache.Purge()
	logging.L(c.Request.Context()).Info("analysis cache purged", "evicted", n)
	c.JSON(http.StatusOK, gin.H{"purged": n})
}

// -----------------------------------------------------------------------------
// Error mapping
// -----------------------------------------------------------------------------

// respondError maps typed errors to HTTP status codes
func (s *Server) respondError(c *gin.Context, err error) {
	var verrs validation.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": verrs.Error(),
			"details": verrs,
		})
	case errors.Is(err, provider.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "address_not_found",
			"message": "Address has no transaction history on this chain",
		})
	case errors.Is(err, history.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_snapshots",
			"message": "No recorded analyses for this address",
		})
	case errors.Is(err, provider.ErrRateLimited):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "upstream_rate_limited",
			"message": "Chain data provider is rate limiting requests, retry shortly",
		})
	case errors.Is(err, provider.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_unavailable",
			"message": "Chain data provider is unavailable",
		})
	default:
		logging.L(c.Request.Context()).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}
}
