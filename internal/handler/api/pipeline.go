package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	icache "SignalDesk/internal/service/cache"
	"SignalDesk/internal/service/metrics"
	"SignalDesk/internal/service/ratelimit"
	"SignalDesk/internal/usecase"
	xhttp "SignalDesk/pkg/http"
	applogger "SignalDesk/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Inbound token bucket for the market-data endpoint: burst of 5, 1 token/s.
const (
	timeframesBurst  = 5
	timeframesRefill = 1
)

// PipelineHandler serves the market-data, news and options-flow endpoints.
type PipelineHandler struct {
	timeframes *usecase.TimeframeNormalizer
	news       *usecase.NewsIngestor
	flow       *usecase.FlowDetector
	health     []func(ctx context.Context) error

	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
	l        *applogger.Logger
}

func NewPipelineHandler(
	timeframes *usecase.TimeframeNormalizer,
	news *usecase.NewsIngestor,
	flow *usecase.FlowDetector,
	l *applogger.Logger,
) *PipelineHandler {
	metrics.Register()
	if l == nil {
		l = applogger.Nop()
	}
	return &PipelineHandler{timeframes: timeframes, news: news, flow: flow, rl: ratelimit.New(), l: l}
}

// SetCache enables response caching for timeframe requests. A zero ttl disables it.
func (h *PipelineHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	h.cacheTTL = ttl
}

// AddHealthCheck registers a dependency probe for GET /healthz.
func (h *PipelineHandler) AddHealthCheck(check func(ctx context.Context) error) {
	h.health = append(h.health, check)
}

func (h *PipelineHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.POST("/market/timeframes", h.Timeframes)
	g.POST("/news/ingest", h.IngestNews)
	g.POST("/flow/unusual", h.UnusualFlow)
}

func (h *PipelineHandler) Timeframes(c echo.Context) error {
	const endpoint = "timeframes"
	start := time.Now()
	defer observe(endpoint, start)

	if !h.rl.Allow(c.RealIP()+":"+endpoint, timeframesBurst, timeframesRefill) {
		h.l.Warn("pipeline.timeframes rate_limited", applogger.String("remote", c.RealIP()))
		return h.fail(c, endpoint, xhttp.TooManyRequestsError("rate limited"))
	}

	req := &models.TimeframesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.fail(c, endpoint, verr)
	}

	ctx := c.Request().Context()
	cacheKey := icache.Key(endpoint, strings.TrimSpace(req.Symbol), strings.Join(req.Timeframes, ","))
	if h.cachingEnabled() {
		if b, ok, err := h.cache.GetBytes(ctx, cacheKey); err != nil {
			h.l.Warn("pipeline.timeframes cache_get_error", applogger.Error(err))
		} else if ok {
			metrics.CacheResults.WithLabelValues(endpoint, "hit").Inc()
			return xhttp.BlobResponse(c, b)
		}
		metrics.CacheResults.WithLabelValues(endpoint, "miss").Inc()
	}

	res, err := h.timeframes.Normalize(ctx, usecase.NormalizeParams{Symbol: req.Symbol, Timeframes: req.Timeframes})
	if err != nil {
		h.l.Error("pipeline.timeframes error", applogger.String("symbol", req.Symbol), applogger.Error(err))
		return h.fail(c, endpoint, toAppError(err))
	}

	b, err := json.Marshal(res)
	if err != nil {
		return h.fail(c, endpoint, xhttp.InternalError("encode error").WithError(err))
	}
	if h.cachingEnabled() {
		if err := h.cache.SetBytes(ctx, cacheKey, b, h.cacheTTL); err != nil {
			h.l.Warn("pipeline.timeframes cache_set_error", applogger.Error(err))
		}
	}
	return xhttp.BlobResponse(c, b)
}

func (h *PipelineHandler) IngestNews(c echo.Context) error {
	const endpoint = "news_ingest"
	start := time.Now()
	defer observe(endpoint, start)

	req := &models.NewsIngestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.fail(c, endpoint, verr)
	}

	res, err := h.news.Ingest(c.Request().Context(), req.Symbols)
	if err != nil {
		h.l.Error("pipeline.news error", applogger.Strings("symbols", req.Symbols), applogger.Error(err))
		return h.fail(c, endpoint, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PipelineHandler) UnusualFlow(c echo.Context) error {
	const endpoint = "flow_unusual"
	start := time.Now()
	defer observe(endpoint, start)

	req := &models.UnusualFlowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.fail(c, endpoint, verr)
	}

	params := usecase.DetectParams{
		Symbol:        req.Symbol,
		MinPremium:    usecase.DefaultMinPremium,
		LookbackHours: usecase.DefaultLookbackHours,
	}
	if req.MinPremium != nil {
		params.MinPremium = *req.MinPremium
	}
	if req.LookbackHours != nil {
		params.LookbackHours = *req.LookbackHours
	}

	res, err := h.flow.Detect(c.Request().Context(), params)
	if err != nil {
		h.l.Error("pipeline.flow error", applogger.Error(err))
		return h.fail(c, endpoint, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// Health pings every registered dependency.
func (h *PipelineHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()
	for _, check := range h.health {
		if err := check(ctx); err != nil {
			h.l.Warn("pipeline.health failed", applogger.Error(err))
			return xhttp.ErrorResponse(c, toAppError(fmt.Errorf("%w: %w", models.ErrStorage, err)))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *PipelineHandler) cachingEnabled() bool {
	return h.cache != nil && h.cacheTTL > 0
}

func (h *PipelineHandler) fail(c echo.Context, endpoint string, appErr *xhttp.AppError) error {
	metrics.EndpointErrors.WithLabelValues(endpoint, appErr.Code).Inc()
	return xhttp.ErrorResponse(c, appErr)
}

func observe(endpoint string, start time.Time) {
	metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
