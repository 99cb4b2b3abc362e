package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/logger"
	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/optimizer"
	"smartgrid_simulator/internal/planner"
	"smartgrid_simulator/internal/ws"
)

// Service runs scenarios. *planner.Planner implements it.
type Service interface {
	Simulate(ctx context.Context, sc config.ScenarioConfig) (model.SimulationResult, error)
	Optimize(ctx context.Context, sc config.ScenarioConfig, obs optimizer.Observer) (optimizer.Plan, error)
	Compare(ctx context.Context, sc config.ScenarioConfig, obs optimizer.Observer) (model.ComparisonResult, error)
	Sweep(ctx context.Context, sc config.ScenarioConfig, capacities []float64) (planner.Sweep, error)
	Seed() uint64
}

// Options configure the router.
type Options struct {
	// Defaults is used when a request has no body.
	Defaults config.ScenarioConfig
	// Metrics and WS are mounted at /metrics and /ws when set.
	Metrics http.Handler
	WS      http.Handler
	Logger  logger.Logger
}

// DefaultsResponse is returned by GET /api/v1/defaults.
type DefaultsResponse struct {
	Scenario config.ScenarioConfig `json:"scenario"`
	Sources  []ws.SourceInfo       `json:"sources"`
	Seed     uint64                `json:"seed"`
}

// OptimizeResponse is a search plan with its outcome.
type OptimizeResponse struct {
	Outcome optimizer.Outcome `json:"outcome"`
	optimizer.Plan
}

// SweepRequest is the body of POST /api/v1/sweep. A missing scenario means
// the defaults.
type SweepRequest struct {
	Scenario   *config.ScenarioConfig `json:"scenario"`
	Capacities []float64              `json:"capacities"`
}

type handler struct {
	svc      Service
	defaults config.ScenarioConfig
}

// NewRouter builds the gin engine with all routes.
func NewRouter(svc Service, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}

	router := gin.New()
	router.Use(RequestLogger(opts.Logger))
	router.Use(ErrorHandler())

	h := &handler{svc: svc, defaults: opts.Defaults}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/defaults", h.getDefaults)
		v1.POST("/simulate", h.simulate)
		v1.POST("/optimize", h.optimize)
		v1.POST("/compare", h.compare)
		v1.POST("/sweep", h.sweep)
	}

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	if opts.WS != nil {
		router.GET("/ws", gin.WrapH(opts.WS))
	}

	return router
}

// WithCORS wraps h so browsers on the given origins may call it.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(h)
}

// RequestLogger logs one line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request", map[string]any{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"took_ms": time.Since(start).Milliseconds(),
		})
	}
}

func (h *handler) getDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, DefaultsResponse{
		Scenario: h.defaults,
		Sources:  ws.SourceCatalog(),
		Seed:     h.svc.Seed(),
	})
}

func (h *handler) simulate(c *gin.Context) {
	sc, ok := h.bindScenario(c)
	if !ok {
		return
	}
	res, err := h.svc.Simulate(c.Request.Context(), sc)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) optimize(c *gin.Context) {
	sc, ok := h.bindScenario(c)
	if !ok {
		return
	}
	plan, err := h.svc.Optimize(c.Request.Context(), sc, nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OptimizeResponse{Outcome: plan.Outcome(), Plan: plan})
}

func (h *handler) compare(c *gin.Context) {
	sc, ok := h.bindScenario(c)
	if !ok {
		return
	}
	res, err := h.svc.Compare(c.Request.Context(), sc, nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) sweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	if len(req.Capacities) == 0 {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "capacities must not be empty")
		return
	}

	sc := h.defaults
	if req.Scenario != nil {
		sc = *req.Scenario
	}
	sw, err := h.svc.Sweep(c.Request.Context(), sc, req.Capacities)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sw)
}

// bindScenario decodes the request body. An empty body, sized or chunked,
// means the defaults.
func (h *handler) bindScenario(c *gin.Context) (config.ScenarioConfig, bool) {
	var sc config.ScenarioConfig
	if err := c.ShouldBindJSON(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return h.defaults, true
		}
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return config.ScenarioConfig{}, false
	}
	return sc, true
}
