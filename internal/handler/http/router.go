package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/backbonehq/catalog-service/internal/service"
	"github.com/backbonehq/catalog-service/pkg/health"
	"github.com/backbonehq/catalog-service/pkg/middleware"
)

const serviceName = "catalog"

// RouterConfig holds the knobs the router wires into its middleware.
type RouterConfig struct {
	CORS       middleware.CORSConfig
	PprofCIDRs []string
}

// NewRouter creates a chi router with all catalog routes registered.
//
// The route shapes mirror the legacy external contract, including the
// path-parameter paging variants, so existing clients keep working.
func NewRouter(
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	h := NewProductHandler(catalogService, logger)

	r.Get("/product/{id}", h.GetProduct)
	r.Post("/product", h.SaveProduct)
	r.Delete("/product/{id}", h.DeleteProduct)

	r.Get("/products", h.ListProducts)
	r.Get("/products/page/{page}", h.ListProducts)
	r.Get("/products/page/{page}/size/{size}", h.ListProducts)

	r.Get("/products/category", h.ListCategories)
	r.Get("/products/category/{category}", h.ListByCategory)
	r.Get("/products/category/{category}/page/{page}", h.ListByCategory)
	r.Get("/products/category/{category}/page/{page}/size/{size}", h.ListByCategory)

	return r
}
