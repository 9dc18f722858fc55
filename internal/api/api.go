package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/amrmap/internal/aggregate"
	"github.com/ougirez/amrmap/internal/api/controller"
	"github.com/ougirez/amrmap/internal/format"
	"github.com/ougirez/amrmap/internal/pkg/config"
	"github.com/ougirez/amrmap/internal/pkg/logger"
	"github.com/ougirez/amrmap/internal/pkg/store"
	"github.com/ougirez/amrmap/internal/service/dashboard"
	"github.com/ougirez/amrmap/internal/service/ingest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strings"
)

type APIService struct {
	router           *echo.Echo
	dashboardService *dashboard.Service
	ingestService    *ingest.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(cfg *config.Config, store store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(gommonLevel(cfg.Logging.Level))
	svc.router.JSONSerializer = JSONSerializer{}
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{echo.GET, echo.POST},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	formatter, err := format.New(cfg.Formatter)
	if err != nil {
		return nil, fmt.Errorf("format.New: %w", err)
	}
	aggregator := aggregate.New(aggregate.Options{MinSamples: cfg.Dashboard.MinSamples})

	svc.dashboardService, err = dashboard.NewDashboardService(store, aggregator, formatter, cfg.Dashboard.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("dashboard.NewDashboardService: %w", err)
	}
	svc.ingestService = ingest.NewIngestService(store, ingest.Options{
		Retries:       cfg.Ingest.Retries,
		RetryInterval: cfg.Ingest.RetryInterval,
	}, svc.dashboardService.Invalidate)

	svc.router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.dashboardService, svc.ingestService, cfg.Ingest.Sources)

	dash := api.Group("/dashboard")
	dash.GET("/aggregate", cntrl.GetAggregate)
	dash.GET("/map", cntrl.GetMap)
	dash.GET("/map/country", cntrl.GetMapCountry)
	dash.GET("/countries", cntrl.GetCountries)
	dash.GET("/genotypes", cntrl.GetGenotypeOptions)
	dash.GET("/defaults", cntrl.GetDefaults)

	graphs := dash.Group("/graphs")
	graphs.GET("/distribution", cntrl.GetDistribution)
	graphs.GET("/distribution/tooltip", cntrl.GetDistributionTooltip)
	graphs.GET("/frequencies", cntrl.GetFrequencies)
	graphs.GET("/drug-resistance", cntrl.GetDrugResistance)

	samples := api.Group("/samples", svc.AdminMiddleware)
	samples.POST("/import", cntrl.ImportSamples)
	samples.POST("/backfill", cntrl.BackfillSamples)

	return svc, nil
}

func gommonLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error", "dpanic", "panic", "fatal":
		return log.ERROR
	default:
		return log.INFO
	}
}
