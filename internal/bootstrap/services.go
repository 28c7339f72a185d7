package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/harvest-extract/config"
	"github.com/target/harvest-extract/internal/adapters/harvest"
	"github.com/target/harvest-extract/internal/data"
	"github.com/target/harvest-extract/internal/observability/statsd"
	"github.com/target/harvest-extract/internal/service"
)

// ServiceContainer holds the wired orchestrator and what must be released after the run.
type ServiceContainer struct {
	Orchestrator  *service.Orchestrator
	Stores        service.Stores
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Close releases the metrics connection.
func (c *ServiceContainer) Close() error {
	if c == nil || c.Observability.MetricsSink == nil {
		return nil
	}
	return c.Observability.MetricsSink.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// HTTPClient overrides the Harvest transport; tests point it at a fake server.
	HTTPClient *http.Client
	// Clock overrides the retrieval clock.
	Clock data.TimeProvider
}

// buildObservability configures the metrics adapter. A sink that cannot be dialled is
// logged and skipped; metrics never fail a run.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled:    true,
			Address:    cfg.Metrics.StatsdAddress,
			Prefix:     cfg.Metrics.Prefix,
			Logger:     obsLogger,
			GlobalTags: map[string]string{"app": "harvest-extract"},
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// buildStores opens the file repositories under the cache root; no business rules here.
func buildStores(root string) (service.Stores, error) {
	records, err := data.NewRecordStore(root)
	if err != nil {
		return service.Stores{}, err
	}
	index, err := data.NewIndexRepo(root)
	if err != nil {
		return service.Stores{}, err
	}
	attachments, err := data.NewAttachmentStore(root)
	if err != nil {
		return service.Stores{}, err
	}
	return service.Stores{Records: records, Index: index, Attachments: attachments}, nil
}

// NewServices wires the Harvest client, the cache stores and every command service
// into an Orchestrator.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}

	client, err := harvest.NewClient(harvest.Config{
		BaseURL: cfg.Harvest.BaseURL,
		Token:   cfg.APIToken,
		PerPage: cfg.Harvest.PerPage,
		Timeout: cfg.Harvest.Timeout,
		Client:  deps.HTTPClient,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	stores, err := buildStores(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	obs := buildObservability(logger, cfg.Observability)
	tel := service.Telemetry{Logger: logger, Clock: clock.Now}
	if obs.MetricsSink != nil {
		tel.Metrics = obs.MetricsSink
	}

	svcs, err := buildCommandServices(client, stores, tel, cfg.Harvest.PerPage)
	if err != nil {
		return nil, err
	}

	orch, err := service.NewOrchestrator(service.OrchestratorOptions{Services: svcs, Telemetry: tel})
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{Orchestrator: orch, Stores: stores, Observability: obs}, nil
}

func buildCommandServices(client *harvest.Client, stores service.Stores, tel service.Telemetry, perPage int) (service.Services, error) {
	var svcs service.Services

	fetcher, err := service.NewFetcher(service.FetcherOptions{Client: client, Clock: tel.Clock})
	if err != nil {
		return svcs, err
	}
	if svcs.Extract, err = service.NewExtractService(service.ExtractServiceOptions{
		Fetcher: fetcher, Stores: stores, Telemetry: tel,
	}); err != nil {
		return svcs, err
	}
	// One index flush per page.
	svcs.Extract.FlushEvery = perPage

	if svcs.ActivityFeeds, err = service.NewActivityFeedService(service.ActivityFeedServiceOptions{
		Client: client, Stores: stores, Telemetry: tel,
	}); err != nil {
		return svcs, err
	}
	if svcs.Attachments, err = service.NewAttachmentService(service.AttachmentServiceOptions{
		Client: client, Stores: stores, Telemetry: tel,
	}); err != nil {
		return svcs, err
	}
	if svcs.Checker, err = service.NewCacheChecker(service.CacheCheckerOptions{
		Stores: stores, Telemetry: tel,
	}); err != nil {
		return svcs, err
	}
	if svcs.Stats, err = service.NewStatsService(stores); err != nil {
		return svcs, err
	}
	if svcs.References, err = service.NewReferenceChecker(stores); err != nil {
		return svcs, err
	}
	return svcs, nil
}
