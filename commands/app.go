package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	// Register LLM providers via init()
	_ "github.com/tripkit-ai/tripkit/llm/providers"

	"github.com/tripkit-ai/tripkit/config"
	"github.com/tripkit-ai/tripkit/dialog"
	"github.com/tripkit-ai/tripkit/events"
	"github.com/tripkit-ai/tripkit/llm"
	"github.com/tripkit-ai/tripkit/model"
	"github.com/tripkit-ai/tripkit/places"
	"github.com/tripkit-ai/tripkit/reviews"
	"github.com/tripkit-ai/tripkit/routes"
	"github.com/tripkit-ai/tripkit/schedule"
	"github.com/tripkit-ai/tripkit/storage"
	"github.com/tripkit-ai/tripkit/tools"
	"github.com/tripkit-ai/tripkit/trip"
)

// App wires the full conversation stack from configuration.
type App struct {
	Config *config.Config
	Engine *dialog.Engine
	Store  storage.SessionStore

	logger *slog.Logger
	nc     *nats.Conn
}

// NewApp loads configuration and assembles the engine, the session
// store, and the optional event publisher.
func NewApp(ctx context.Context) (*App, error) {
	logger := slog.Default()

	cfg, err := config.NewLoader(logger).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	model.InitGlobal(registry)

	client := llm.NewClient(nil,
		llm.WithLogger(logger),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}))

	geocode := places.NewGeocodeClient(cfg.Services.GeocodeURL, nil)
	search := places.NewHTTPSearchClient(cfg.Services.SearchURL, nil)
	ingester := reviews.NewIngester(nil, reviews.WithLogger(logger))
	finder := places.NewFinder(search, geocode, logger,
		places.WithReviewSource(ingester))

	directions := routes.NewClient(cfg.Services.DirectionsURL,
		routes.WithMode(cfg.Services.TransitMode),
		routes.WithEstimator(routes.NewEstimator(geocode)),
		routes.WithLogger(logger))
	optimizer := routes.NewOptimizer(directions, logger)
	scheduler := schedule.New(directions, schedule.WithLogger(logger))

	execOpts := []tools.ExecutorOption{tools.WithExecutorLogger(logger)}
	if cfg.Services.WeatherURL != "" {
		execOpts = append(execOpts, tools.WithWeather(places.NewWeatherClient(cfg.Services.WeatherURL, nil)))
	}
	executor := tools.NewExecutor(finder, execOpts...)

	engineOpts := []dialog.EngineOption{
		dialog.WithMaxSteps(cfg.Dialog.MaxSteps),
		dialog.WithOptimizer(optimizer),
		dialog.WithEngineLogger(logger),
	}

	app := &App{Config: cfg, logger: logger}

	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(appName))
		if err != nil {
			return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
		}
		app.nc = nc
		engineOpts = append(engineOpts, dialog.WithEvents(events.NewPublisher(nc, cfg.NATS.Subject, logger)))

		js, err := jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("open JetStream: %w", err)
		}
		app.Store, err = storage.NewKVStore(ctx, js)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
	} else {
		app.Store, err = storage.NewFileStore(sessionDir())
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
	}

	app.Engine = dialog.NewEngine(client, executor,
		trip.NewMutator(trip.WithMatchThreshold(cfg.Dialog.MatchThreshold)),
		trip.NewReconciler(scheduler, logger),
		engineOpts...)

	return app, nil
}

// Close releases the NATS connection if one was opened.
func (a *App) Close() {
	if a.nc != nil {
		a.nc.Close()
	}
}

func buildRegistry(cfg *config.Config) (*model.Registry, error) {
	if cfg.Model.RegistryFile != "" {
		registry, err := model.LoadFromFile(cfg.Model.RegistryFile)
		if err != nil {
			return nil, fmt.Errorf("load model registry: %w", err)
		}
		if err := registry.Validate(); err != nil {
			return nil, fmt.Errorf("invalid model registry: %w", err)
		}
		return registry, nil
	}
	return model.NewDefaultRegistry(), nil
}

// sessionDir is where file-backed sessions live.
func sessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tripkit-sessions"
	}
	return filepath.Join(home, config.UserConfigDir, "sessions")
}
