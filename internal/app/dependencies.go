package app

import (
	"context"
	"fmt"

	"github.com/gridcal/gridcal/internal/config"
	"github.com/gridcal/gridcal/internal/event_bus"
	"github.com/gridcal/gridcal/internal/metrics"
	"github.com/gridcal/gridcal/pkg/engine"
	"github.com/gridcal/gridcal/pkg/google"
	"github.com/gridcal/gridcal/pkg/homeassistant"
	"github.com/gridcal/gridcal/pkg/source"
	"github.com/gridcal/gridcal/pkg/storage"
	"github.com/gridcal/gridcal/pkg/timeutil"
	"github.com/gridcal/gridcal/pkg/weather"
	"github.com/gridcal/gridcal/pkg/window"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Store   *storage.FileStore
	Offsets *window.OffsetStore

	Bus     *event_bus.EventBus
	Metrics *metrics.Metrics

	HomeAssistant *homeassistant.Client
	Google        *google.Client

	Resolver *weather.Resolver
	Engine   *engine.Engine
	Handler  *engine.Handler

	Clock timeutil.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}
	deps.Clock = &timeutil.SystemClock{}
	deps.Bus = event_bus.NewEventBus()
	deps.Metrics = metrics.New()
	deps.Metrics.Subscribe(deps.Bus)

	store, err := storage.NewFileStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	deps.Store = store

	if cfg.HomeAssistant.URL != "" {
		deps.HomeAssistant = homeassistant.NewClient(cfg.HomeAssistant.URL, cfg.HomeAssistant.Token)
	}

	policy := window.Policy{
		StartToday: cfg.Grid.StartToday,
		FirstDay:   cfg.Grid.FirstDay,
	}

	bindings := make([]engine.SourceBinding, 0, len(cfg.Sources))
	sourceIDs := make([]string, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		client, err := deps.sourceClient(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, engine.SourceBinding{
			Source: source.Source{ID: s.ID, Name: s.Name, Color: s.Color},
			Client: client,
		})
		sourceIDs = append(sourceIDs, s.ID)
	}

	deps.Offsets = window.NewOffsetStore(store, window.Namespace(sourceIDs, policy))

	if cfg.Weather.Entity != "" {
		if deps.HomeAssistant == nil {
			return nil, fmt.Errorf("weather entity %q requires homeassistant.url", cfg.Weather.Entity)
		}
		deps.Resolver = weather.NewResolver(deps.HomeAssistant, deps.Clock)
	}

	deps.Engine = engine.New(engine.Options{
		Sources:        bindings,
		Policy:         policy,
		ShowAllDay:     cfg.Grid.ShowAllDay,
		RememberOffset: cfg.Grid.RememberOffset,
		WeatherEntity:  cfg.Weather.Entity,
		WeatherDays:    cfg.Weather.Days,
	}, deps.Offsets, deps.Resolver, deps.Clock, deps.Bus)
	deps.Handler = engine.NewHandler(deps.Engine)

	return deps, nil
}

func (d *Dependencies) sourceClient(ctx context.Context, cfg config.Application, s config.Source) (source.Client, error) {
	switch s.Backend {
	case "", config.BackendHomeAssistant:
		if d.HomeAssistant == nil {
			return nil, fmt.Errorf("source %q requires homeassistant.url", s.ID)
		}
		return d.HomeAssistant, nil
	case config.BackendGoogle:
		if d.Google == nil {
			client, err := google.NewClient(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize google calendar client: %w", err)
			}
			d.Google = client
		}
		return d.Google, nil
	default:
		return nil, fmt.Errorf("source %q has unknown backend %q", s.ID, s.Backend)
	}
}
