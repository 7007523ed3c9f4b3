package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gridcal/gridcal/internal/event_bus"
	"github.com/gridcal/gridcal/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the refresh pipeline collectors and the registry they
// are registered on.
type Metrics struct {
	registry *prometheus.Registry

	refreshCycles   *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	eventsPlaced    prometheus.Gauge
	sourceFailures  *prometheus.CounterVec
	weatherTier     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		refreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridcal_refresh_cycles_total",
			Help: "Refresh cycles run, partitioned by whether the result was applied.",
		}, []string{"applied"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridcal_refresh_duration_seconds",
			Help:    "Wall time of a full refresh cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		eventsPlaced: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridcal_events_placed",
			Help: "Events in the last applied snapshot.",
		}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridcal_source_failures_total",
			Help: "Calendar source fetch failures by source name.",
		}, []string{"source"}),
		weatherTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridcal_weather_tier_total",
			Help: "Weather forecast resolutions by tier.",
		}, []string{"tier"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.refreshCycles,
		m.refreshDuration,
		m.eventsPlaced,
		m.sourceFailures,
		m.weatherTier,
	)
	return m
}

// Subscribe attaches the collectors to the bus and returns the
// unsubscribe function.
func (m *Metrics) Subscribe(bus *event_bus.EventBus) func() {
	return bus.Subscribe(engine.EventRefreshCompleted, func(ev event_bus.Event) error {
		stats, ok := ev.Data.(engine.RefreshStats)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", ev.Data)
		}
		m.refreshCycles.WithLabelValues(strconv.FormatBool(stats.Applied)).Inc()
		m.refreshDuration.Observe(stats.Duration.Seconds())
		for _, name := range stats.FailedSources {
			m.sourceFailures.WithLabelValues(name).Inc()
		}
		m.weatherTier.WithLabelValues(string(stats.WeatherTier)).Inc()
		if stats.Applied {
			m.eventsPlaced.Set(float64(stats.EventCount))
		}
		return nil
	})
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
