package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gridcal/gridcal/internal/event_bus"
	"github.com/gridcal/gridcal/pkg/event"
	"github.com/gridcal/gridcal/pkg/grid"
	"github.com/gridcal/gridcal/pkg/source"
	"github.com/gridcal/gridcal/pkg/timeutil"
	"github.com/gridcal/gridcal/pkg/weather"
	"github.com/gridcal/gridcal/pkg/window"
	log "github.com/sirupsen/logrus"
)

// EventRefreshCompleted is published on the bus after every refresh
// cycle, applied or not.
const EventRefreshCompleted event_bus.EventType = "grid.refresh.completed"

// RefreshStats is the EventRefreshCompleted payload.
type RefreshStats struct {
	Generation    int64
	CycleID       string
	EventCount    int
	FailedSources []string
	WeatherTier   weather.Tier
	Duration      time.Duration
	Applied       bool
}

// SourceBinding pairs a configured source with the client that fetches
// its events.
type SourceBinding struct {
	Source source.Source
	Client source.Client
}

// Options is the engine's per-session configuration.
type Options struct {
	Sources        []SourceBinding
	Policy         window.Policy
	ShowAllDay     bool
	RememberOffset bool
	WeatherEntity  string
	WeatherDays    int
}

// Snapshot is the assembled render model handed to the presentation
// layer. Rebuilt wholesale per applied refresh cycle.
type Snapshot struct {
	Window            window.Window
	Days              []grid.DayBucket
	Weather           map[string]weather.ForecastDay
	TemperatureUnit   string
	FailedSourceNames []string
	RefreshedAt       time.Time
	Generation        int64
}

// Engine orchestrates a refresh cycle: compute the window, fetch all
// sources and the forecast concurrently, normalize, bucket, lay out, and
// apply the result. Every cycle is stamped with an increasing generation;
// a cycle that finishes after a newer one has started is dropped without
// mutating state. That stamp is the sole concurrency-correctness
// mechanism: there is no explicit fetch cancellation.
type Engine struct {
	opts     Options
	offsets  *window.OffsetStore
	resolver *weather.Resolver
	clock    timeutil.Clock
	bus      *event_bus.EventBus

	mu         sync.Mutex
	weekOffset int
	generation int64
	snapshot   Snapshot
}

func New(opts Options, offsets *window.OffsetStore, resolver *weather.Resolver, clock timeutil.Clock, bus *event_bus.EventBus) *Engine {
	e := &Engine{
		opts:     opts,
		offsets:  offsets,
		resolver: resolver,
		clock:    clock,
		bus:      bus,
	}
	if opts.RememberOffset {
		e.weekOffset = offsets.LoadOffset()
	}
	return e
}

// Snapshot returns the current render model.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// WeekOffset returns the current navigation offset in weeks.
func (e *Engine) WeekOffset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weekOffset
}

type fetchResult struct {
	index  int
	events []source.RawEvent
	err    error
}

// Refresh runs one full pipeline cycle and returns the assembled
// snapshot. The result is applied to shared state only when no newer
// cycle was started in the meantime.
func (e *Engine) Refresh(ctx context.Context) Snapshot {
	started := e.clock.Now()
	cycleID := uuid.NewString()

	e.mu.Lock()
	e.generation++
	gen := e.generation
	offset := e.weekOffset
	e.mu.Unlock()

	w := window.New(started, e.opts.Policy, offset)
	log.Debugf("refresh %s: generation %d, window %s", cycleID, gen, w.Anchor.Format("2006-01-02"))

	results := make([]fetchResult, len(e.opts.Sources))
	resultCh := make(chan fetchResult, len(e.opts.Sources))
	fetches := 0
	for i, binding := range e.opts.Sources {
		if !e.offsets.IsVisible(binding.Source.ID) {
			results[i] = fetchResult{index: i}
			continue
		}
		fetches++
		go func(i int, b SourceBinding) {
			events, err := b.Client.Events(ctx, b.Source.ID, w.Anchor, w.End())
			resultCh <- fetchResult{index: i, events: events, err: err}
		}(i, binding)
	}

	var (
		wx     map[string]weather.ForecastDay
		tier   = weather.TierNone
		unit   string
		wxDone = make(chan struct{})
	)
	if e.opts.WeatherEntity != "" && e.resolver != nil {
		go func() {
			defer close(wxDone)
			wx, tier = e.resolver.Fetch(ctx, e.opts.WeatherEntity, e.opts.WeatherDays)
			unit = e.resolver.TemperatureUnit(ctx, e.opts.WeatherEntity)
		}()
	} else {
		wx = map[string]weather.ForecastDay{}
		unit = "°"
		close(wxDone)
	}

	// One slow source delays the whole cycle but never another source's
	// failure handling: all fetches are awaited, successes and failures.
	for i := 0; i < fetches; i++ {
		r := <-resultCh
		results[r.index] = r
	}
	<-wxDone

	now := e.clock.Now()
	var pooled []event.Event
	var failed []string
	for i, binding := range e.opts.Sources {
		r := results[i]
		if r.err != nil {
			log.Errorf("refresh %s: source %s failed: %v", cycleID, binding.Source.ID, r.err)
			failed = append(failed, binding.Source.DisplayName())
			continue
		}
		for _, raw := range r.events {
			pooled = append(pooled, event.Normalize(raw, binding.Source, now))
		}
	}
	if failed == nil {
		failed = []string{}
	}

	snap := Snapshot{
		Window:            w,
		Days:              grid.Bucket(pooled, w, e.opts.ShowAllDay),
		Weather:           wx,
		TemperatureUnit:   unit,
		FailedSourceNames: failed,
		RefreshedAt:       now,
		Generation:        gen,
	}

	e.mu.Lock()
	applied := gen == e.generation
	if applied {
		e.snapshot = snap
	}
	e.mu.Unlock()
	if !applied {
		log.Debugf("refresh %s: generation %d superseded, result dropped", cycleID, gen)
	}

	if e.bus != nil {
		_ = e.bus.Publish(event_bus.NewEvent(ctx, EventRefreshCompleted, RefreshStats{
			Generation:    gen,
			CycleID:       cycleID,
			EventCount:    len(pooled),
			FailedSources: failed,
			WeatherTier:   tier,
			Duration:      e.clock.Now().Sub(started),
			Applied:       applied,
		}))
	}

	return snap
}

// Navigate shifts the visible window by delta weeks and refreshes.
func (e *Engine) Navigate(ctx context.Context, delta int) Snapshot {
	e.setOffset(e.WeekOffset() + delta)
	return e.Refresh(ctx)
}

// Today resets the window to the current week and refreshes.
func (e *Engine) Today(ctx context.Context) Snapshot {
	e.setOffset(0)
	return e.Refresh(ctx)
}

func (e *Engine) setOffset(offset int) {
	e.mu.Lock()
	e.weekOffset = offset
	e.mu.Unlock()

	if e.opts.RememberOffset {
		// Persistence failure degrades to a session-only offset.
		if err := e.offsets.SaveOffset(offset); err != nil {
			log.Warnf("failed to persist week offset: %v", err)
		}
	}
}

// ScrollTop returns the persisted scroll position, 0 when none is
// stored.
func (e *Engine) ScrollTop() float64 {
	return e.offsets.LoadScrollTop(0)
}

// SaveScrollTop persists the client's scroll position. Persistence
// failure degrades to a session-only value.
func (e *Engine) SaveScrollTop(top float64) {
	if err := e.offsets.SaveScrollTop(top); err != nil {
		log.Warnf("failed to persist scroll position: %v", err)
	}
}

// SetSourceVisible toggles a configured source and refreshes.
func (e *Engine) SetSourceVisible(ctx context.Context, sourceID string, visible bool) (Snapshot, error) {
	known := false
	for _, b := range e.opts.Sources {
		if b.Source.ID == sourceID {
			known = true
			break
		}
	}
	if !known {
		return Snapshot{}, fmt.Errorf("unknown source %q", sourceID)
	}
	if err := e.offsets.SetVisible(sourceID, visible); err != nil {
		log.Warnf("failed to persist visibility for %s: %v", sourceID, err)
	}
	return e.Refresh(ctx), nil
}
