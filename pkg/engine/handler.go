package engine

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gridcal/gridcal/internal/rest"
	"github.com/gridcal/gridcal/pkg/event"
	"github.com/gridcal/gridcal/pkg/grid"
	"github.com/gridcal/gridcal/pkg/timeutil"
	"github.com/gridcal/gridcal/pkg/weather"
)

type Handler struct {
	engine *Engine
}

func NewHandler(e *Engine) *Handler {
	return &Handler{engine: e}
}

type EventDTO struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	SourceID    string    `json:"sourceId"`
	SourceName  string    `json:"sourceName"`
}

type PlacedEventDTO struct {
	Event           EventDTO `json:"event"`
	OffsetMinutes   float64  `json:"offsetMinutes"`
	DurationMinutes float64  `json:"durationMinutes"`
	Lane            int      `json:"lane"`
	LaneCount       int      `json:"laneCount"`
}

type DayBucketDTO struct {
	Date         string           `json:"date"`
	AllDayEvents []EventDTO       `json:"allDayEvents"`
	TimedLayouts []PlacedEventDTO `json:"timedLayouts"`
}

type ForecastDayDTO struct {
	High                     *float64 `json:"high"`
	Low                      *float64 `json:"low"`
	Condition                string   `json:"condition"`
	PrecipitationProbability *float64 `json:"precipitationProbability"`
}

type SnapshotDTO struct {
	Anchor            string                    `json:"anchor"`
	WeekOffset        int                       `json:"weekOffset"`
	RefreshedAt       time.Time                 `json:"refreshedAt"`
	Days              []DayBucketDTO            `json:"days"`
	Weather           map[string]ForecastDayDTO `json:"weather"`
	TemperatureUnit   string                    `json:"temperatureUnit"`
	FailedSourceNames []string                  `json:"failedSourceNames"`
}

// GetGrid returns the current render model, running a first refresh
// lazily when none has completed yet.
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	if snap.RefreshedAt.IsZero() {
		snap = h.engine.Refresh(r.Context())
	}
	writeSnapshot(w, snap)
}

// Refresh forces a full fetch cycle.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, h.engine.Refresh(r.Context()))
}

type navigateRequest struct {
	Delta int `json:"delta"`
}

// Navigate shifts the visible window by the requested number of weeks.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid request body",
			Details: "expected {\"delta\": <integer>}",
		})
		return
	}
	writeSnapshot(w, h.engine.Navigate(r.Context(), req.Delta))
}

// Today resets the window to the current week.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, h.engine.Today(r.Context()))
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

// SetVisibility toggles whether one source contributes events.
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	sourceID := mux.Vars(r)["sourceId"]

	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid request body",
			Details: "expected {\"visible\": <bool>}",
		})
		return
	}

	snap, err := h.engine.SetSourceVisible(r.Context(), sourceID, req.Visible)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
		return
	}
	writeSnapshot(w, snap)
}

type scrollDTO struct {
	Top float64 `json:"top"`
}

// GetScroll returns the persisted scroll position for the client to
// restore.
func (h *Handler) GetScroll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(scrollDTO{Top: h.engine.ScrollTop()})
}

// SaveScroll persists the client's scroll position.
func (h *Handler) SaveScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid request body",
			Details: "expected {\"top\": <number>}",
		})
		return
	}
	h.engine.SaveScrollTop(req.Top)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(scrollDTO{Top: req.Top})
}

func writeSnapshot(w http.ResponseWriter, snap Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(snapshotToDTO(snap))
}

func snapshotToDTO(snap Snapshot) SnapshotDTO {
	days := make([]DayBucketDTO, 0, len(snap.Days))
	for _, d := range snap.Days {
		days = append(days, dayToDTO(d))
	}
	wx := make(map[string]ForecastDayDTO, len(snap.Weather))
	for key, day := range snap.Weather {
		wx[key] = forecastToDTO(day)
	}
	return SnapshotDTO{
		Anchor:            timeutil.DayKey(snap.Window.Anchor),
		WeekOffset:        snap.Window.WeekOffset,
		RefreshedAt:       snap.RefreshedAt,
		Days:              days,
		Weather:           wx,
		TemperatureUnit:   snap.TemperatureUnit,
		FailedSourceNames: snap.FailedSourceNames,
	}
}

func dayToDTO(d grid.DayBucket) DayBucketDTO {
	allDay := make([]EventDTO, 0, len(d.AllDayEvents))
	for _, ev := range d.AllDayEvents {
		allDay = append(allDay, eventToDTO(ev))
	}
	timed := make([]PlacedEventDTO, 0, len(d.TimedLayouts))
	for _, p := range d.TimedLayouts {
		timed = append(timed, PlacedEventDTO{
			Event:           eventToDTO(p.Event),
			OffsetMinutes:   p.OffsetMinutes,
			DurationMinutes: p.DurationMinutes,
			Lane:            p.Lane,
			LaneCount:       p.LaneCount,
		})
	}
	return DayBucketDTO{
		Date:         timeutil.DayKey(d.Date),
		AllDayEvents: allDay,
		TimedLayouts: timed,
	}
}

func eventToDTO(ev event.Event) EventDTO {
	return EventDTO{
		Title:       ev.Title,
		Start:       ev.Start,
		End:         ev.End,
		AllDay:      ev.AllDay,
		Location:    ev.Location,
		Description: ev.Description,
		Color:       ev.Color,
		SourceID:    ev.SourceID,
		SourceName:  ev.SourceName,
	}
}

func forecastToDTO(day weather.ForecastDay) ForecastDayDTO {
	return ForecastDayDTO{
		High:                     day.High,
		Low:                      day.Low,
		Condition:                day.Condition,
		PrecipitationProbability: day.PrecipitationProbability,
	}
}
