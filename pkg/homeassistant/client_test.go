package homeassistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gridcal/gridcal/pkg/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"summary":"Breakfast","start":{"dateTime":"2025-06-18T08:00:00+00:00"},"end":{"dateTime":"2025-06-18T09:00:00+00:00"}},
			{"summary":"Holiday","start":{"date":"2025-06-19"},"end":{"date":"2025-06-20"}}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	from := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	events, err := client.Events(context.Background(), "calendar.home", from, from.AddDate(0, 0, 7))

	require.NoError(t, err)
	assert.Equal(t, "/api/calendars/calendar.home", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	require.Len(t, events, 2)
	assert.Equal(t, "Breakfast", events[0]["summary"])

	start, ok := events[1]["start"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-06-19", start["date"])
}

func TestEventsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token")
	_, err := client.Events(context.Background(), "calendar.home", time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestForecastResponseShapes(t *testing.T) {
	shapes := []struct {
		name string
		body string
	}{
		{
			"service_response wrapper keyed by entity",
			`{"service_response":{"weather.home":{"forecast":[{"datetime":"2025-06-18T12:00:00Z","temperature":21.5}]}}}`,
		},
		{
			"response wrapper keyed by entity",
			`{"response":{"weather.home":{"forecast":[{"datetime":"2025-06-18T12:00:00Z","temperature":21.5}]}}}`,
		},
		{
			"bare forecast",
			`{"forecast":[{"datetime":"2025-06-18T12:00:00Z","temperature":21.5}]}`,
		},
	}

	for _, tt := range shapes {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "token")
			items, err := client.Forecast(context.Background(), "weather.home", weather.Daily)

			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, 21.5, items[0]["temperature"])
		})
	}
}

func TestStaticForecastAndUnit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/states/weather.home", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"state": "sunny",
			"attributes": {
				"temperature_unit": "°C",
				"forecast": [{"datetime":"2025-06-18T12:00:00Z","temperature":19.0}]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")

	items, err := client.StaticForecast(context.Background(), "weather.home")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 19.0, items[0]["temperature"])

	unit, err := client.TemperatureUnit(context.Background(), "weather.home")
	require.NoError(t, err)
	assert.Equal(t, "°C", unit)
}

func TestStaticForecastMissingAttribute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"attributes":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	items, err := client.StaticForecast(context.Background(), "weather.home")
	require.NoError(t, err)
	assert.Empty(t, items)
}
