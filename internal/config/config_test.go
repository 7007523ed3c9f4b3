package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplication() Application {
	app := defaults()
	app.Sources = []Source{
		{ID: "calendar.home", Name: "Home", Backend: BackendHomeAssistant},
	}
	return app
}

func TestLoadDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gridcal.yaml")
	err := os.WriteFile(configPath, []byte("sources:\n  - id: calendar.home\n"), 0o644)
	require.NoError(t, err)

	app, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":8181", app.Listen)
	assert.True(t, app.Grid.StartToday)
	assert.Equal(t, 1, app.Grid.FirstDay)
	assert.Equal(t, "07:00:00", app.Grid.SlotMinTime)
	assert.Equal(t, "22:00:00", app.Grid.SlotMaxTime)
	assert.Equal(t, 30, app.Grid.SlotMinutes)
	assert.True(t, app.Grid.ShowAllDay)
	assert.True(t, app.Grid.RememberOffset)
	assert.Equal(t, 5, app.Grid.DataRefreshMinutes)
	assert.Equal(t, 7, app.Weather.Days)
	assert.Equal(t, "gridcal_state.json", app.Storage.Path)
	require.Len(t, app.Sources, 1)
	assert.Equal(t, "calendar.home", app.Sources[0].ID)
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gridcal.yaml")
	yaml := `
listen: ":9000"
sources:
  - id: calendar.work
    name: Work
    color: "#e67c73"
    backend: homeassistant
  - id: family@group.calendar.google.com
    name: Family
    backend: google
grid:
  firstday: 0
  slotminutes: 60
weather:
  entity: weather.forecast_home
  days: 5
homeassistant:
  url: http://ha.local:8123
  token: secret
`
	err := os.WriteFile(configPath, []byte(yaml), 0o644)
	require.NoError(t, err)

	app, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9000", app.Listen)
	require.Len(t, app.Sources, 2)
	assert.Equal(t, "Work", app.Sources[0].Name)
	assert.Equal(t, "#e67c73", app.Sources[0].Color)
	assert.Equal(t, BackendGoogle, app.Sources[1].Backend)
	assert.Equal(t, 0, app.Grid.FirstDay)
	assert.Equal(t, 60, app.Grid.SlotMinutes)
	assert.Equal(t, "weather.forecast_home", app.Weather.Entity)
	assert.Equal(t, 5, app.Weather.Days)
	assert.Equal(t, "http://ha.local:8123", app.HomeAssistant.URL)
	// defaults still apply where the file is silent
	assert.True(t, app.Grid.RememberOffset)
}

func TestLoadFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gridcal.yaml")
	err := os.WriteFile(configPath, []byte("sources:\n  - id: calendar.home\n"), 0o644)
	require.NoError(t, err)

	t.Setenv("GRIDCAL_LISTEN", ":7777")
	t.Setenv("GRIDCAL_HOMEASSISTANT_TOKEN", "env-token")

	app, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":7777", app.Listen)
	assert.Equal(t, "env-token", app.HomeAssistant.Token)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GRIDCAL_LISTEN", ":7070")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	// defaults have no sources, so validation rejects the result
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one calendar source")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(app *Application)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(app *Application) {},
		},
		{
			name:    "no sources",
			mutate:  func(app *Application) { app.Sources = nil },
			wantErr: "at least one calendar source",
		},
		{
			name: "source without id",
			mutate: func(app *Application) {
				app.Sources = append(app.Sources, Source{Name: "Anonymous"})
			},
			wantErr: "missing an id",
		},
		{
			name: "duplicate source id",
			mutate: func(app *Application) {
				app.Sources = append(app.Sources, app.Sources[0])
			},
			wantErr: "duplicate source id",
		},
		{
			name: "unknown backend",
			mutate: func(app *Application) {
				app.Sources[0].Backend = "caldav"
			},
			wantErr: "unknown backend",
		},
		{
			name:    "bad slotMinTime",
			mutate:  func(app *Application) { app.Grid.SlotMinTime = "7am" },
			wantErr: "slotmintime",
		},
		{
			name:    "bad slotMaxTime",
			mutate:  func(app *Application) { app.Grid.SlotMaxTime = "24:99" },
			wantErr: "slotmaxtime",
		},
		{
			name: "min not before max",
			mutate: func(app *Application) {
				app.Grid.SlotMinTime = "22:00:00"
				app.Grid.SlotMaxTime = "07:00:00"
			},
			wantErr: "must be before",
		},
		{
			name:    "slotMinutes zero",
			mutate:  func(app *Application) { app.Grid.SlotMinutes = 0 },
			wantErr: "slotminutes",
		},
		{
			name:    "slotMinutes too large",
			mutate:  func(app *Application) { app.Grid.SlotMinutes = 240 },
			wantErr: "slotminutes",
		},
		{
			name:    "weather days out of range",
			mutate:  func(app *Application) { app.Weather.Days = 0 },
			wantErr: "weather.days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := validApplication()
			tt.mutate(&app)
			err := app.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRefreshMinutesClamped(t *testing.T) {
	app := validApplication()

	app.Grid.DataRefreshMinutes = 0
	assert.Equal(t, 1, app.RefreshMinutes())

	app.Grid.DataRefreshMinutes = 90
	assert.Equal(t, 60, app.RefreshMinutes())

	app.Grid.DataRefreshMinutes = 15
	assert.Equal(t, 15, app.RefreshMinutes())
}
