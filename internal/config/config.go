package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gridcal/gridcal/pkg/timeutil"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// Backend names a calendar source implementation.
const (
	BackendHomeAssistant = "homeassistant"
	BackendGoogle        = "google"
)

type Source struct {
	ID      string `koanf:"id"`
	Name    string `koanf:"name"`
	Color   string `koanf:"color"`
	Backend string `koanf:"backend"`
}

type Grid struct {
	StartToday         bool   `koanf:"starttoday"`
	FirstDay           int    `koanf:"firstday"`
	SlotMinTime        string `koanf:"slotmintime"`
	SlotMaxTime        string `koanf:"slotmaxtime"`
	SlotMinutes        int    `koanf:"slotminutes"`
	ShowAllDay         bool   `koanf:"showallday"`
	RememberOffset     bool   `koanf:"rememberoffset"`
	DataRefreshMinutes int    `koanf:"datarefreshminutes"`
}

type Weather struct {
	Entity string `koanf:"entity"`
	Days   int    `koanf:"days"`
}

type HomeAssistant struct {
	URL   string `koanf:"url"`
	Token string `koanf:"token"`
}

type Google struct {
	CredentialsFile string `koanf:"credentialsfile"`
	TokenFile       string `koanf:"tokenfile"`
}

type Storage struct {
	Path string `koanf:"path"`
}

type Application struct {
	Listen        string        `koanf:"listen"`
	Sources       []Source      `koanf:"sources"`
	Grid          Grid          `koanf:"grid"`
	Weather       Weather       `koanf:"weather"`
	HomeAssistant HomeAssistant `koanf:"homeassistant"`
	Google        Google        `koanf:"google"`
	Storage       Storage       `koanf:"storage"`
}

func defaults() Application {
	return Application{
		Listen: ":8181",
		Grid: Grid{
			StartToday:         true,
			FirstDay:           1,
			SlotMinTime:        "07:00:00",
			SlotMaxTime:        "22:00:00",
			SlotMinutes:        30,
			ShowAllDay:         true,
			RememberOffset:     true,
			DataRefreshMinutes: 5,
		},
		Weather: Weather{
			Days: 7,
		},
		Storage: Storage{
			Path: "gridcal_state.json",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "GRIDCAL_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "GRIDCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Validate(); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Validate reports the configuration errors that are fatal to startup.
// Everything else in the pipeline degrades at runtime instead.
func (a Application) Validate() error {
	if len(a.Sources) == 0 {
		return errors.New("configuration must include at least one calendar source")
	}
	seen := map[string]bool{}
	for i, s := range a.Sources {
		if s.ID == "" {
			return fmt.Errorf("source %d is missing an id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate source id %q", s.ID)
		}
		seen[s.ID] = true
		switch s.Backend {
		case "", BackendHomeAssistant, BackendGoogle:
		default:
			return fmt.Errorf("source %q has unknown backend %q", s.ID, s.Backend)
		}
	}

	minTime, err := timeutil.ParseClock(a.Grid.SlotMinTime)
	if err != nil {
		return fmt.Errorf("grid.slotmintime: %w", err)
	}
	maxTime, err := timeutil.ParseClock(a.Grid.SlotMaxTime)
	if err != nil {
		return fmt.Errorf("grid.slotmaxtime: %w", err)
	}
	if minTime >= maxTime {
		return fmt.Errorf("grid.slotmintime %q must be before grid.slotmaxtime %q", a.Grid.SlotMinTime, a.Grid.SlotMaxTime)
	}
	if a.Grid.SlotMinutes <= 0 || a.Grid.SlotMinutes > 180 {
		return fmt.Errorf("grid.slotminutes must be between 1 and 180, got %d", a.Grid.SlotMinutes)
	}
	if a.Weather.Days < 1 || a.Weather.Days > 10 {
		return fmt.Errorf("weather.days must be between 1 and 10, got %d", a.Weather.Days)
	}
	return nil
}

// RefreshMinutes returns the data refresh interval clamped to [1, 60].
func (a Application) RefreshMinutes() int {
	return timeutil.ClampInt(a.Grid.DataRefreshMinutes, 1, 60)
}
