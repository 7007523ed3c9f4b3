package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gridcal/gridcal/pkg/source"
	"github.com/gridcal/gridcal/pkg/weather"
	log "github.com/sirupsen/logrus"
)

// Client talks to a Home Assistant instance over its REST API. It serves
// both calendar event queries and weather forecast queries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("Home Assistant API returned non-OK status: %d", resp.StatusCode)
	}
	return resp, nil
}

// Events fetches raw events for one calendar entity over [from, to).
func (c *Client) Events(ctx context.Context, sourceID string, from, to time.Time) ([]source.RawEvent, error) {
	path := fmt.Sprintf("/api/calendars/%s?start=%s&end=%s",
		url.PathEscape(sourceID),
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var events []source.RawEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}
	return events, nil
}

// Forecast calls the weather.get_forecasts service for one entity.
func (c *Client) Forecast(ctx context.Context, entityID string, granularity weather.Granularity) ([]weather.RawForecastItem, error) {
	body := map[string]any{
		"entity_id": entityID,
		"type":      string(granularity),
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/services/weather/get_forecasts?return_response", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}
	return extractForecast(payload, entityID), nil
}

// extractForecast digs the forecast list out of the loosely-shaped service
// response: the list may sit under service_response/response, under the
// entity id, or at the top level, depending on the HA version.
func extractForecast(payload map[string]any, entityID string) []weather.RawForecastItem {
	box := payload
	for _, wrapper := range []string{"service_response", "response"} {
		if inner, ok := box[wrapper].(map[string]any); ok {
			box = inner
			break
		}
	}
	if inner, ok := box[entityID].(map[string]any); ok {
		box = inner
	}
	list, ok := box["forecast"].([]any)
	if !ok {
		return nil
	}

	items := make([]weather.RawForecastItem, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			items = append(items, weather.RawForecastItem(m))
		}
	}
	return items
}

// StaticForecast reads the forecast array from the entity's last known
// state attributes (the tier-3 fallback).
func (c *Client) StaticForecast(ctx context.Context, entityID string) ([]weather.RawForecastItem, error) {
	attrs, err := c.stateAttributes(ctx, entityID)
	if err != nil {
		return nil, err
	}
	list, ok := attrs["forecast"].([]any)
	if !ok {
		return nil, nil
	}
	items := make([]weather.RawForecastItem, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			items = append(items, weather.RawForecastItem(m))
		}
	}
	return items, nil
}

// TemperatureUnit reads the entity's temperature_unit attribute.
func (c *Client) TemperatureUnit(ctx context.Context, entityID string) (string, error) {
	attrs, err := c.stateAttributes(ctx, entityID)
	if err != nil {
		return "", err
	}
	unit, _ := attrs["temperature_unit"].(string)
	return unit, nil
}

func (c *Client) stateAttributes(ctx context.Context, entityID string) (map[string]any, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var state struct {
		Attributes map[string]any `json:"attributes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode state response: %w", err)
	}
	log.Tracef("state attributes fetched for %s", entityID)
	return state.Attributes, nil
}
