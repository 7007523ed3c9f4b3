package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gridcal/gridcal/pkg/source"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client is a calendar source backend over the Google Calendar API. The
// source id of a configured source is the Google calendar id.
type Client struct {
	service *gcal.Service
}

// NewClient builds an authenticated client from an OAuth credentials file
// and a previously obtained token file.
func NewClient(ctx context.Context, credentialsFile, tokenFile string) (*Client, error) {
	credentials, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read Google credentials file: %w", err)
	}
	config, err := googleauth.ConfigFromJSON(credentials, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse Google credentials: %w", err)
	}

	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read Google token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("unable to parse Google token: %w", err)
	}

	service, err := gcal.NewService(ctx, option.WithHTTPClient(config.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Calendar client: %w", err)
	}
	return &Client{service: service}, nil
}

// Events fetches already-expanded event instances for one calendar over
// [from, to). Items are handed to the normalizer as raw records; Google's
// start/end shape (date or dateTime) is exactly what it expects.
func (c *Client) Events(ctx context.Context, sourceID string, from, to time.Time) ([]source.RawEvent, error) {
	result, err := c.service.Events.List(sourceID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from Google Calendar: %w", err)
	}

	events := make([]source.RawEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, rawFromGoogleEvent(item))
	}
	log.Debugf("fetched %d events from Google calendar %s", len(events), sourceID)
	return events, nil
}

func rawFromGoogleEvent(item *gcal.Event) source.RawEvent {
	raw := source.RawEvent{
		"summary":     item.Summary,
		"location":    item.Location,
		"description": item.Description,
	}
	if item.Start != nil {
		raw["start"] = boundaryMap(item.Start)
	}
	if item.End != nil {
		raw["end"] = boundaryMap(item.End)
	}
	return raw
}

func boundaryMap(b *gcal.EventDateTime) map[string]any {
	m := map[string]any{}
	if b.DateTime != "" {
		m["dateTime"] = b.DateTime
	}
	if b.Date != "" {
		m["date"] = b.Date
	}
	return m
}
