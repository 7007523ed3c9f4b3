package source

import (
	"context"
	"sync"
	"time"
)

// StubClient serves canned events (or errors) per source id in tests.
// Safe for the engine's concurrent per-source fetches.
type StubClient struct {
	mu             sync.Mutex
	EventsBySource map[string][]RawEvent
	ErrBySource    map[string]error
	Delay          time.Duration
	calls          []string
}

func NewStubClient() *StubClient {
	return &StubClient{
		EventsBySource: map[string][]RawEvent{},
		ErrBySource:    map[string]error{},
	}
}

func (c *StubClient) Events(ctx context.Context, sourceID string, from, to time.Time) ([]RawEvent, error) {
	c.mu.Lock()
	c.calls = append(c.calls, sourceID)
	delay := c.Delay
	events := c.EventsBySource[sourceID]
	err := c.ErrBySource[sourceID]
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (c *StubClient) SetEvents(sourceID string, events []RawEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.EventsBySource[sourceID] = events
}

func (c *StubClient) SetErr(sourceID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ErrBySource[sourceID] = err
}

func (c *StubClient) SetDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Delay = d
}

func (c *StubClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}
