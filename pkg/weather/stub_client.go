package weather

import "context"

// StubClient serves canned forecast responses per granularity in tests.
type StubClient struct {
	DailyItems  []RawForecastItem
	HourlyItems []RawForecastItem
	StaticItems []RawForecastItem
	DailyErr    error
	HourlyErr   error
	StaticErr   error
	Unit        string
	UnitErr     error
	Requests    []Granularity
}

func NewStubClient() *StubClient {
	return &StubClient{}
}

func (c *StubClient) Forecast(ctx context.Context, entityID string, granularity Granularity) ([]RawForecastItem, error) {
	c.Requests = append(c.Requests, granularity)
	switch granularity {
	case Daily:
		return c.DailyItems, c.DailyErr
	default:
		return c.HourlyItems, c.HourlyErr
	}
}

func (c *StubClient) StaticForecast(ctx context.Context, entityID string) ([]RawForecastItem, error) {
	return c.StaticItems, c.StaticErr
}

func (c *StubClient) TemperatureUnit(ctx context.Context, entityID string) (string, error) {
	return c.Unit, c.UnitErr
}
