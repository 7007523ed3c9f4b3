package event

import "time"

// DefaultColor is used when a source carries no usable color hint.
const DefaultColor = "#3366cc"

// PlaceholderTitle replaces a missing event title.
const PlaceholderTitle = "(no title)"

// Event is the canonical event shape. One instance per raw record per
// fetch cycle; never mutated after construction, only replaced wholesale
// by the next fetch.
type Event struct {
	Start       time.Time
	End         time.Time
	AllDay      bool
	Title       string
	Location    string
	Description string
	Color       string
	SourceID    string
	SourceName  string
}
