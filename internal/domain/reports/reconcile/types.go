// Package reconcile reconstructs historical stock-level time series.
// Only the current stock snapshot is persisted; the per-day series is
// back-computed from it using the reception, order, and write-off event
// logs.
package reconcile

import "time"

// Event is one stock movement flattened to what the series needs: a
// calendar day, a resolved city, and a quantity.
type Event struct {
	Day    time.Time
	CityID string
	Qty    int
}

// City labels one series column.
type City struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Point is one day of the series: quantity per city id.
type Point struct {
	Date       time.Time      `json:"date"`
	Quantities map[string]int `json:"quantities"`
}

// Series is a day-indexed stock trend over a set of cities.
type Series struct {
	Cities []City  `json:"cities"`
	Points []Point `json:"points"`
}

// Input is everything BuildSeries needs, already resolved and
// day-normalized. Events outside [Start, End] are ignored for
// per-day plotting but Additions/Removals must still carry them only
// in range — the caller filters nothing, BuildSeries does.
type Input struct {
	// Start and End bound the series, inclusive, as calendar days.
	// End is "now": the day the Current snapshot was observed.
	Start, End time.Time

	// Current is the authoritative quantity per city at End.
	Current map[string]int

	// Additions are reception events; Removals are non-refund order and
	// active write-off events.
	Additions []Event
	Removals  []Event

	// FilterCity forces one city into the series even at zero current
	// stock, to show a decline-to-zero trend.
	FilterCity string

	// Flat draws a horizontal line at the current quantity instead of
	// reconstructing the trend.
	Flat bool
}
