package reconcile

import (
	"sort"
	"time"
)

// Day truncates t to its calendar day in loc, discarding time-of-day.
func Day(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// BuildSeries reconstructs the per-city stock trend for [Start, End].
//
// The only persisted truth is the current snapshot at End. For each city
// the baseline — the inferred level at Start — is computed by undoing
// everything inside the window:
//
//	baseline = max(0, current − addedWithinRange + removedWithinRange)
//
// then the series walks forward day by day applying that day's additions
// and removals, clamping at zero. Historical data may be inconsistent;
// negative excursions are clamped, never propagated.
func BuildSeries(in Input) Series {
	cities := collectCities(in)

	additionsByCity := groupByCity(in.Additions, in.Start, in.End)
	removalsByCity := groupByCity(in.Removals, in.Start, in.End)

	series := Series{Cities: cities}
	days := enumerateDays(in.Start, in.End)

	if in.Flat {
		for _, day := range days {
			point := Point{Date: day, Quantities: make(map[string]int, len(cities))}
			for _, city := range cities {
				point.Quantities[city.ID] = in.Current[city.ID]
			}
			series.Points = append(series.Points, point)
		}
		return series
	}

	running := make(map[string]int, len(cities))
	for _, city := range cities {
		added := sumDays(additionsByCity[city.ID])
		removed := sumDays(removalsByCity[city.ID])
		baseline := in.Current[city.ID] - added + removed
		if baseline < 0 {
			baseline = 0
		}
		running[city.ID] = baseline
	}

	for _, day := range days {
		point := Point{Date: day, Quantities: make(map[string]int, len(cities))}
		for _, city := range cities {
			level := running[city.ID]
			level += additionsByCity[city.ID][day]
			level -= removalsByCity[city.ID][day]
			if level < 0 {
				level = 0
			}
			running[city.ID] = level
			point.Quantities[city.ID] = level
		}
		series.Points = append(series.Points, point)
	}
	return series
}

// collectCities returns the union of cities with current stock, cities
// seen in in-range additions, and the explicitly filtered city — the
// last even at zero current stock.
func collectCities(in Input) []City {
	seen := make(map[string]struct{})
	var ids []string
	keep := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if in.FilterCity != "" {
		keep(in.FilterCity)
	}
	for id, qty := range in.Current {
		if qty > 0 {
			keep(id)
		}
	}
	for _, e := range in.Additions {
		if inRange(e.Day, in.Start, in.End) {
			keep(e.CityID)
		}
	}

	sort.Strings(ids)
	if in.FilterCity != "" {
		// Only the filtered city is plotted when a filter is active.
		ids = []string{in.FilterCity}
	}

	cities := make([]City, len(ids))
	for i, id := range ids {
		cities[i] = City{ID: id}
	}
	return cities
}

func groupByCity(events []Event, start, end time.Time) map[string]map[time.Time]int {
	grouped := make(map[string]map[time.Time]int)
	for _, e := range events {
		if !inRange(e.Day, start, end) {
			continue
		}
		days := grouped[e.CityID]
		if days == nil {
			days = make(map[time.Time]int)
			grouped[e.CityID] = days
		}
		days[e.Day] += e.Qty
	}
	return grouped
}

func sumDays(days map[time.Time]int) int {
	total := 0
	for _, qty := range days {
		total += qty
	}
	return total
}

func enumerateDays(start, end time.Time) []time.Time {
	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func inRange(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}
