package report

import (
	"math"
	"sort"
	"time"

	"admreport/domain/core"
	"admreport/domain/datamart"
)

// Heatmap signs: whether a model's responses moved day over day. Missing
// data counts as increased, matching the report convention that only a
// drop needs attention.
const (
	SignDecreased = -1
	SignNoChange  = 0
	SignIncreased = 1
)

// CalendarHeatmap is the response-volume calendar: one row per model, one
// column per day. Responses holds the latest count of that day (NaN when
// the model has no snapshot that day); Sign holds the day-over-day
// direction.
type CalendarHeatmap struct {
	ModelNames []string    `json:"model_names"`
	Days       []time.Time `json:"days"`
	Responses  [][]float64 `json:"responses"` // [model][day]
	Sign       [][]int     `json:"sign"`      // [model][day]
}

// Empty reports whether the lookback window contained no snapshots.
func (h CalendarHeatmap) Empty() bool {
	return len(h.Days) == 0
}

// BuildCalendarHeatmap shapes the full model history into the calendar
// payload. Only days within lookback days of the newest snapshot are
// kept; when fillNullDays is set, the day axis is made continuous so gaps
// show up as gaps. Multiple snapshots of one model on one day collapse to
// the latest.
func BuildCalendarHeatmap(models datamart.ModelTable, lookback int, fillNullDays bool) CalendarHeatmap {
	type dayKey struct {
		name string
		day  time.Time
	}
	latestAt := make(map[dayKey]core.SnapshotTime)
	responses := make(map[dayKey]float64)
	var maxDay time.Time
	for _, m := range models {
		if m.SnapshotTime.IsZero() {
			continue
		}
		day := m.SnapshotTime.Day()
		key := dayKey{m.Name, day}
		if at, ok := latestAt[key]; !ok || m.SnapshotTime.After(at) {
			latestAt[key] = m.SnapshotTime
			responses[key] = float64(m.ResponseCount)
		}
		if day.After(maxDay) {
			maxDay = day
		}
	}
	if len(responses) == 0 {
		return CalendarHeatmap{}
	}

	cutoff := maxDay.AddDate(0, 0, -lookback)
	names := make(map[string]bool)
	minDay := maxDay
	daySet := make(map[time.Time]bool)
	for key := range responses {
		if !key.day.After(cutoff) {
			delete(responses, key)
			continue
		}
		names[key.name] = true
		daySet[key.day] = true
		if key.day.Before(minDay) {
			minDay = key.day
		}
	}
	if len(responses) == 0 {
		return CalendarHeatmap{}
	}

	var days []time.Time
	if fillNullDays {
		for d := minDay; !d.After(maxDay); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	} else {
		for d := range daySet {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	}

	modelNames := make([]string, 0, len(names))
	for name := range names {
		modelNames = append(modelNames, name)
	}
	sort.Strings(modelNames)

	grid := make([][]float64, len(modelNames))
	sign := make([][]int, len(modelNames))
	for i, name := range modelNames {
		row := make([]float64, len(days))
		for j, day := range days {
			if v, ok := responses[dayKey{name, day}]; ok {
				row[j] = v
			} else {
				row[j] = math.NaN()
			}
		}
		grid[i] = row
		sign[i] = signRow(row)
	}
	return CalendarHeatmap{ModelNames: modelNames, Days: days, Responses: grid, Sign: sign}
}

// signRow derives the day-over-day direction of one model's responses.
// The first day has no predecessor and is reported as increased.
func signRow(row []float64) []int {
	out := make([]int, len(row))
	for j := range row {
		if j == 0 || math.IsNaN(row[j]) || math.IsNaN(row[j-1]) {
			out[j] = SignIncreased
			continue
		}
		switch diff := row[j] - row[j-1]; {
		case diff > 0:
			out[j] = SignIncreased
		case diff < 0:
			out[j] = SignDecreased
		default:
			out[j] = SignNoChange
		}
	}
	return out
}
