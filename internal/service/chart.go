package service

import (
	"fmt"
	"time"

	"github.com/lpfarias/essay-api/internal/store"
)

// ChartPoint is one monthly bucket of a histogram. Key is formatted as
// "<month>-<year>" (month 1-12).
type ChartPoint struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// defaultChartMonths is the span used when a chart is requested without an
// explicit period.
const defaultChartMonths = 12

// startOfMonth truncates the instant to the first day of its month, UTC.
func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// chartPeriod normalizes the requested period to whole calendar months,
// defaulting to the trailing twelve months ending now. The returned period
// is half-open: the end is the first instant after the last bucket.
func chartPeriod(period *store.Period, now time.Time) store.Period {
	if period == nil {
		end := startOfMonth(now).AddDate(0, 1, 0)
		return store.Period{
			Start: startOfMonth(now).AddDate(0, -(defaultChartMonths - 1), 0),
			End:   end,
		}
	}

	return store.Period{
		Start: startOfMonth(period.Start),
		End:   startOfMonth(period.End).AddDate(0, 1, 0),
	}
}

// chartKey formats the bucket key for the month containing t.
func chartKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", int(t.Month()), t.Year())
}

// monthlyHistogram buckets the given instants into one fixed-length entry
// per calendar month of the period, in chronological order. Instants outside
// the period are ignored.
func monthlyHistogram(period store.Period, instants []time.Time) []ChartPoint {
	points := []ChartPoint{}
	index := map[string]int{}

	for month := period.Start; month.Before(period.End); month = month.AddDate(0, 1, 0) {
		key := chartKey(month)
		index[key] = len(points)
		points = append(points, ChartPoint{Key: key})
	}

	for _, t := range instants {
		if !period.Contains(t) {
			continue
		}
		if i, ok := index[chartKey(t)]; ok {
			points[i].Value++
		}
	}

	return points
}
