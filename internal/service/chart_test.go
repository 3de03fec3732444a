package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpfarias/essay-api/internal/store"
)

func TestChartPeriod(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	t.Run("defaults to the trailing twelve months", func(t *testing.T) {
		p := chartPeriod(nil, now)

		assert.Equal(t, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), p.Start)
		assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), p.End)
	})

	t.Run("normalizes an explicit period to whole months", func(t *testing.T) {
		p := chartPeriod(&store.Period{
			Start: time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC),
		}, now)

		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p.End,
			"the end month is included as a bucket")
	})
}

func TestMonthlyHistogram(t *testing.T) {
	period := store.Period{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	points := monthlyHistogram(period, []time.Time{
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), // at the half-open end
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	})

	require.Len(t, points, 3)
	assert.Equal(t, ChartPoint{Key: "1-2024", Value: 2}, points[0])
	assert.Equal(t, ChartPoint{Key: "2-2024", Value: 0}, points[1])
	assert.Equal(t, ChartPoint{Key: "3-2024", Value: 1}, points[2])
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		name  string
		first string
		last  string
	}{
		{"Ana Silva", "Ana", "Silva"},
		{"Ana Maria da Silva", "Ana", "Maria da Silva"},
		{"Madonna", "Madonna", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := splitName(tc.name)
		assert.Equal(t, tc.first, first)
		assert.Equal(t, tc.last, last)
	}
}
