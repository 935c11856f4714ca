// Package resample converts daily bar series to weekly cadence and keeps
// indicator value series aligned with the resampled timestamps.
package resample

import (
	"sort"
	"time"

	"github.com/mohamedkhairy/argus/internal/models"
)

// weekKey identifies an ISO calendar week
type weekKey struct {
	year int
	week int
}

func weekOf(t time.Time) weekKey {
	year, week := t.ISOWeek()
	return weekKey{year: year, week: week}
}

func (k weekKey) before(other weekKey) bool {
	if k.year != other.year {
		return k.year < other.year
	}
	return k.week < other.week
}

// ToWeekly aggregates sorted-ascending daily bars into weekly bars.
// Per ISO week: open is the first bar's open, close the last bar's close,
// high/low the extremes, volume the sum. The weekly timestamp follows the
// week-end convention (last daily bar of the group). Groups are emitted in
// ascending week order.
func ToWeekly(bars []models.Bar) []models.Bar {
	if len(bars) == 0 {
		return []models.Bar{}
	}

	groups := make(map[weekKey][]models.Bar)
	for _, bar := range bars {
		key := weekOf(bar.Timestamp)
		groups[key] = append(groups[key], bar)
	}

	keys := make([]weekKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	weekly := make([]models.Bar, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		agg := models.Bar{
			Timestamp: group[len(group)-1].Timestamp,
			Open:      group[0].Open,
			High:      group[0].High,
			Low:       group[0].Low,
			Close:     group[len(group)-1].Close,
		}
		for _, b := range group {
			if b.High > agg.High {
				agg.High = b.High
			}
			if b.Low < agg.Low {
				agg.Low = b.Low
			}
			agg.Volume += b.Volume
		}
		weekly = append(weekly, agg)
	}

	return weekly
}

// AlignSeries re-aligns an indicator value series onto weekly bar timestamps.
// For each weekly bar, the most recent source point of the same ISO week
// supplies the value; a week with no source point carries an explicit absent
// marker, so the aligned series always has exactly one entry per weekly bar.
func AlignSeries(series []models.TimePoint, weekly []models.Bar) []models.TimePoint {
	if len(weekly) == 0 {
		return []models.TimePoint{}
	}

	grouped := make(map[weekKey]*float64, len(series))
	for _, point := range series {
		grouped[weekOf(point.Timestamp)] = point.Value
	}

	aligned := make([]models.TimePoint, len(weekly))
	for i, bar := range weekly {
		aligned[i] = models.TimePoint{Timestamp: bar.Timestamp}
		if value, ok := grouped[weekOf(bar.Timestamp)]; ok {
			aligned[i].Value = value
		}
	}

	return aligned
}

// SliceTail returns the trailing n bars (all bars when n exceeds the length)
func SliceTail(bars []models.Bar, n int) []models.Bar {
	if n <= 0 || len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}

// sliceSeriesTail returns the trailing n points of an indicator series
func sliceSeriesTail(series []models.TimePoint, n int) []models.TimePoint {
	if n <= 0 || len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
