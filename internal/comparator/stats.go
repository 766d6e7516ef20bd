package comparator

import (
	"sort"

	"route-compare/internal/models"
)

// Summarize aggregates the batch. Per-field statistics cover only the rows
// where that diff was present; the counts track how many that was.
func Summarize(records []models.ComparisonRecord) models.BatchSummary {
	summary := models.BatchSummary{TotalRows: len(records)}

	var distance, duration, respTime []float64

	for _, rec := range records {
		if rec.DecodeErr != "" {
			summary.DecodeFailures++
			continue
		}
		if !rec.Directions.OK() {
			summary.DirectionsFailures++
		}
		if !rec.Routes.OK() {
			summary.RoutesFailures++
		}
		if rec.Directions.OK() && rec.Routes.OK() {
			summary.BothSucceeded++
		}

		if rec.DistanceDiffM != nil {
			distance = append(distance, *rec.DistanceDiffM)
		}
		if rec.DurationDiffS != nil {
			duration = append(duration, *rec.DurationDiffS)
		}
		if rec.RespTimeDiffMs != nil {
			respTime = append(respTime, *rec.RespTimeDiffMs)
		}
	}

	summary.DistanceDiff = fieldStats(distance)
	summary.DurationDiff = fieldStats(duration)
	summary.RespTimeDiff = fieldStats(respTime)
	return summary
}

func fieldStats(values []float64) models.FieldStats {
	stats := models.FieldStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	stats.Mean = sum / float64(len(sorted))
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		stats.Median = sorted[mid]
	} else {
		stats.Median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return stats
}
