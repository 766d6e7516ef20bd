package comparator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"route-compare/internal/geo"
	"route-compare/internal/models"
	"route-compare/internal/provider"
)

type ProgressCallback func(current, total int, msg string)
type LoggerCallback func(msg string)

// Comparator runs one input pair against both providers. It depends only on
// the Fetcher contract, so either provider can be swapped or stubbed.
type Comparator struct {
	Directions provider.Fetcher
	Routes     provider.Fetcher
}

func New(directions, routes provider.Fetcher) *Comparator {
	return &Comparator{Directions: directions, Routes: routes}
}

// CompareRow decodes both geohashes, calls both providers and derives the
// absolute differences. A malformed geohash or a provider failure degrades
// the record; it never returns an error.
func (c *Comparator) CompareRow(ctx context.Context, pair models.GeohashPair) models.ComparisonRecord {
	rec := models.ComparisonRecord{Pair: pair}

	customer, err := geo.Decode(pair.CustomerGH)
	if err != nil {
		rec.DecodeErr = err.Error()
		return rec
	}
	restaurant, err := geo.Decode(pair.RestaurantGH)
	if err != nil {
		rec.DecodeErr = err.Error()
		return rec
	}
	rec.Customer = customer
	rec.Restaurant = restaurant
	rec.StraightLineM = models.Float(geo.Haversine(customer, restaurant))

	// The two calls share no state; run them in parallel.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rec.Directions = c.Directions.Fetch(ctx, customer, restaurant)
	}()
	go func() {
		defer wg.Done()
		rec.Routes = c.Routes.Fetch(ctx, customer, restaurant)
	}()
	wg.Wait()

	rec.DistanceDiffM = absDiff(rec.Directions.DistanceMeters, rec.Routes.DistanceMeters)
	rec.DurationDiffS = absDiff(rec.Directions.DurationSeconds, rec.Routes.DurationSeconds)

	if rec.Directions.ResponseTimeMs > 0 && rec.Routes.ResponseTimeMs > 0 {
		rec.RespTimeDiffMs = models.Float(math.Abs(rec.Directions.ResponseTimeMs - rec.Routes.ResponseTimeMs))
		if rec.Directions.ResponseTimeMs < rec.Routes.ResponseTimeMs {
			rec.FasterAPI = "directions"
		} else {
			rec.FasterAPI = "routes"
		}
	}

	return rec
}

// absDiff is nil unless both operands are present.
func absDiff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return models.Float(math.Abs(*a - *b))
}

// RunBatch processes every pair with a bounded worker pool and returns the
// records in input order plus aggregate statistics. Row failures are data;
// the batch always runs to completion.
func RunBatch(
	ctx context.Context,
	c *Comparator,
	pairs []models.GeohashPair,
	workers int,
	onProgress ProgressCallback,
	logger LoggerCallback,
) ([]models.ComparisonRecord, models.BatchSummary) {
	total := len(pairs)
	records := make([]models.ComparisonRecord, total)

	if workers < 1 {
		workers = 1
	}
	if workers > total && total > 0 {
		workers = total
	}

	if logger != nil {
		logger(fmt.Sprintf("Processing %d geohash pairs with %d workers", total, workers))
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	var processed int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				records[idx] = c.CompareRow(ctx, pairs[idx])

				count := atomic.AddInt64(&processed, 1)
				if onProgress != nil {
					onProgress(int(count), total, fmt.Sprintf("Processed pair %d/%d", count, total))
				}
			}
		}()
	}

	for idx := range pairs {
		indexes <- idx
	}
	close(indexes)
	wg.Wait()

	summary := Summarize(records)
	if logger != nil {
		logger(fmt.Sprintf("Batch complete: %d rows, %d with both providers OK", summary.TotalRows, summary.BothSucceeded))
	}
	return records, summary
}
