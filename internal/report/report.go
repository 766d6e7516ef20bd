// Package report flattens comparison records into a fixed column order and
// writes them as CSV and as a multi-sheet workbook.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"route-compare/internal/models"
)

// WriteError is fatal: the output files are the program's entire purpose.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Header is the deterministic column order: pair identity first, then
// directions fields, then routes fields, then the derived diffs.
var Header = []string{
	"pair_index",
	"cx_geohash",
	"rx_geohash",
	"cx_lat",
	"cx_lng",
	"rx_lat",
	"rx_lng",
	"straight_line_m",
	"decode_error",
	"directions_status",
	"directions_distance_meters",
	"directions_distance_text",
	"directions_duration_seconds",
	"directions_duration_text",
	"directions_start_address",
	"directions_end_address",
	"directions_polyline",
	"directions_response_time_ms",
	"routes_status",
	"routes_distance_meters",
	"routes_distance_text",
	"routes_duration_seconds",
	"routes_duration_text",
	"routes_start_address",
	"routes_end_address",
	"routes_polyline",
	"routes_response_time_ms",
	"distance_diff_meters",
	"duration_diff_seconds",
	"response_time_diff_ms",
	"faster_api",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func providerCells(r models.ProviderResult, called bool) []string {
	respTime := ""
	if called {
		respTime = formatFloat(r.ResponseTimeMs)
	}
	return []string{
		r.Status,
		optional(r.DistanceMeters),
		r.DistanceText,
		optional(r.DurationSeconds),
		r.DurationText,
		r.StartAddress,
		r.EndAddress,
		r.Polyline,
		respTime,
	}
}

// Flatten converts one record to a CSV row matching Header. Coordinates are
// blank on decode-failure rows rather than reported as 0,0.
func Flatten(rec models.ComparisonRecord) []string {
	row := []string{
		strconv.Itoa(rec.Pair.Index),
		rec.Pair.CustomerGH,
		rec.Pair.RestaurantGH,
	}

	if rec.DecodeErr == "" {
		row = append(row,
			formatFloat(rec.Customer.Lat),
			formatFloat(rec.Customer.Lng),
			formatFloat(rec.Restaurant.Lat),
			formatFloat(rec.Restaurant.Lng),
			optional(rec.StraightLineM),
		)
	} else {
		row = append(row, "", "", "", "", "")
	}
	row = append(row, rec.DecodeErr)

	called := rec.DecodeErr == ""
	row = append(row, providerCells(rec.Directions, called)...)
	row = append(row, providerCells(rec.Routes, called)...)

	row = append(row,
		optional(rec.DistanceDiffM),
		optional(rec.DurationDiffS),
		optional(rec.RespTimeDiffMs),
		rec.FasterAPI,
	)
	return row
}

// WriteCSV writes the flat comparison table.
func WriteCSV(path string, records []models.ComparisonRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	for _, rec := range records {
		if err := w.Write(Flatten(rec)); err != nil {
			f.Close()
			return &WriteError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Write serializes the whole run: the flat CSV and the workbook.
func Write(records []models.ComparisonRecord, summary models.BatchSummary, csvPath, workbookPath string) error {
	if err := WriteCSV(csvPath, records); err != nil {
		return err
	}
	return WriteWorkbook(workbookPath, records, summary)
}
