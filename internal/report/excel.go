package report

import (
	"math"
	"strconv"

	"route-compare/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetFullData = "Full_Data"
	sheetStats    = "Statistics"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteWorkbook writes the three-sheet workbook: Summary (batch totals),
// Full_Data (the same flat table as the CSV) and Statistics (per-diff-field
// aggregates).
func WriteWorkbook(path string, records []models.ComparisonRecord, summary models.BatchSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, summary); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := writeFullDataSheet(f, records); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := writeStatsSheet(f, summary); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	// The workbook starts with a default Sheet1 we never use.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary models.BatchSummary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Field", "Value"},
		{"total_rows", summary.TotalRows},
		{"both_providers_ok", summary.BothSucceeded},
		{"decode_failures", summary.DecodeFailures},
		{"directions_failures", summary.DirectionsFailures},
		{"routes_failures", summary.RoutesFailures},
		{"distance_diff_mean_m", round2(summary.DistanceDiff.Mean)},
		{"distance_diff_median_m", round2(summary.DistanceDiff.Median)},
		{"distance_diff_max_m", round2(summary.DistanceDiff.Max)},
		{"duration_diff_mean_s", round2(summary.DurationDiff.Mean)},
		{"duration_diff_median_s", round2(summary.DurationDiff.Median)},
		{"duration_diff_max_s", round2(summary.DurationDiff.Max)},
		{"response_time_diff_mean_ms", round2(summary.RespTimeDiff.Mean)},
		{"response_time_diff_median_ms", round2(summary.RespTimeDiff.Median)},
		{"response_time_diff_max_ms", round2(summary.RespTimeDiff.Max)},
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeFullDataSheet(f *excelize.File, records []models.ComparisonRecord) error {
	if _, err := f.NewSheet(sheetFullData); err != nil {
		return err
	}

	// Stream writer keeps memory flat on large batches.
	sw, err := f.NewStreamWriter(sheetFullData)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, rec := range records {
		flat := Flatten(rec)
		row := make([]interface{}, len(flat))
		for j, cell := range flat {
			row[j] = fullDataCell(j, cell)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// fullDataCell keeps numeric columns numeric in the workbook while leaving
// absent values as empty strings, mirroring the CSV exactly.
func fullDataCell(col int, cell string) interface{} {
	if cell == "" {
		return ""
	}
	switch Header[col] {
	case "pair_index",
		"cx_lat", "cx_lng", "rx_lat", "rx_lng", "straight_line_m",
		"directions_distance_meters", "directions_duration_seconds", "directions_response_time_ms",
		"routes_distance_meters", "routes_duration_seconds", "routes_response_time_ms",
		"distance_diff_meters", "duration_diff_seconds", "response_time_diff_ms":
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
	}
	return cell
}

func writeStatsSheet(f *excelize.File, summary models.BatchSummary) error {
	if _, err := f.NewSheet(sheetStats); err != nil {
		return err
	}

	fields := []struct {
		name  string
		stats models.FieldStats
	}{
		{"distance_diff_meters", summary.DistanceDiff},
		{"duration_diff_seconds", summary.DurationDiff},
		{"response_time_diff_ms", summary.RespTimeDiff},
	}

	rows := [][]interface{}{
		{"Metric", "Count", "Mean", "Median", "Max", "Min"},
	}
	for _, field := range fields {
		rows = append(rows, []interface{}{
			field.name,
			field.stats.Count,
			round2(field.stats.Mean),
			round2(field.stats.Median),
			round2(field.stats.Max),
			round2(field.stats.Min),
		})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetStats, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
