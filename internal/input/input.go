package input

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"route-compare/internal/models"

	"github.com/xuri/excelize/v2"
)

// InputFormatError is fatal: the file has no recognized geohash pair columns.
type InputFormatError struct {
	Path    string
	Headers []string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("input %s: no recognized geohash columns (found: %s); expected one of CX_GH/RX_GH, customer_geohash/restaurant_geohash, cx_geohash/rx_geohash",
		e.Path, strings.Join(e.Headers, ", "))
}

// Column naming conventions, checked in order. Matching is case-insensitive.
var columnConventions = []struct {
	customer   string
	restaurant string
}{
	{"cx_gh", "rx_gh"},
	{"customer_geohash", "restaurant_geohash"},
	{"cx_geohash", "rx_geohash"},
}

// ReadPairs loads geohash pairs from a CSV or XLSX file. Rows with an empty
// geohash cell are skipped; malformed geohashes are kept for the comparator
// to mark. Index is the 1-based data row number.
func ReadPairs(path string) ([]models.GeohashPair, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &InputFormatError{Path: path}
	}

	cxCol, rxCol, ok := findColumns(rows[0])
	if !ok {
		return nil, &InputFormatError{Path: path, Headers: rows[0]}
	}

	var pairs []models.GeohashPair
	for i, row := range rows[1:] {
		cx := cellAt(row, cxCol)
		rx := cellAt(row, rxCol)
		if cx == "" || rx == "" {
			continue
		}
		pairs = append(pairs, models.GeohashPair{
			Index:        i + 1,
			CustomerGH:   cx,
			RestaurantGH: rx,
		})
	}
	return pairs, nil
}

func findColumns(header []string) (cxCol, rxCol int, ok bool) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, conv := range columnConventions {
		cx, rx := -1, -1
		for i, h := range normalized {
			switch h {
			case conv.customer:
				cx = i
			case conv.restaurant:
				rx = i
			}
		}
		if cx >= 0 && rx >= 0 {
			return cx, rx, true
		}
	}
	return 0, 0, false
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return readExcelRows(path)
	default:
		return readCSVRows(path)
	}
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open %s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are tolerated, cells default empty
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
