// Package importer reads accessory lists from CSV and Excel files and wall
// footprints from DXF floor plans. Delimiters and header names are detected
// automatically; row problems are collected instead of aborting the import.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/xuri/excelize/v2"
)

// AccessoryRow is one accessory to place: its catalog type, the wall it
// goes on, and where along that wall.
type AccessoryRow struct {
	Type         string
	Wall         string  // wall label or ID
	Offset       float64 // along-wall position of the centre, cm from the wall centre
	Elevation    float64 // bottom edge above the wall base, cm
	HasElevation bool
	Length       float64 // linear accessories: requested length, cm; 0 = catalog default
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rows     []AccessoryRow
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Type      int
	Wall      int
	Offset    int
	Elevation int
	Length    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"type":      {"type", "accessory", "object", "item", "kind"},
	"wall":      {"wall", "wall label", "side", "surface"},
	"offset":    {"offset", "position", "pos", "u", "along"},
	"elevation": {"elevation", "elev", "sill", "y", "height above floor"},
	"length":    {"length", "len", "size", "run"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against the known aliases. Returns the
// mapping and true if a header was detected, or the positional mapping
// (type, wall, offset, elevation, length) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Type: -1, Wall: -1, Offset: -1, Elevation: -1, Length: -1}
	slots := map[string]*int{
		"type":      &mapping.Type,
		"wall":      &mapping.Wall,
		"offset":    &mapping.Offset,
		"elevation": &mapping.Elevation,
		"length":    &mapping.Length,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Type: 0, Wall: 1, Offset: 2, Elevation: 3, Length: 4}, false
	}
	return mapping, true
}

var feetInches = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*(?:'|ft)\s*(?:(\d+(?:\.\d+)?)\s*(?:"|in)?)?$`)

// ParseLength accepts centimetres ("152.4", "152.4cm"), inches ("60in",
// `60"`), feet ("5ft", "5'") and feet-inches (`5' 3"`). The result is in
// centimetres.
func ParseLength(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}
	if m := feetInches.FindStringSubmatch(s); m != nil {
		ft, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		var in float64
		if m[2] != "" {
			if in, err = strconv.ParseFloat(m[2], 64); err != nil {
				return 0, err
			}
		}
		if ft < 0 {
			in = -in
		}
		return geom.FeetToCM(ft) + geom.InchesToCM(in), nil
	}
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "cm"):
		s = strings.TrimSuffix(s, "cm")
	case strings.HasSuffix(s, "mm"):
		s = strings.TrimSuffix(s, "mm")
		scale = 0.1
	case strings.HasSuffix(s, "in"):
		s = strings.TrimSuffix(s, "in")
		scale = geom.CMPerInch
	case strings.HasSuffix(s, `"`):
		s = strings.TrimSuffix(s, `"`)
		scale = geom.CMPerInch
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v * scale, nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts an AccessoryRow using the given column mapping.
// Returns the row, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (AccessoryRow, string, string) {
	typ := strings.ToLower(getCell(row, mapping.Type))
	if typ == "" {
		return AccessoryRow{}, fmt.Sprintf("%s: Missing accessory type", rowLabel), ""
	}
	wall := getCell(row, mapping.Wall)
	if wall == "" {
		return AccessoryRow{}, fmt.Sprintf("%s: Missing wall", rowLabel), ""
	}

	offsetStr := getCell(row, mapping.Offset)
	if offsetStr == "" {
		return AccessoryRow{}, fmt.Sprintf("%s: Missing offset value", rowLabel), ""
	}
	offset, err := ParseLength(offsetStr)
	if err != nil {
		return AccessoryRow{}, fmt.Sprintf("%s: Invalid offset '%s'", rowLabel, offsetStr), ""
	}

	out := AccessoryRow{Type: typ, Wall: wall, Offset: offset}

	var warning string
	if s := getCell(row, mapping.Elevation); s != "" {
		if v, err := ParseLength(s); err == nil && v >= 0 {
			out.Elevation = v
			out.HasElevation = true
		} else {
			warning = fmt.Sprintf("%s: Invalid elevation '%s', using catalog default", rowLabel, s)
		}
	}
	if s := getCell(row, mapping.Length); s != "" {
		if v, err := ParseLength(s); err == nil && v > 0 {
			out.Length = v
		} else {
			warning = fmt.Sprintf("%s: Invalid length '%s', using catalog default", rowLabel, s)
		}
	}
	return out, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports accessories from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports accessories from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports accessories from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// Import dispatches on the file extension.
func Import(path string) ImportResult {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Type == -1 {
			missing = append(missing, "Type")
		}
		if mapping.Wall == -1 {
			missing = append(missing, "Wall")
		}
		if mapping.Offset == -1 {
			missing = append(missing, "Offset")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognised header still has a non-numeric offset column.
		if _, err := ParseLength(rows[0][2]); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		acc, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Rows = append(result.Rows, acc)
	}

	return result
}
