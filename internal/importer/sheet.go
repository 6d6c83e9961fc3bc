package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dispatch-app/backend/internal/logging"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// DetectFormat picks the format from a file name extension.
func DetectFormat(fileName string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return FormatCSV, true
	case ".xlsx", ".xlsm":
		return FormatXLSX, true
	case ".xls":
		return FormatXLS, true
	default:
		return "", false
	}
}

// ParseFormat accepts a format hint such as "csv", "xlsx" or "spreadsheet".
func ParseFormat(hint string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "csv":
		return FormatCSV, true
	case "xlsx", "excel", "spreadsheet":
		return FormatXLSX, true
	case "xls":
		return FormatXLS, true
	default:
		return "", false
	}
}

// Result is the outcome of parsing one file. Records is empty both when no
// row survived and when the file could not be read; Readable tells them apart.
type Result struct {
	Records  []Record `json:"records"`
	DataRows int      `json:"dataRows"`
	Readable bool     `json:"readable"`
}

func (r Result) Dropped() int {
	return r.DataRows - len(r.Records)
}

// Parser runs the whole pipeline for one import profile.
type Parser struct {
	profile *Profile
	now     func() time.Time
}

func NewParser(profile *Profile, now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{profile: profile, now: now}
}

// Parse reads the file and maps every data row. It never returns an error;
// an unreadable file yields an empty, unreadable Result.
func (p *Parser) Parse(data []byte, format Format) Result {
	rows, err := ReadRows(data, format)
	if err != nil {
		logging.Warn("Import file unreadable",
			"profile", p.profile.Type,
			"format", format,
			"error", err.Error(),
		)
		return Result{Records: []Record{}, Readable: false}
	}
	return p.MapRows(rows)
}

// MapRows treats rows[0] as the header row.
func (p *Parser) MapRows(rows [][]any) Result {
	res := Result{Records: []Record{}, Readable: true}
	if len(rows) == 0 {
		return res
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = cellString(h)
	}
	mapper := NewRowMapper(p.profile, headers, p.now)

	for i := 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		res.DataRows++

		rec, err := mapper.Map(rows[i], i)
		if err != nil {
			logging.Debug("Import row dropped",
				"profile", p.profile.Type,
				"row", i,
				"reason", err.Error(),
			)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	logging.Info("Import file parsed",
		"profile", p.profile.Type,
		"data_rows", res.DataRows,
		"records", len(res.Records),
		"dropped", res.Dropped(),
	)
	return res
}

func blankRow(row []any) bool {
	for _, c := range row {
		if cellString(c) != "" {
			return false
		}
	}
	return true
}

// ReadRows parses a file into a 2-D array of raw cells. CSV cells are
// strings; spreadsheet cells are float64 for numbers (including date serials),
// time.Time for ISO date cells, and strings otherwise.
func ReadRows(data []byte, format Format) ([][]any, error) {
	switch format {
	case FormatCSV:
		return readCSV(bytes.NewReader(data))
	case FormatXLSX:
		return readXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func readCSV(r io.Reader) ([][]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, cell := range rec {
			if i == 0 && j == 0 {
				cell = strings.TrimPrefix(cell, "\ufeff")
			}
			row[j] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return [][]any{}, nil
	}

	// Raw values keep date cells as serials instead of display strings.
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	rows := make([][]any, 0, len(raw))
	for i, rec := range raw {
		row := make([]any, len(rec))
		for j, cell := range rec {
			if i == 0 || strings.TrimSpace(cell) == "" {
				row[j] = cell
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheets[0], axis)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s: %w", axis, err)
			}
			row[j] = spreadsheetCell(cell, cellType)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// spreadsheetCell keeps text cells as text so refs like "0012" survive.
func spreadsheetCell(v string, cellType excelize.CellType) any {
	s := strings.TrimSpace(v)
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return v
}
