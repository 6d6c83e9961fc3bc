package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/xuri/excelize/v2"
)

type template struct {
	headers []string
	sample  []string
}

var templates = map[gormModels.JobType]template{
	gormModels.JobTypeIBT: {
		headers: []string{"IBT No", "From Branch", "To Branch", "Transfer Date", "Priority", "Pallets", "Outstanding Qty", "Description"},
		sample:  []string{"IBT-0001", "K58 Warehouse", "K63 Warehouse", "2025-10-10", "Normal", "10", "250", "Raw materials"},
	},
	gormModels.JobTypeOrder: {
		headers: []string{"Order No", "Customer", "Warehouse", "Deliver To", "Delivery Date", "Priority", "Pallets", "Outstanding Qty", "Notes"},
		sample:  []string{"SO-10001", "Acme Foods", "K58 Warehouse", "12 Harbour Rd", "2025-10-10", "High", "4", "120", "Call ahead"},
	},
}

// TemplateHeaders returns the header row users should fill in for a job type.
func TemplateHeaders(t gormModels.JobType) ([]string, error) {
	tpl, ok := templates[t]
	if !ok {
		return nil, fmt.Errorf("no template for import type %q", t)
	}
	return append([]string(nil), tpl.headers...), nil
}

// WriteTemplate writes the header row and one sample row.
func WriteTemplate(w io.Writer, t gormModels.JobType, format Format) error {
	tpl, ok := templates[t]
	if !ok {
		return fmt.Errorf("no template for import type %q", t)
	}
	rows := [][]string{tpl.headers, tpl.sample}

	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, string(t)+" import", rows)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes rows into a single-sheet workbook.
func WriteXLSX(w io.Writer, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
