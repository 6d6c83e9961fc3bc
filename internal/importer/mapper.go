package importer

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingMandatory = errors.New("neither ref nor customer resolved")
	ErrMissingCustomer  = errors.New("customer is required")
)

// RowMapper turns raw data rows of one sheet into Records. Columns are
// resolved once from the header row.
type RowMapper struct {
	profile *Profile
	columns map[Field][]int
	now     func() time.Time
}

func NewRowMapper(profile *Profile, headers []string, now func() time.Time) *RowMapper {
	if now == nil {
		now = time.Now
	}
	idx := IndexHeaders(headers)

	columns := make(map[Field][]int, len(Fields))
	for _, field := range Fields {
		var cols []int
		seen := map[int]bool{}
		for _, alias := range profile.Preferred[field] {
			if col, ok := idx.Resolve([]string{alias}); ok && !seen[col] {
				cols = append(cols, col)
				seen[col] = true
			}
		}
		if col, ok := idx.Resolve(profile.Aliases[field]); ok && !seen[col] {
			cols = append(cols, col)
		}
		columns[field] = cols
	}

	return &RowMapper{profile: profile, columns: columns, now: now}
}

// Columns reports the resolved columns for a field, preferred first.
func (m *RowMapper) Columns(field Field) []int {
	return m.columns[field]
}

// raw returns the first non-empty cell among the field's columns.
func (m *RowMapper) raw(row []any, field Field) any {
	for _, col := range m.columns[field] {
		if col >= len(row) {
			continue
		}
		if cellString(row[col]) != "" {
			return row[col]
		}
	}
	return nil
}

func (m *RowMapper) text(row []any, field Field) string {
	return cellString(m.raw(row, field))
}

// Map converts a data row. rowNumber is the row's position in the sheet and
// keeps placeholder refs distinct within one import.
func (m *RowMapper) Map(row []any, rowNumber int) (Record, error) {
	ref := m.text(row, FieldRef)

	customer := m.profile.CustomerConstant
	if customer == "" {
		customer = m.text(row, FieldCustomer)
	}

	if ref == "" && customer == "" {
		return Record{}, ErrMissingMandatory
	}
	if m.profile.RequireCustomer && customer == "" {
		return Record{}, ErrMissingCustomer
	}
	if ref == "" {
		ref = fmt.Sprintf("%s-%d-%d", m.profile.RefPrefix, m.now().UnixMilli(), rowNumber)
	}

	rec := Record{
		Ref:      ref,
		Customer: customer,
		Priority: NormalizePriority(m.text(row, FieldPriority)),
	}

	// Warehouse is the more reliable column for the pickup location.
	rec.Warehouse = optional(m.text(row, FieldWarehouse))
	switch {
	case rec.Warehouse != nil:
		rec.Pickup = *rec.Warehouse
	case m.text(row, FieldPickup) != "":
		rec.Pickup = m.text(row, FieldPickup)
	default:
		rec.Pickup = m.profile.DefaultPickup
	}

	rec.Dropoff = m.text(row, FieldDropoff)
	if rec.Dropoff == "" {
		rec.Dropoff = m.profile.DefaultDropoff
	}

	if n, ok := NormalizeQuantity(m.raw(row, FieldPallets)); ok {
		rec.Pallets = &n
	}
	if n, ok := NormalizeQuantity(m.raw(row, FieldOutstandingQty)); ok {
		rec.OutstandingQty = &n
	}
	if eta, ok := NormalizeDate(m.raw(row, FieldEta)); ok {
		rec.Eta = &eta
	}
	rec.Notes = optional(m.text(row, FieldNotes))

	return rec, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
