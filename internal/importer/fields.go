package importer

import (
	"strings"

	gormModels "dispatch-app/backend/internal/models/gorm"
)

// Field is a logical import column.
type Field string

const (
	FieldRef            Field = "ref"
	FieldCustomer       Field = "customer"
	FieldPickup         Field = "pickup"
	FieldDropoff        Field = "dropoff"
	FieldWarehouse      Field = "warehouse"
	FieldPriority       Field = "priority"
	FieldPallets        Field = "pallets"
	FieldOutstandingQty Field = "outstandingQty"
	FieldEta            Field = "eta"
	FieldNotes          Field = "notes"
)

// Fields is the resolution order used by the row mapper.
var Fields = []Field{
	FieldRef, FieldCustomer, FieldPickup, FieldDropoff, FieldWarehouse,
	FieldPriority, FieldPallets, FieldOutstandingQty, FieldEta, FieldNotes,
}

// Record is one parsed, not yet committed import row.
type Record struct {
	Ref            string                 `json:"ref"`
	Customer       string                 `json:"customer"`
	Pickup         string                 `json:"pickup"`
	Dropoff        string                 `json:"dropoff"`
	Warehouse      *string                `json:"warehouse,omitempty"`
	Priority       gormModels.JobPriority `json:"priority"`
	Pallets        *int                   `json:"pallets,omitempty"`
	OutstandingQty *int                   `json:"outstandingQty,omitempty"`
	Eta            *string                `json:"eta,omitempty"`
	Notes          *string                `json:"notes,omitempty"`
}

// HeaderIndex maps a normalized header name to its zero-based column.
type HeaderIndex map[string]int

// IndexHeaders builds the lookup for one sheet's header row. When two headers
// normalize to the same key the later column wins.
func IndexHeaders(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

// Resolve returns the column of the first alias present in the index.
// Alias order is priority order.
func (idx HeaderIndex) Resolve(aliases []string) (int, bool) {
	for _, a := range aliases {
		if col, ok := idx[normalizeHeader(a)]; ok {
			return col, true
		}
	}
	return 0, false
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
