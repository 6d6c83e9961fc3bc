package importer

import (
	"sort"
	"strings"
)

// PreviewQuery narrows and orders uncommitted records. Empty values
// (or "all") leave a criterion unset.
type PreviewQuery struct {
	Search    string
	Warehouse string
	Priority  string
	SortField Field
	Desc      bool
}

// ApplyPreview filters then sorts; the input is left untouched.
func ApplyPreview(records []Record, q PreviewQuery) []Record {
	return SortRecords(FilterRecords(records, q), q.SortField, q.Desc)
}

func FilterRecords(records []Record, q PreviewQuery) []Record {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	warehouse := unsetAll(q.Warehouse)
	priority := unsetAll(q.Priority)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if search != "" {
			text := strings.ToLower(strings.Join([]string{
				rec.Ref, rec.Customer, deref(rec.Warehouse), rec.Dropoff, deref(rec.Notes),
			}, " "))
			if !strings.Contains(text, search) {
				continue
			}
		}
		if warehouse != "" && deref(rec.Warehouse) != warehouse {
			continue
		}
		if priority != "" && string(rec.Priority) != priority {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// SortRecords orders by one field. Records without a value for the field go
// last in both directions.
func SortRecords(records []Record, field Field, desc bool) []Record {
	out := append([]Record(nil), records...)
	if field == "" {
		return out
	}
	compare := NewStringCompare()

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := sortValue(out[i], field)
		b, bok := sortValue(out[j], field)
		switch {
		case !aok && !bok:
			return false
		case !aok:
			return false
		case !bok:
			return true
		}

		var c int
		if a.numeric && b.numeric {
			c = a.n - b.n
		} else {
			c = compare(a.s, b.s)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

type sortKey struct {
	s       string
	n       int
	numeric bool
}

func sortValue(rec Record, field Field) (sortKey, bool) {
	str := func(s string) (sortKey, bool) { return sortKey{s: s}, true }
	ptr := func(s *string) (sortKey, bool) {
		if s == nil {
			return sortKey{}, false
		}
		return sortKey{s: *s}, true
	}
	num := func(n *int) (sortKey, bool) {
		if n == nil {
			return sortKey{}, false
		}
		return sortKey{n: *n, numeric: true}, true
	}

	switch field {
	case FieldRef:
		return str(rec.Ref)
	case FieldCustomer:
		return str(rec.Customer)
	case FieldPickup:
		return str(rec.Pickup)
	case FieldDropoff:
		return str(rec.Dropoff)
	case FieldPriority:
		return str(string(rec.Priority))
	case FieldWarehouse:
		return ptr(rec.Warehouse)
	case FieldEta:
		return ptr(rec.Eta)
	case FieldNotes:
		return ptr(rec.Notes)
	case FieldPallets:
		return num(rec.Pallets)
	case FieldOutstandingQty:
		return num(rec.OutstandingQty)
	default:
		return sortKey{}, false
	}
}

// Warehouses lists the distinct warehouses in the records, sorted.
func Warehouses(records []Record) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, rec := range records {
		if w := deref(rec.Warehouse); w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

// ParseSortField accepts a record field name in any case.
func ParseSortField(s string) (Field, bool) {
	for _, f := range Fields {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}

func unsetAll(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
