package query

import (
	"fmt"
	"sort"
	"strings"

	"dispatch-app/backend/internal/importer"
	gormModels "dispatch-app/backend/internal/models/gorm"
)

type SortField string

const (
	SortRef            SortField = "ref"
	SortCustomer       SortField = "customer"
	SortPickup         SortField = "pickup"
	SortDropoff        SortField = "dropoff"
	SortWarehouse      SortField = "warehouse"
	SortPriority       SortField = "priority"
	SortStatus         SortField = "status"
	SortEta            SortField = "eta"
	SortCreatedAt      SortField = "createdAt"
	SortPallets        SortField = "pallets"
	SortOutstandingQty SortField = "outstandingQty"
)

var sortFields = []SortField{
	SortRef, SortCustomer, SortPickup, SortDropoff, SortWarehouse, SortPriority,
	SortStatus, SortEta, SortCreatedAt, SortPallets, SortOutstandingQty,
}

// Rank maps used for ordering. Higher ranks sort later ascending.
var (
	priorityRank = map[gormModels.JobPriority]int{
		gormModels.PriorityUrgent: 4,
		gormModels.PriorityHigh:   3,
		gormModels.PriorityNormal: 2,
		gormModels.PriorityLow:    1,
	}
	statusRank = map[gormModels.JobStatus]int{
		gormModels.JobStatusException: 6,
		gormModels.JobStatusPending:   5,
		gormModels.JobStatusAssigned:  4,
		gormModels.JobStatusEnRoute:   3,
		gormModels.JobStatusDelivered: 2,
		gormModels.JobStatusCancelled: 1,
	}
)

type JobSort struct {
	Field SortField
	Desc  bool
}

// DefaultJobSort lists the newest jobs first.
var DefaultJobSort = JobSort{Field: SortCreatedAt, Desc: true}

func ParseSortField(s string) (SortField, error) {
	for _, f := range sortFields {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// SortJobs returns a sorted copy. Ties keep their input order. Jobs with no
// value for an optional field sort last in either direction.
func SortJobs(jobs []gormModels.Job, s JobSort) []gormModels.Job {
	out := append([]gormModels.Job(nil), jobs...)
	if s.Field == "" {
		return out
	}
	compare := importer.NewStringCompare()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]

		switch s.Field {
		case SortPriority:
			return ordered(priorityRank[a.Priority]-priorityRank[b.Priority], s.Desc)
		case SortStatus:
			return ordered(statusRank[a.Status]-statusRank[b.Status], s.Desc)
		case SortCreatedAt:
			return ordered(a.CreatedAt.Compare(b.CreatedAt), s.Desc)
		case SortRef:
			return ordered(compare(a.Ref, b.Ref), s.Desc)
		case SortCustomer:
			return ordered(compare(a.Customer, b.Customer), s.Desc)
		case SortPickup:
			return ordered(compare(a.Pickup, b.Pickup), s.Desc)
		case SortDropoff:
			return ordered(compare(a.Dropoff, b.Dropoff), s.Desc)
		case SortWarehouse:
			return optionalLess(a.Warehouse, b.Warehouse, s.Desc, func(x, y *string) int { return compare(*x, *y) })
		case SortEta:
			// ISO dates order correctly as plain strings
			return optionalLess(a.Eta, b.Eta, s.Desc, func(x, y *string) int { return strings.Compare(*x, *y) })
		case SortPallets:
			return optionalLess(a.Pallets, b.Pallets, s.Desc, func(x, y *int) int { return *x - *y })
		case SortOutstandingQty:
			return optionalLess(a.OutstandingQty, b.OutstandingQty, s.Desc, func(x, y *int) int { return *x - *y })
		default:
			return false
		}
	})
	return out
}

func ordered(c int, desc bool) bool {
	if desc {
		return c > 0
	}
	return c < 0
}

func optionalLess[T any](a, b *T, desc bool, cmp func(x, y *T) int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return ordered(cmp(a, b), desc)
	}
}
