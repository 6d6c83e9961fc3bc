package query

import (
	"math"
	"sort"
	"time"

	gormModels "dispatch-app/backend/internal/models/gorm"
)

const unknownWarehouse = "Unknown"

type DriverMetrics struct {
	DriverID        string                  `json:"driverId"`
	Name            string                  `json:"name"`
	Callsign        string                  `json:"callsign"`
	Status          gormModels.DriverStatus `json:"status"`
	Capacity        int                     `json:"capacity"`
	TotalJobs       int                     `json:"totalJobs"`
	CompletedJobs   int                     `json:"completedJobs"`
	InProgress      int                     `json:"inProgress"`
	PalletsLoaded   int                     `json:"palletsLoaded"`
	OutstandingQty  int                     `json:"outstandingQty"`
	UtilizationRate int                     `json:"utilizationRate"`
}

// Utilization is palletsLoaded as a rounded percentage of capacity, 0 when
// the driver has no capacity.
func Utilization(palletsLoaded, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(palletsLoaded) / float64(capacity) * 100))
}

// PerDriverMetrics aggregates jobs per driver, in driver order. Drivers
// without jobs are left out; jobs naming an unknown driver are ignored.
func PerDriverMetrics(drivers []gormModels.Driver, jobs []gormModels.Job) []DriverMetrics {
	index := make(map[string]*DriverMetrics, len(drivers))
	all := make([]*DriverMetrics, 0, len(drivers))
	for _, d := range drivers {
		m := &DriverMetrics{DriverID: d.ID, Name: d.Name, Callsign: d.Callsign, Status: d.Status, Capacity: d.Capacity}
		index[d.ID] = m
		all = append(all, m)
	}

	for i := range jobs {
		job := &jobs[i]
		m, ok := index[job.DriverRef()]
		if !ok {
			continue
		}
		m.TotalJobs++
		switch job.Status {
		case gormModels.JobStatusDelivered:
			m.CompletedJobs++
		case gormModels.JobStatusAssigned, gormModels.JobStatusEnRoute:
			m.InProgress++
		}
		if job.Pallets != nil {
			m.PalletsLoaded += *job.Pallets
		}
		if job.OutstandingQty != nil {
			m.OutstandingQty += *job.OutstandingQty
		}
	}

	out := make([]DriverMetrics, 0, len(all))
	for _, m := range all {
		if m.TotalJobs == 0 {
			continue
		}
		m.UtilizationRate = Utilization(m.PalletsLoaded, m.Capacity)
		out = append(out, *m)
	}
	return out
}

type FleetKPIs struct {
	TotalJobs          int `json:"totalJobs"`
	DeliveredJobs      int `json:"deliveredJobs"`
	DeliveryRate       int `json:"deliveryRate"`
	ExceptionsCount    int `json:"exceptionsCount"`
	ExceptionRate      int `json:"exceptionRate"`
	ActiveTransporters int `json:"activeTransporters"`
}

// KPIs computes fleet-wide rates. Rates are rounded percentages, 0 with no jobs.
func KPIs(drivers []gormModels.Driver, jobs []gormModels.Job) FleetKPIs {
	k := FleetKPIs{TotalJobs: len(jobs)}
	for i := range jobs {
		switch jobs[i].Status {
		case gormModels.JobStatusDelivered:
			k.DeliveredJobs++
		case gormModels.JobStatusException:
			k.ExceptionsCount++
		}
	}
	k.DeliveryRate = percent(k.DeliveredJobs, k.TotalJobs)
	k.ExceptionRate = percent(k.ExceptionsCount, k.TotalJobs)

	for _, d := range drivers {
		if d.Status != gormModels.DriverOffline {
			k.ActiveTransporters++
		}
	}
	return k
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// Count is one bucket of a distribution.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// StatusBreakdown counts jobs per status in lifecycle order, omitting empty statuses.
func StatusBreakdown(jobs []gormModels.Job) []Count {
	counts := map[gormModels.JobStatus]int{}
	for i := range jobs {
		counts[jobs[i].Status]++
	}
	out := []Count{}
	for _, s := range gormModels.JobStatuses {
		if counts[s] > 0 {
			out = append(out, Count{Key: string(s), Count: counts[s]})
		}
	}
	return out
}

// PriorityDistribution counts jobs per priority, urgent first, omitting empty ones.
func PriorityDistribution(jobs []gormModels.Job) []Count {
	counts := map[gormModels.JobPriority]int{}
	for i := range jobs {
		counts[jobs[i].Priority]++
	}
	out := []Count{}
	for _, p := range gormModels.JobPriorities {
		if counts[p] > 0 {
			out = append(out, Count{Key: string(p), Count: counts[p]})
		}
	}
	return out
}

// WarehouseDistribution counts jobs per warehouse; jobs without one count
// under "Unknown". Buckets are sorted by name.
func WarehouseDistribution(jobs []gormModels.Job) []Count {
	counts := map[string]int{}
	for i := range jobs {
		w := jobs[i].WarehouseName()
		if w == "" {
			w = unknownWarehouse
		}
		counts[w]++
	}
	out := make([]Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

type QuantityAnalysis struct {
	TotalPallets     int `json:"totalPallets"`
	DeliveredPallets int `json:"deliveredPallets"`
	PendingPallets   int `json:"pendingPallets"`
	TotalOutstanding int `json:"totalOutstanding"`
}

// Quantities sums pallets by progress. Pending covers jobs not yet on the road.
func Quantities(jobs []gormModels.Job) QuantityAnalysis {
	var q QuantityAnalysis
	for i := range jobs {
		job := &jobs[i]
		if job.Pallets != nil {
			q.TotalPallets += *job.Pallets
			switch job.Status {
			case gormModels.JobStatusDelivered:
				q.DeliveredPallets += *job.Pallets
			case gormModels.JobStatusPending, gormModels.JobStatusAssigned:
				q.PendingPallets += *job.Pallets
			}
		}
		if job.OutstandingQty != nil {
			q.TotalOutstanding += *job.OutstandingQty
		}
	}
	return q
}

type TimelinePoint struct {
	Date      string `json:"date"`
	Created   int    `json:"created"`
	Delivered int    `json:"delivered"`
}

// Timeline counts jobs created and delivered per UTC day, sorted by date.
func Timeline(jobs []gormModels.Job) []TimelinePoint {
	points := map[string]*TimelinePoint{}
	at := func(day string) *TimelinePoint {
		p, ok := points[day]
		if !ok {
			p = &TimelinePoint{Date: day}
			points[day] = p
		}
		return p
	}

	for i := range jobs {
		job := &jobs[i]
		at(dayKey(job.CreatedAt)).Created++
		if job.Status == gormModels.JobStatusDelivered && job.ActualDeliveryAt != nil {
			at(dayKey(*job.ActualDeliveryAt)).Delivered++
		}
	}

	out := make([]TimelinePoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Warehouses lists distinct non-empty warehouses, sorted.
func Warehouses(jobs []gormModels.Job) []string {
	seen := map[string]bool{}
	out := []string{}
	for i := range jobs {
		if w := jobs[i].WarehouseName(); w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

// EtaWeeks lists distinct ETA week buckets, most recent first.
func EtaWeeks(jobs []gormModels.Job) []string {
	seen := map[string]bool{}
	out := []string{}
	for i := range jobs {
		if w, ok := EtaWeek(&jobs[i]); ok && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
