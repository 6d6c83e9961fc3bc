package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/importer"
	gormModels "dispatch-app/backend/internal/models/gorm"
	"dispatch-app/backend/internal/query"
	"dispatch-app/backend/internal/services"
)

var weekPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

// parseJobFilter reads status, priority, driverId, warehouse, week, q and
// workflow. "all" leaves a criterion unset.
func parseJobFilter(r *http.Request) (query.JobFilter, error) {
	q := r.URL.Query()
	fields := map[string]string{}
	var f query.JobFilter

	for _, s := range common.SplitList(q.Get("status")) {
		status := gormModels.JobStatus(strings.ToLower(s))
		if !status.Valid() {
			fields["status"] = fmt.Sprintf("unknown status %q", s)
			continue
		}
		f.Statuses = append(f.Statuses, status)
	}
	for _, p := range common.SplitList(q.Get("priority")) {
		priority := gormModels.JobPriority(strings.ToLower(p))
		if !priority.Valid() {
			fields["priority"] = fmt.Sprintf("unknown priority %q", p)
			continue
		}
		f.Priorities = append(f.Priorities, priority)
	}

	f.DriverID = unlessAll(q.Get("driverId"))
	f.Warehouse = unlessAll(q.Get("warehouse"))
	f.Search = strings.TrimSpace(q.Get("q"))

	if week := unlessAll(q.Get("week")); week != "" {
		if !weekPattern.MatchString(week) {
			fields["week"] = "week must look like 2025-W41"
		}
		f.Week = week
	}
	if wf := unlessAll(q.Get("workflow")); wf != "" {
		f.Workflow = query.WorkflowState(strings.ToLower(wf))
		if !f.Workflow.Valid() {
			fields["workflow"] = "workflow must be one of ready, in-progress, not-started"
		}
	}

	if len(fields) > 0 {
		return query.JobFilter{}, &services.ValidationError{Fields: fields}
	}
	return f, nil
}

// parseJobSort defaults to newest first. A sort field without dir is ascending.
func parseJobSort(r *http.Request) (query.JobSort, error) {
	field := strings.TrimSpace(r.URL.Query().Get("sort"))
	dir := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("dir")))
	if dir != "" && dir != "asc" && dir != "desc" {
		return query.JobSort{}, &services.ValidationError{Fields: map[string]string{"dir": "dir must be asc or desc"}}
	}
	if field == "" {
		if dir == "" {
			return query.DefaultJobSort, nil
		}
		return query.JobSort{Field: query.SortCreatedAt, Desc: dir == "desc"}, nil
	}

	f, err := query.ParseSortField(field)
	if err != nil {
		return query.JobSort{}, &services.ValidationError{Fields: map[string]string{"sort": err.Error()}}
	}
	return query.JobSort{Field: f, Desc: dir == "desc"}, nil
}

func unlessAll(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// parsePreviewQuery reads q, warehouse, priority, sort and dir for an import
// preview.
func parsePreviewQuery(r *http.Request) (importer.PreviewQuery, error) {
	q := r.URL.Query()
	pq := importer.PreviewQuery{
		Search:    strings.TrimSpace(q.Get("q")),
		Warehouse: unlessAll(q.Get("warehouse")),
		Priority:  unlessAll(q.Get("priority")),
		Desc:      strings.EqualFold(q.Get("dir"), "desc"),
	}
	if s := strings.TrimSpace(q.Get("sort")); s != "" {
		f, ok := importer.ParseSortField(s)
		if !ok {
			return importer.PreviewQuery{}, &services.ValidationError{Fields: map[string]string{"sort": fmt.Sprintf("cannot sort by %q", s)}}
		}
		pq.SortField = f
	}
	return pq, nil
}
