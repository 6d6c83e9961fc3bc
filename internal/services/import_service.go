package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/constants"
	"dispatch-app/backend/internal/importer"
	"dispatch-app/backend/internal/logging"
	"dispatch-app/backend/internal/metrics"
	"dispatch-app/backend/internal/models/dtos"
	gormModels "dispatch-app/backend/internal/models/gorm"
)

const previewCachePattern = "import_preview"

// ImportUpload is one uploaded spreadsheet. Format may be empty, in which
// case it is taken from the file name.
type ImportUpload struct {
	Type     string
	FileName string
	Format   string
	Data     []byte
}

// storedPreview is what the cache holds between upload and commit.
type storedPreview struct {
	ID         string             `json:"id"`
	Type       gormModels.JobType `json:"type"`
	FileName   string             `json:"fileName"`
	DataRows   int                `json:"dataRows"`
	Readable   bool               `json:"readable"`
	Records    []importer.Record  `json:"records"`
	UploadedAt time.Time          `json:"uploadedAt"`
}

// ImportService parses uploads into previews and commits them as jobs.
type ImportService struct {
	profiles importer.Profiles
	cache    common.CacheInterface
	jobs     *JobService
	clock    common.Clock
	ids      common.IDGenerator
	ttl      time.Duration
	metrics  *metrics.MetricsRegistry
}

func NewImportService(
	profiles importer.Profiles,
	cache common.CacheInterface,
	jobs *JobService,
	clock common.Clock,
	ids common.IDGenerator,
	ttl time.Duration,
	reg *metrics.MetricsRegistry,
) *ImportService {
	return &ImportService{
		profiles: profiles,
		cache:    cache,
		jobs:     jobs,
		clock:    clock,
		ids:      ids,
		ttl:      ttl,
		metrics:  reg,
	}
}

// Upload parses the file and stores the result as a preview. An unreadable
// file still produces a preview, empty and marked unreadable.
func (s *ImportService) Upload(ctx context.Context, u ImportUpload) (*dtos.ImportPreviewResponse, error) {
	profile, err := s.profiles.Get(u.Type)
	if err != nil {
		return nil, invalid("type", err.Error())
	}
	format, err := resolveFormat(u.Format, u.FileName)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result := importer.NewParser(profile, s.clock.Now).Parse(u.Data, format)
	s.observeParse(profile.Type, format, result, time.Since(started))

	p := storedPreview{
		ID:         s.ids.NewID(),
		Type:       profile.Type,
		FileName:   u.FileName,
		DataRows:   result.DataRows,
		Readable:   result.Readable,
		Records:    result.Records,
		UploadedAt: s.clock.Now(),
	}
	if err := s.cache.Set(ctx, previewKey(p.ID), p, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store import preview: %w", err)
	}

	logging.Info("Import preview stored",
		"preview_id", p.ID,
		"profile", p.Type,
		"file", u.FileName,
		"readable", p.Readable,
		"records", len(p.Records),
	)
	return previewResponse(&p, p.Records), nil
}

// Get returns the stored preview with the query applied to its records.
func (s *ImportService) Get(ctx context.Context, id string, q importer.PreviewQuery) (*dtos.ImportPreviewResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return previewResponse(p, importer.ApplyPreview(p.Records, q)), nil
}

// Commit creates one pending job per record in a single batch, then drops
// the preview. On failure nothing is created and the preview is kept.
// Commit claims the preview before writing, so a second commit of the same
// preview finds nothing. A failed write puts the preview back.
func (s *ImportService) Commit(ctx context.Context, id string) (*dtos.ImportCommitResponse, error) {
	p, err := s.claim(ctx, id)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobs.CreateFromRecords(ctx, p.Type, p.Records)
	if err != nil {
		s.countCommit(p.Type, "failed")
		s.restore(ctx, p)
		return nil, fmt.Errorf("failed to import preview %s: %w", id, err)
	}
	s.countCommit(p.Type, "committed")

	ids := make([]string, len(jobs))
	for i := range jobs {
		ids[i] = jobs[i].ID
	}
	logging.Info("Import committed", "preview_id", id, "profile", p.Type, "jobs", len(jobs))
	return &dtos.ImportCommitResponse{ID: id, Imported: len(jobs), JobIDs: ids}, nil
}

func (s *ImportService) Discard(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, previewKey(id)); err != nil {
		return fmt.Errorf("failed to discard import preview: %w", err)
	}
	logging.Info("Import preview discarded", "preview_id", id)
	return nil
}

// Template writes the header row and a sample row for an import type. The
// format defaults to csv.
func (s *ImportService) Template(w io.Writer, typeName, formatHint string) error {
	t, format, err := s.TemplateFormat(typeName, formatHint)
	if err != nil {
		return err
	}
	return importer.WriteTemplate(w, t, format)
}

// TemplateFormat resolves the job type and output format of a template
// request without writing anything.
func (s *ImportService) TemplateFormat(typeName, formatHint string) (gormModels.JobType, importer.Format, error) {
	profile, err := s.profiles.Get(typeName)
	if err != nil {
		return "", "", invalid("type", err.Error())
	}
	format := importer.FormatCSV
	if formatHint != "" {
		f, ok := importer.ParseFormat(formatHint)
		if !ok || f == importer.FormatXLS {
			return "", "", invalid("format", fmt.Sprintf("unsupported template format %q", formatHint))
		}
		format = f
	}
	return profile.Type, format, nil
}

func (s *ImportService) load(ctx context.Context, id string) (*storedPreview, error) {
	var p storedPreview
	found, err := s.cache.Get(ctx, previewKey(id), &p)
	if err != nil {
		return nil, fmt.Errorf("failed to load import preview: %w", err)
	}
	return s.found(&p, found)
}

// claim removes the preview from the cache and returns it.
func (s *ImportService) claim(ctx context.Context, id string) (*storedPreview, error) {
	var p storedPreview
	found, err := s.cache.Take(ctx, previewKey(id), &p)
	if err != nil {
		return nil, fmt.Errorf("failed to claim import preview: %w", err)
	}
	return s.found(&p, found)
}

func (s *ImportService) found(p *storedPreview, found bool) (*storedPreview, error) {
	if s.metrics != nil {
		if found {
			s.metrics.CacheHitsTotal.WithLabelValues(previewCachePattern).Inc()
		} else {
			s.metrics.CacheMissesTotal.WithLabelValues(previewCachePattern).Inc()
		}
	}
	if !found {
		return nil, ErrPreviewNotFound
	}
	return p, nil
}

// restore puts a claimed preview back for whatever is left of its lifetime.
func (s *ImportService) restore(ctx context.Context, p *storedPreview) {
	left := p.UploadedAt.Add(s.ttl).Sub(s.clock.Now())
	if left <= 0 {
		return
	}
	if err := s.cache.Set(ctx, previewKey(p.ID), p, left); err != nil {
		logging.Warn("Failed to restore import preview", "preview_id", p.ID, "error", err.Error())
	}
}

func (s *ImportService) observeParse(t gormModels.JobType, format importer.Format, result importer.Result, took time.Duration) {
	if s.metrics == nil {
		return
	}
	profile := string(t)
	s.metrics.ImportParseSeconds.WithLabelValues(profile, string(format)).Observe(took.Seconds())
	s.metrics.ImportFilesTotal.WithLabelValues(profile, strconv.FormatBool(result.Readable)).Inc()
	s.metrics.ImportRowsTotal.WithLabelValues(profile, "imported").Add(float64(len(result.Records)))
	s.metrics.ImportRowsTotal.WithLabelValues(profile, "dropped").Add(float64(result.Dropped()))
}

func (s *ImportService) countCommit(t gormModels.JobType, result string) {
	if s.metrics != nil {
		s.metrics.ImportCommitsTotal.WithLabelValues(string(t), result).Inc()
	}
}

// resolveFormat prefers an explicit hint over the file extension.
func resolveFormat(hint, fileName string) (importer.Format, error) {
	if hint != "" {
		if f, ok := importer.ParseFormat(hint); ok {
			return f, nil
		}
		return "", invalid("format", fmt.Sprintf("unsupported format %q", hint))
	}
	if f, ok := importer.DetectFormat(fileName); ok {
		return f, nil
	}
	return "", invalid("file", fmt.Sprintf("unsupported file type %q, expected .csv, .xlsx or .xls", fileName))
}

func previewKey(id string) string {
	return string(constants.CachePrefixImportPreview) + id
}

func previewResponse(p *storedPreview, records []importer.Record) *dtos.ImportPreviewResponse {
	return &dtos.ImportPreviewResponse{
		ID:         p.ID,
		Type:       string(p.Type),
		FileName:   p.FileName,
		DataRows:   p.DataRows,
		Imported:   len(p.Records),
		Dropped:    p.DataRows - len(p.Records),
		Readable:   p.Readable,
		Warehouses: importer.Warehouses(p.Records),
		Records:    records,
	}
}
