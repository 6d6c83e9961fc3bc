package dtos

import "dispatch-app/backend/internal/importer"

// ImportPreviewResponse describes an uploaded, not yet committed, file.
type ImportPreviewResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	FileName   string            `json:"fileName"`
	DataRows   int               `json:"dataRows"`
	Imported   int               `json:"imported"`
	Dropped    int               `json:"dropped"`
	Readable   bool              `json:"readable"`
	Warehouses []string          `json:"warehouses"`
	Records    []importer.Record `json:"records"`
}

type ImportCommitResponse struct {
	ID       string   `json:"id"`
	Imported int      `json:"imported"`
	JobIDs   []string `json:"jobIds"`
}
