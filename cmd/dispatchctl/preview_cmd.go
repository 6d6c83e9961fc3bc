package main

import (
	"fmt"
	"os"
	"path/filepath"

	"dispatch-app/backend/internal/importer"

	"github.com/spf13/cobra"
)

type previewOutput struct {
	File       string            `json:"file"`
	Type       string            `json:"type"`
	Readable   bool              `json:"readable"`
	DataRows   int               `json:"dataRows"`
	Imported   int               `json:"imported"`
	Dropped    int               `json:"dropped"`
	Warehouses []string          `json:"warehouses"`
	Records    []importer.Record `json:"records"`
}

func newPreviewCmd() *cobra.Command {
	var (
		typeName     string
		format       string
		profilesPath string
		warehouse    string
		search       string
		sortField    string
		desc         bool
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Parse a spreadsheet the way an upload would and print the records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := importer.LoadProfiles(profilesPath)
			if err != nil {
				return err
			}
			profile, err := profiles.Get(typeName)
			if err != nil {
				return err
			}

			path := args[0]
			f, ok := importer.ParseFormat(format)
			if format == "" {
				f, ok = importer.DetectFormat(path)
			}
			if !ok {
				return fmt.Errorf("cannot tell the format of %s, pass --format", path)
			}

			q := importer.PreviewQuery{Search: search, Warehouse: warehouse, Desc: desc}
			if sortField != "" {
				field, ok := importer.ParseSortField(sortField)
				if !ok {
					return fmt.Errorf("invalid --sort %q", sortField)
				}
				q.SortField = field
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			res := importer.NewParser(profile, nil).Parse(data, f)

			return writeJSON(cmd.OutOrStdout(), previewOutput{
				File:       filepath.Base(path),
				Type:       string(profile.Type),
				Readable:   res.Readable,
				DataRows:   res.DataRows,
				Imported:   len(res.Records),
				Dropped:    res.Dropped(),
				Warehouses: importer.Warehouses(res.Records),
				Records:    importer.ApplyPreview(res.Records, q),
			})
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "Import type: order or ibt (required)")
	cmd.Flags().StringVar(&format, "format", "", "csv, xlsx or xls; taken from the extension when empty")
	cmd.Flags().StringVar(&profilesPath, "profiles", "", "YAML file overlaying the built-in import profiles")
	cmd.Flags().StringVar(&warehouse, "warehouse", "", "Only show records stored at this warehouse")
	cmd.Flags().StringVar(&search, "q", "", "Only show records matching this text")
	cmd.Flags().StringVar(&sortField, "sort", "", "Sort records by field")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
