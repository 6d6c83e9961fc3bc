package main

import (
	"fmt"
	"io"
	"os"

	"dispatch-app/backend/internal/importer"

	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	var (
		typeName string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the import template for a type",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := importer.DefaultProfiles().Get(typeName)
			if err != nil {
				return err
			}
			f, ok := importer.ParseFormat(format)
			if !ok || f == importer.FormatXLS {
				return fmt.Errorf("invalid --format %q, expected csv or xlsx", format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer file.Close()
				w = file
			}
			return importer.WriteTemplate(w, profile.Type, f)
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "Import type: order or ibt (required)")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file; stdout when empty")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
