package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/listings/client"
	"github.com/persistorai/listings/internal/report"
)

const exportPageSize = 100

func newExportCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all properties and their change logs to an xlsx workbook",
		Long: `Page through every property and fetch its change log, then write a workbook
with a "Properties" sheet and a "Changes" sheet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, changes, err := collectExport(cmd.Context(), apiClient)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if outputPath == "" {
				outputPath = fmt.Sprintf("listings-export-%s.xlsx",
					time.Now().UTC().Format("20060102T150405Z"))
			}

			f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}

			if err := report.Write(f, exportSheets(props, changes)...); err != nil {
				f.Close() //nolint:errcheck
				return err
			}

			if err := f.Close(); err != nil {
				return fmt.Errorf("closing export file: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Exported %d properties, %d changes to %s\n",
				len(props), len(changes), outputPath)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: listings-export-<timestamp>.xlsx)")

	return cmd
}

// collectExport reads every property page, then every property's change log.
// Properties that were never updated have no change log and are skipped.
func collectExport(ctx context.Context, c *client.Client) ([]client.Property, []client.PropertyChange, error) {
	var props []client.Property

	for offset := 0; ; offset += exportPageSize {
		page, err := c.Properties.List(ctx, &client.ListOptions{Offset: offset, Limit: exportPageSize})
		if err != nil {
			return nil, nil, err
		}

		props = append(props, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	var changes []client.PropertyChange

	for _, p := range props {
		cs, err := c.Properties.Changes(ctx, p.ID, "")
		if client.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("changes for property %d: %w", p.ID, err)
		}

		changes = append(changes, cs...)
	}

	return props, changes, nil
}

func exportSheets(props []client.Property, changes []client.PropertyChange) []report.Sheet {
	propRows := make([][]any, 0, len(props))
	for _, p := range props {
		propRows = append(propRows, []any{
			p.ID, p.Name, p.Description, p.Image, p.Location, p.Price, p.Address,
			p.Area, p.Rooms, p.Bathrooms, p.Garage, p.IsSold, p.CreatedAt.UTC(),
		})
	}

	changeRows := make([][]any, 0, len(changes))
	for _, c := range changes {
		changeRows = append(changeRows, []any{
			c.ID, c.PropertyID, c.ChangedField, c.OldValue, c.NewValue, c.ChangedAt.UTC(),
		})
	}

	return []report.Sheet{
		{
			Name: "Properties",
			Header: []string{
				"id", "name", "description", "image", "location", "price", "address",
				"area", "rooms", "bathrooms", "garage", "is_sold", "created_at",
			},
			Rows: propRows,
		},
		{
			Name:   "Changes",
			Header: []string{"id", "property_id", "changed_field", "old_value", "new_value", "changed_at"},
			Rows:   changeRows,
		},
	}
}
