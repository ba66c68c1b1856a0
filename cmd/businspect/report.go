package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/core"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/export"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the inspection report",
	Long:  "Generate the inspection report. The form must be complete. With --out-dir the report is written to a file named after the plate number.",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var (
	reportFormat string
	reportOutDir string
)

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", string(export.FormatText), "Output format: text, yaml or json")
	reportCmd.Flags().StringVar(&reportOutDir, "out-dir", "", "Directory to write the report file to (default: print)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, s *core.Session) error {
		res, err := s.Report(ctx, format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if reportOutDir == "" {
			fmt.Fprint(out, res.Content)
			return nil
		}

		if err := os.MkdirAll(reportOutDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		path := filepath.Join(reportOutDir, res.FileName)
		if err := os.WriteFile(path, []byte(res.Content), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "report written to %s\n", path)
		return nil
	})
}
