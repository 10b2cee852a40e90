package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/meshroi/internal/export"
	"github.com/theirongolddev/meshroi/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagExportFormat string
	flagExportOut    string
	flagExportBase   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the projection as CSV, JSON or PDF",
	RunE:  runExport,
}

func init() {
	addProjectFlags(exportCmd)
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "csv", "Output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", ".", "Output directory, or - for stdout")
	exportCmd.Flags().StringVar(&flagExportBase, "base", "", "File name prefix (default scenario name or roi_projection)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(c *cobra.Command, _ []string) error {
	sc, err := resolveInput(c)
	if err != nil {
		return err
	}
	sum, err := report.Build(sc.Params, sc.Horizon)
	if err != nil {
		return err
	}
	sum.Name = sc.Name

	opts := export.PDFOptions{Title: "Break-even Projection", Money: money()}
	if sc.Name != "" {
		opts.Title += ": " + sc.Name
	}

	if flagExportOut == "-" {
		return export.Write(os.Stdout, sum, strings.ToLower(flagExportFormat), opts)
	}

	base := flagExportBase
	if base == "" {
		base = sc.Name
	}
	if base == "" {
		base = "roi_projection"
	}

	path, err := export.WriteFile(sum, base, flagExportOut, flagExportFormat, opts)
	if err != nil {
		return err
	}
	logger.Debug("export written", zap.String("path", path), zap.String("format", flagExportFormat))
	fmt.Printf("  Wrote %s\n", path)
	return nil
}
