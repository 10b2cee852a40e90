// Package export writes projection reports as CSV, JSON or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/meshroi/internal/report"
)

// ErrUnknownFormat is returned for formats other than csv, json and pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported export formats.
var Formats = []string{"csv", "json", "pdf"}

// ToCSV writes one row per projected month.
func ToCSV(w io.Writer, sum report.Summary) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Month", "Cumulative Savings", "ROI (%)"}); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for i, v := range sum.Series.CumulativeSavings {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(v, 'f', 2, 64),
			strconv.FormatFloat(sum.Series.ROIPercent[i], 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ToJSON writes the full summary as indented JSON.
func ToJSON(w io.Writer, sum report.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(sum); err != nil {
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	return nil
}

// Write renders sum in the given format.
func Write(w io.Writer, sum report.Summary, format string, opts PDFOptions) error {
	switch strings.ToLower(format) {
	case "csv":
		return ToCSV(w, sum)
	case "json":
		return ToJSON(w, sum)
	case "pdf":
		return ToPDF(w, sum, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes sum to <dir>/<base>_<timestamp>.<format> and returns the
// absolute path of the new file.
func WriteFile(sum report.Summary, base, dir, format string, opts PDFOptions) (string, error) {
	format = strings.ToLower(format)
	if !supported(format) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	outputFilename, err := generateFilename(base, dir, format)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename) //nolint:gosec // output dir is supplied by the local user
	if err != nil {
		return "", fmt.Errorf("error creating %s file: %w", strings.ToUpper(format), err)
	}

	if err := Write(file, sum, format, opts); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	return filepath.Abs(outputFilename)
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
