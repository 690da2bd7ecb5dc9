package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/mediaflow/pkg/models"
)

// WriteReport writes the records or rows of a report to a file.
// Format can be "human" or "json".
func WriteReport(report *models.RunReport, path string, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeReportJSON(report, file)
	default:
		err = writeReportHuman(report, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeReportHuman(report *models.RunReport, w io.Writer) error {
	title := kindTitle(report.Kind) + " Report"
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Source: %s\n", report.Source)
	fmt.Fprintf(w, "Dry Run: %v\n", report.DryRun)
	fmt.Fprintf(w, "Status: %s\n\n", report.Status)

	if len(report.Records) > 0 {
		fmt.Fprintln(w, recordHeader())
		for _, rec := range report.Records {
			fmt.Fprintln(w, plainRecord(rec))
		}
		fmt.Fprintln(w)
	}

	if len(report.Rows) > 0 {
		fmt.Fprintf(w, "%-7s  %10s  %s\n", "Status", "Seconds", "Path")
		for _, row := range report.Rows {
			dur := row.DurationString()
			if dur == "" {
				dur = "-"
			}
			fmt.Fprintf(w, "%-7s  %10s  %s", row.Status, dur, row.Path)
			if row.Detail != "" {
				fmt.Fprintf(w, "  %s", row.Detail)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	writeSummary(w, report, plainStatus)
	return nil
}

func plainRecord(rec models.PlanRecord) string {
	return strings.TrimRight(recordColumns(rec)+string(rec.Status), " ")
}

func plainStatus(s models.RunStatus) string {
	return string(s)
}

func writeReportJSON(report *models.RunReport, w io.Writer) error {
	out := struct {
		Generated string `json:"generated"`
		*models.RunReport
	}{
		Generated: time.Now().Format(time.RFC3339),
		RunReport: report,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
