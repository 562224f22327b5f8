package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/auditlog"
	"github.com/VladPlusIn/AI-Mail-Agent/pkg/config"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the recorded triage log, most urgent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", configPath, err)
		}

		records, err := auditlog.ReadRecords(cfg.Log.JSONLPath)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No log data available.")
			return nil
		}
		auditlog.SortByImportance(records)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tIMPORTANCE\tSENDER\tSUBJECT\tSUMMARY")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				rec.Timestamp.Format(time.RFC3339),
				rec.Importance,
				rec.Sender,
				truncate(rec.Subject, 40),
				truncate(rec.BodySummary, 60))
		}
		return w.Flush()
	},
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
