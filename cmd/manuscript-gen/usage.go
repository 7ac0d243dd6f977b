package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"manuscript-gen/internal/wire"
)

var usageItem string

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Summarise the prompt usage ledger",
	Args:  cobra.NoArgs,
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().StringVar(&usageItem, "item", "", "only summarise this work item")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if !cfg.Database.SQLite.Enabled {
		fmt.Println(yellow("usage ledger disabled (database.sqlite.enabled=false)"))
		return nil
	}

	recorder, cleanup, err := wire.InitializeUsage(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	rows, err := recorder.Summary(ctx, usageItem)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println(gray("no prompts recorded"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPROMPTS\tFAILED\tPROMPT CHARS\tRESPONSE CHARS\tTIME")
	for _, s := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
			s.WorkItemID, s.Prompts, s.Failures, s.PromptChars, s.ResponseChars,
			(time.Duration(s.DurationMs) * time.Millisecond).Round(time.Second))
	}
	return w.Flush()
}
