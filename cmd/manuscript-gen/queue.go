package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"manuscript-gen/internal/domain/entity"
	"manuscript-gen/internal/wire"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and reset work queue items",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work items and their status",
	Args:  cobra.NoArgs,
	RunE:  runQueueList,
}

var queueResetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Reset a work item back to idea",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueReset,
}

func init() {
	queueCmd.AddCommand(queueListCmd, queueResetCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	repo, cleanup, err := wire.InitializeQueue(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	queue, err := repo.Load(ctx)
	if err != nil {
		return err
	}

	if err := writeQueueTable(os.Stdout, queue.Items); err != nil {
		return err
	}

	counts := queue.Counts()
	fmt.Printf("\n%d idea, %d in progress, %d completed\n",
		counts[entity.WorkStatusIdea], counts[entity.WorkStatusInProgress], counts[entity.WorkStatusCompleted])
	return nil
}

func runQueueReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, cleanup, err := wire.InitializeQueue(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	queue, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	item := queue.Find(args[0])
	if item == nil {
		return fmt.Errorf("work item %q not found", args[0])
	}
	prev := item.Status
	item.Reset()
	if err := repo.Save(ctx, queue); err != nil {
		return err
	}
	fmt.Printf("%s %s: %s -> %s\n", green("✓"), item.ID, prev, item.Status)
	return nil
}

// writeQueueTable 状态列放在最后：tabwriter 会把颜色转义计入宽度，末列不参与对齐
func writeQueueTable(out io.Writer, items []*entity.WorkItem) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHAPTERS\tWORDS\tTITLE\tSTATUS")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", item.ID, item.ChapterCount, item.TargetWordCount, item.Title, statusLabel(item.Status))
	}
	return w.Flush()
}

func statusLabel(s entity.WorkStatus) string {
	switch s {
	case entity.WorkStatusCompleted:
		return green(string(s))
	case entity.WorkStatusInProgress:
		return yellow(string(s))
	default:
		return string(s)
	}
}
