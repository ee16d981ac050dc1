package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/docbridge-ai/docbridge/cmd/docbridge/ui"
	"github.com/docbridge-ai/docbridge/internal/config"
	"github.com/docbridge-ai/docbridge/internal/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent batch runs from the local journal",
	Long: `Without arguments, lists recent batch runs. With a run ID, lists the
per-document outcomes of that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Journal.Enabled {
		return fmt.Errorf("journal is disabled in configuration")
	}

	ui.InitUI(noColor)
	defer ui.Close()

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	if len(args) == 1 {
		return showRunItems(ctx, store, args[0])
	}
	return showRuns(ctx, store)
}

func showRuns(ctx context.Context, store *journal.Store) error {
	runs, err := store.RecentRuns(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		ui.Info("No batch runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID.String(),
			run.StartedAt.Format(time.RFC3339),
			run.Mode,
			fmt.Sprintf("%d", run.Total),
			fmt.Sprintf("%d", run.Succeeded),
			fmt.Sprintf("%d", run.Failed),
			ui.FormatDuration(run.Elapsed),
		})
	}

	ui.Section("Batch Runs")
	ui.Table([]string{"Run", "Started", "Mode", "Total", "OK", "Failed", "Duration"}, rows)
	return nil
}

func showRunItems(ctx context.Context, store *journal.Store, rawID string) error {
	runID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", rawID, err)
	}

	items, err := store.RunItems(ctx, runID)
	if err != nil {
		return fmt.Errorf("list run items: %w", err)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		status := "ok"
		detail := ""
		if !item.Success {
			status = item.Kind
			detail = item.Error
		}
		rows = append(rows, []string{item.Source, status, detail})
	}

	ui.Section("Run " + rawID)
	ui.Table([]string{"Source", "Status", "Detail"}, rows)
	return nil
}
