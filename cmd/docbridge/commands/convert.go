package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docbridge-ai/docbridge/cmd/docbridge/ui"
	"github.com/docbridge-ai/docbridge/internal/batch"
	"github.com/docbridge-ai/docbridge/internal/config"
	"github.com/docbridge-ai/docbridge/internal/convert"
	"github.com/docbridge-ai/docbridge/internal/engine"
	"github.com/docbridge-ai/docbridge/internal/export"
	"github.com/docbridge-ai/docbridge/internal/journal"
	"github.com/docbridge-ai/docbridge/internal/observability"
)

var (
	convertOutputDir  string
	convertConcurrent bool
	convertMaxWorkers int
	convertFormat     string
	convertEnableOCR  bool
	convertNoTables   bool
	convertTimeout    time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert documents...",
	Short: "Convert one or more documents to Markdown and JSON artifacts",
	Long: `Convert documents (local paths or URLs) and write <basename>.md and
<basename>.json into the output directory. Individual document failures are
reported but do not abort the batch or change the exit code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutputDir, "output-dir", "o", "output", "directory for converted artifacts")
	convertCmd.Flags().BoolVar(&convertConcurrent, "concurrent", false, "convert documents in parallel")
	convertCmd.Flags().IntVar(&convertMaxWorkers, "max-workers", 0, "worker pool size for --concurrent (default from config)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "markdown", "output format: markdown, json or html")
	convertCmd.Flags().BoolVar(&convertEnableOCR, "enable-ocr", false, "enable OCR for image text extraction")
	convertCmd.Flags().BoolVar(&convertNoTables, "no-table-structure", false, "disable table structure detection")
	convertCmd.Flags().DurationVar(&convertTimeout, "item-timeout", 0, "per-document conversion timeout (0 disables)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ui.InitUI(noColor)
	defer ui.Close()

	logger := cliLogger(cfg)

	opts := convert.Options{
		EnableOCR:            convertEnableOCR,
		EnableTableStructure: !convertNoTables,
		OutputFormat:         convert.ParseOutputFormat(convertFormat),
	}

	concurrency := batch.Concurrency{
		Mode:        batch.ModeSequential,
		MaxWorkers:  convertMaxWorkers,
		ItemTimeout: convertTimeout,
	}
	if convertTimeout == 0 {
		concurrency.ItemTimeout = cfg.Batch.ItemTimeout
	}
	if convertConcurrent {
		concurrency.Mode = batch.ModeParallel
		if concurrency.MaxWorkers == 0 {
			concurrency.MaxWorkers = cfg.Batch.MaxWorkers
		}
	}

	conversionEngine := engine.New(engine.Config{
		FetchTimeout: cfg.Converter.FetchTimeout,
	}, logger)
	orchestrator := batch.NewOrchestrator(convert.NewGateway(conversionEngine), logger)

	ui.Section("Document Conversion")
	ui.Info("Documents: %d", len(args))
	ui.Info("Output directory: %s", convertOutputDir)
	if convertConcurrent {
		workers := concurrency.MaxWorkers
		if len(args) < workers {
			workers = len(args)
		}
		ui.Info("Mode: concurrent (%d workers)", workers)
	} else {
		ui.Info("Mode: sequential")
	}
	ui.Newline()

	// Progress rendering differs by mode: mpb handles interleaved updates
	// from many workers, the plain bar suits the sequential loop, and a
	// single document gets a spinner since a count bar is pointless there.
	var observer batch.Observer
	var finish func()
	switch {
	case convertConcurrent:
		progress := ui.NewBatchProgress("converting", int64(len(args)))
		observer = func(source string, ok bool) { progress.Increment() }
		finish = progress.Wait
	case len(args) == 1:
		sp := ui.NewSpinner("converting " + args[0])
		sp.Start()
		observer = func(source string, ok bool) { sp.UpdateMessage("writing artifacts") }
		finish = sp.Stop
	default:
		bar := ui.NewProgressBar(int64(len(args)), "converting")
		observer = func(source string, ok bool) { bar.Add(1) }
		finish = bar.Finish
	}
	orchestrator.SetObserver(observer)

	result, err := orchestrator.Run(ctx, args, opts, concurrency)
	finish()
	if err != nil {
		return fmt.Errorf("batch conversion: %w", err)
	}

	sink := export.NewSink(convertOutputDir, logger)
	exportFailures := 0
	for _, outcome := range result.Outcomes {
		if err := sink.Write(outcome, opts); err != nil {
			exportFailures++
			ui.Error("export %s: %v", outcome.Source, err)
		}
	}

	recordRun(ctx, cfg, logger, concurrency, result)
	printSummary(result, exportFailures)
	return nil
}

// recordRun appends the batch to the local journal. Journal failures are
// reported but never fail the conversion.
func recordRun(ctx context.Context, cfg *config.Config, logger *observability.Logger, concurrency batch.Concurrency, result batch.Result) {
	if !cfg.Journal.Enabled {
		return
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Journal.Path).Msg("Journal unavailable")
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(ctx, string(concurrency.Mode), concurrency.MaxWorkers, result); err != nil {
		logger.Warn().Err(err).Msg("Failed to record batch run")
	}
}

func printSummary(result batch.Result, exportFailures int) {
	ui.Newline()
	ui.Section("Conversion Summary")
	ui.Table([]string{"Metric", "Value"}, [][]string{
		{"Documents", fmt.Sprintf("%d", len(result.Outcomes))},
		{"Succeeded", fmt.Sprintf("%d", result.Succeeded())},
		{"Failed", fmt.Sprintf("%d", result.Failed())},
		{"Duration", ui.FormatDuration(result.Elapsed)},
	})

	if failures := result.Failures(); len(failures) > 0 {
		ui.Newline()
		for _, outcome := range failures {
			ui.Error("%s: %s", outcome.Source, outcome.ErrorMessage())
		}
	}

	ui.Newline()
	if result.Failed() == 0 && exportFailures == 0 {
		ui.Success("All documents converted")
	} else {
		ui.Warning("Finished with %d conversion failure(s), %d export failure(s)", result.Failed(), exportFailures)
	}
}

// cliLogger builds a logger that keeps stdout clean for command output.
func cliLogger(cfg *config.Config) *observability.Logger {
	level := cfg.Observability.LogLevel
	if verbose {
		level = "debug"
	} else if level == "" || level == "info" {
		// Progress bars and summaries already cover normal operation.
		level = "warn"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: cfg.Observability.ServiceName,
	})
}
