package cmd

import (
	"fmt"
	"time"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagImportDryRun   bool
	flagImportAll      bool
	flagImportSince    string
	flagImportCategory string
)

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Replay CSV or JSONL statement files as transactions",
	Long: "Scans for .csv and .jsonl statements, sorts every line by date and applies them in order. " +
		"Files already imported unchanged are skipped unless --all is given.\n\n" +
		"CSV needs a header with date and amount columns; kind, category and note (or description) are optional. " +
		"Without a kind, negative amounts are expenses and positive ones income.",
	Example: `  summit import ~/statements --dry-run
  summit import june.csv --since 2025-06-01`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Show what the import would do without saving")
	importCmd.Flags().BoolVar(&flagImportAll, "all", false, "Include files that were already imported")
	importCmd.Flags().StringVar(&flagImportSince, "since", "", "Only lines on or after this date (YYYY-MM-DD)")
	importCmd.Flags().StringVar(&flagImportCategory, "category", "", "Only expenses whose category contains this text")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	var since time.Time
	if flagImportSince != "" {
		var err error
		if since, err = time.Parse("2006-01-02", flagImportSince); err != nil {
			return fmt.Errorf("--since: %w", err)
		}
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	if !flagImportDryRun {
		if err := ensureNoDaemon(sess.cfg); err != nil {
			return err
		}
	}

	progressFn := func(current, total int) {
		progressf("\r  Parsing [%d/%d]", current, total)
	}

	progressf("  Scanning %s...\n", args[0])
	var (
		res       *pipeline.LoadResult
		unchanged int
	)
	if flagImportAll {
		res, err = pipeline.Load(args[0], progressFn)
	} else {
		var inc *pipeline.IncrementalResult
		inc, err = pipeline.LoadNew(args[0], sess.store, progressFn)
		if inc != nil {
			res, unchanged = &inc.LoadResult, inc.Unchanged
		}
	}
	if err != nil {
		return err
	}
	if res.ParsedFiles > 0 {
		progressf("\n")
	}

	if res.TotalFiles == 0 {
		fmt.Println("\n  No .csv or .jsonl statements found.")
		return nil
	}
	if res.TotalFiles == unchanged {
		fmt.Printf("\n  All %d statement files were already imported. Use --all to replay them again.\n", unchanged)
		return nil
	}

	recs := res.Records
	if !since.IsZero() {
		recs = pipeline.FilterByTime(recs, since, time.Time{})
	}
	if flagImportCategory != "" {
		recs = pipeline.FilterByCategory(recs, flagImportCategory)
	}

	state := sess.tracker.State()
	tot := pipeline.Aggregate(recs, state.Goals.DailyLimit)

	fmt.Println()
	title := "IMPORT"
	if flagImportDryRun {
		title = "IMPORT PREVIEW"
	}
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	span := "-"
	if tot.Records > 0 {
		span = fmt.Sprintf("%s to %s", tot.First.Format("Jan 02 2006"), tot.Last.Format("Jan 02 2006"))
	}
	rows := [][]string{
		{"Files", fmt.Sprintf("%d parsed, %d skipped, %d unreadable", res.ParsedFiles, unchanged, res.FileErrors)},
		{"Accounts", fmt.Sprintf("%d", res.AccountCount)},
		{"Lines", fmt.Sprintf("%d usable, %d skipped", tot.Records, res.ParseErrors)},
		{"Dates", span},
		{"---"},
		{"Income", fmt.Sprintf("%s (%d)", money(sess.cfg, tot.Earned), tot.Incomes)},
		{"Expenses", fmt.Sprintf("%s (%d)", money(sess.cfg, tot.Spent), tot.Expenses)},
		{"Over daily limit", fmt.Sprintf("%d", tot.OverDailyCap)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Statements",
		Headers: []string{"Item", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	if len(tot.Categories) > 0 {
		crows := make([][]string, 0, len(tot.Categories))
		maxAmt := tot.Categories[0].Amount.InexactFloat64()
		for _, c := range tot.Categories {
			crows = append(crows, []string{
				cli.Title(c.Name),
				money(sess.cfg, c.Amount),
				fmt.Sprintf("%d", c.Count),
				cli.RenderHorizontalBar(c.Amount.InexactFloat64(), maxAmt, 20),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "By category",
			Headers: []string{"Category", "Spent", "Lines", ""},
			Rows:    crows,
		}))
		fmt.Println()
	}

	var out pipeline.Outcome
	if flagImportDryRun {
		out = pipeline.Preview(state, recs)
	} else {
		out = pipeline.Replay(sess.tracker, recs)
		if err := pipeline.MarkLoaded(sess.store, res, time.Now()); err != nil {
			return fmt.Errorf("recording import history: %w", err)
		}
		sess.log.Info().Int("applied", out.Applied).Int("rejected", out.Rejected).Msg("statements imported")
	}

	verb := "Applied"
	if flagImportDryRun {
		verb = "Would apply"
	}
	fmt.Printf("  %s %d transactions", verb, out.Applied)
	if out.Rejected > 0 {
		fmt.Printf(" (%s)", cli.Warn(fmt.Sprintf("%d rejected", out.Rejected)))
	}
	fmt.Println()
	fmt.Printf("  Points  %s (%s)\n", cli.FormatNumber(out.After.Points), cli.FormatDelta(out.PointsGained()))
	fmt.Printf("  Streak  %d days\n", out.After.Streak)
	if out.After.Level != out.Before.Level {
		fmt.Printf("  Level   %d -> %s\n", out.Before.Level, cli.Good(fmt.Sprintf("%d", out.After.Level)))
	} else {
		fmt.Printf("  Level   %d\n", out.After.Level)
	}
	fmt.Println()
	return nil
}
