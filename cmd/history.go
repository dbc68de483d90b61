package cmd

import (
	"fmt"
	"slices"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the trail log of recorded changes",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show what each level of the mountain requires",
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(levelsCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := sess.store.Entries(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	total, err := sess.store.EntryCount()
	if err != nil {
		return fmt.Errorf("counting history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("\n  The trail log is empty.")
		fmt.Println("  Log something with `summit add expense 12.50 --category food`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRAIL LOG  %d of %s", len(entries), cli.FormatNumber(int64(total)))))
	fmt.Println()

	// Walk back from the current points so the sparkline reads oldest first.
	points := make([]float64, 0, len(entries))
	p := sess.tracker.State().Points
	for _, e := range entries {
		points = append(points, float64(p))
		p -= e.PointsDelta
	}
	slices.Reverse(points)
	fmt.Printf("  Points  %s\n\n", cli.RenderSparkline(points))

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.RecordedAt.Local().Format("Jan 02 15:04"),
			describeEntry(sess.cfg, e),
			cli.FormatDelta(e.PointsDelta),
			fmt.Sprintf("%d", e.StreakAfter),
			fmt.Sprintf("%d", e.LevelAfter),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"When", "What", "Points", "Streak", "Level"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func describeEntry(cfg config.Config, e model.LedgerEntry) string {
	switch engine.Op(e.Op) {
	case engine.OpTransaction:
		if e.Kind == model.Income {
			return "Income " + money(cfg, e.Amount)
		}
		s := cli.Title(e.Category) + " " + money(cfg, e.Amount)
		if e.Note != "" {
			s += " (" + e.Note + ")"
		}
		return s
	case engine.OpConnect:
		return "Bank connected"
	case engine.OpGoals:
		return "Goals updated"
	case engine.OpCategory:
		return "Category added"
	case engine.OpBonus:
		return "Trail bonus"
	case engine.OpReset:
		return "Progress reset"
	}
	return e.Op
}

func runLevels(_ *cobra.Command, _ []string) error {
	_, st, err := loadState()
	if err != nil {
		return err
	}
	current := st.Level

	tiers := engine.Tiers()
	slices.Reverse(tiers)

	rows := [][]string{{"1", "0", "0 days", "-", marker(current == engine.MinLevel)}}
	for _, t := range tiers {
		rate := "-"
		if t.RequiresSavings {
			rate = cli.FormatRate(t.MinSavingsRate)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Level),
			cli.FormatNumber(t.MinPoints),
			fmt.Sprintf("%d days", t.MinStreak),
			rate,
			marker(t.Level == current),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "The Mountain",
		Headers: []string{"Level", "Points", "Streak", "Savings rate", ""},
		Rows:    rows,
	}))
	fmt.Printf("\n  %s\n\n", cli.Muted(fmt.Sprintf("Savings rate now %s; every requirement of a level must hold at once.",
		cli.FormatRate(engine.SavingsRate(st)))))
	return nil
}

func marker(here bool) string {
	if here {
		return cli.Good(cli.HikerGlyph + " you")
	}
	return ""
}
