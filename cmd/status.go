package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, points, cash flow and the mountain",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// loadState reads the live state from a running daemon, or from the store.
func loadState() (config.Config, model.UserFinancialState, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, model.UserFinancialState{}, err
	}

	if client, ok := runningDaemon(cfg); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st, err := client.State(ctx)
		if err == nil {
			return cfg, engine.Restore(st), nil
		}
		progressf("  Daemon unavailable (%v), reading local data\n", err)
	}

	sess, err := openSession()
	if err != nil {
		return cfg, model.UserFinancialState{}, err
	}
	defer sess.Close()
	return sess.cfg, sess.tracker.State(), nil
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, st, err := loadState()
	if err != nil {
		return err
	}
	printStatus(cfg, st)
	return nil
}

func printStatus(cfg config.Config, st model.UserFinancialState) {
	sum := engine.Summarize(st)
	name := cfg.Profile.DisplayName
	if name == "" {
		name = "Budget Hiker"
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SUMMIT  %s  Level %d/%d", name, sum.Level, engine.MaxLevel)))
	fmt.Println()
	fmt.Print(cli.RenderMountain(sum.Level, engine.MaxLevel))
	fmt.Println()

	progress := cli.RenderProgressBar(sum.Progress, 20)
	if sum.Level == engine.MaxLevel {
		progress = cli.Good("summit reached")
	}

	balance := cli.FormatBalance(cfg.General.CurrencySymbol, st.BankBalance, cfg.Privacy.ShowBalance)
	if !st.BankConnected {
		balance = cli.Muted("not connected")
	}

	remaining := money(cfg, sum.Remaining)
	if sum.Remaining.IsNegative() {
		remaining = cli.Bad(remaining)
	}

	rows := [][]string{
		{"Points", cli.FormatNumber(st.Points)},
		{"Streak", fmt.Sprintf("%d days", st.Streak)},
		{"Level", fmt.Sprintf("%d of %d", sum.Level, engine.MaxLevel)},
		{"Progress", progress},
		{"---"},
		{"Income", money(cfg, st.Income)},
		{"Spent", money(cfg, sum.TotalSpent)},
		{"Remaining", remaining},
		{"Savings rate", cli.FormatRate(sum.SavingsRate)},
		{"Bank balance", balance},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Standing",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	if sum.HasNext {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Next camp: Level %d", sum.Next.Level),
			Headers: []string{"Requirement", "Target", "Still needed"},
			Rows:    nextCampRows(sum.Standing),
		}))
		fmt.Println()
	}

	if shares := engine.CategoryBreakdown(st); len(shares) > 0 {
		maxAmt := shares[0].Amount.InexactFloat64()
		rows := make([][]string, 0, len(shares))
		for _, s := range shares {
			share := "-"
			if !st.Income.IsZero() {
				share = cli.FormatPercent(s.ShareOfIncome)
			}
			rows = append(rows, []string{
				cli.Title(s.Name),
				money(cfg, s.Amount),
				share,
				cli.RenderHorizontalBar(s.Amount.InexactFloat64(), maxAmt, 20),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Spending",
			Headers: []string{"Category", "Amount", "Income", ""},
			Rows:    rows,
		}))
		fmt.Println()
	}

	printGoals(cfg, st, sum)
}

func nextCampRows(s engine.Standing) [][]string {
	need := func(ok bool, s string) string {
		if ok {
			return cli.Good("met")
		}
		return cli.Warn(s)
	}
	rows := [][]string{
		{"Points", cli.FormatNumber(s.Next.MinPoints), need(s.PointsNeeded == 0, cli.FormatNumber(s.PointsNeeded))},
		{"Streak", fmt.Sprintf("%d days", s.Next.MinStreak), need(s.StreakNeeded == 0, fmt.Sprintf("%d days", s.StreakNeeded))},
	}
	if s.Next.RequiresSavings {
		rows = append(rows, []string{
			"Savings rate",
			cli.FormatRate(s.Next.MinSavingsRate),
			need(s.SavingsNeeded.IsZero(), "+"+cli.FormatRate(s.SavingsNeeded)),
		})
	}
	return rows
}

func printGoals(cfg config.Config, st model.UserFinancialState, sum engine.Summary) {
	saved := decimal.Max(sum.Remaining, decimal.Zero)
	savings := engine.GoalProgress(saved, st.Goals.MonthlySavings)
	emergency := engine.GoalProgress(st.BankBalance, st.Goals.EmergencyFund)

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Goals",
		Headers: []string{"Goal", "Target", "Progress"},
		Rows: [][]string{
			{"Monthly savings", money(cfg, st.Goals.MonthlySavings), cli.RenderProgressBar(savings, 15)},
			{"Emergency fund", money(cfg, st.Goals.EmergencyFund), cli.RenderProgressBar(emergency, 15)},
			{"Daily limit", money(cfg, st.Goals.DailyLimit), ""},
		},
	}))
	fmt.Println()
}
