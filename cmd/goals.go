package cmd

import (
	"fmt"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagGoalSavings   string
	flagGoalDaily     string
	flagGoalEmergency string
	flagGoalDefault   bool
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show or change savings goals",
	Long:  "Without flags, shows the current goals. Any flag given replaces that goal; the others are kept.",
	Example: `  summit goals
  summit goals --daily 40 --savings 1200`,
	Args: cobra.NoArgs,
	RunE: runGoals,
}

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage spending categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Track a new spending category at zero",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spending categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

func init() {
	goalsCmd.Flags().StringVar(&flagGoalSavings, "savings", "", "Monthly savings goal")
	goalsCmd.Flags().StringVar(&flagGoalDaily, "daily", "", "Daily spending limit")
	goalsCmd.Flags().StringVar(&flagGoalEmergency, "emergency", "", "Emergency fund goal")
	goalsCmd.Flags().BoolVar(&flagGoalDefault, "save-default", false, "Also write the goals to the config file as defaults after a reset")
	rootCmd.AddCommand(goalsCmd)

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runGoals(cmd *cobra.Command, _ []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	st := sess.tracker.State()
	goals := st.Goals
	changed := false
	for _, f := range []struct {
		flag string
		val  string
		dst  *decimal.Decimal
	}{
		{"savings", flagGoalSavings, &goals.MonthlySavings},
		{"daily", flagGoalDaily, &goals.DailyLimit},
		{"emergency", flagGoalEmergency, &goals.EmergencyFund},
	} {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		d, err := parseMoney(f.val)
		if err != nil {
			return fmt.Errorf("--%s: %w", f.flag, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("--%s: goal must not be negative", f.flag)
		}
		*f.dst = d
		changed = true
	}

	if changed {
		if err := ensureNoDaemon(sess.cfg); err != nil {
			return err
		}
		st = sess.tracker.SetGoals(goals)
		fmt.Printf("\n  %s\n", cli.Good("Goals updated"))
	}
	if flagGoalDefault {
		cfg := sess.cfg
		cfg.Goals = config.GoalsFromModel(st.Goals)
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("  %s\n", cli.Muted("Saved as defaults in "+config.ConfigPath()))
	}

	sum := engine.Summarize(st)
	fmt.Println()
	printGoals(sess.cfg, st, sum)
	return nil
}

func runCategoryAdd(_ *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := ensureNoDaemon(sess.cfg); err != nil {
		return err
	}

	if _, err := sess.tracker.AddCategory(args[0]); err != nil {
		return err
	}
	fmt.Printf("\n  %s\n\n", cli.Good("Tracking "+cli.Title(engine.NormalizeCategory(args[0]))))
	return nil
}

func runCategoryList(_ *cobra.Command, _ []string) error {
	cfg, st, err := loadState()
	if err != nil {
		return err
	}

	shares := engine.CategoryBreakdown(st)
	if len(shares) == 0 {
		fmt.Println("\n  No categories yet. Add one with `summit category add <name>`.")
		return nil
	}
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{s.Name, money(cfg, s.Amount)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"Category", "Spent"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
