package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/daemon"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagAddCategory string
	flagAddNote     string
)

var addCmd = &cobra.Command{
	Use:   "add <expense|income> <amount>",
	Short: "Log an expense or income",
	Example: `  summit add expense 42.50 --category food --note lunch
  summit add income 3000`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "other", "Spending category (expenses only)")
	addCmd.Flags().StringVar(&flagAddNote, "note", "", "Free-form note")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	kind, err := model.ParseKind(args[0])
	if err != nil {
		return err
	}
	amount, err := parseMoney(args[1])
	if err != nil {
		return err
	}
	tx := model.Transaction{Kind: kind, Amount: amount, Note: flagAddNote}
	if kind == model.Expense {
		tx.Category = flagAddCategory
	}
	if err := engine.ValidateTransaction(tx); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if client, ok := runningDaemon(cfg); ok {
		return addViaDaemon(cfg, client, tx)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	before := sess.tracker.State()
	after, err := sess.tracker.Apply(tx)
	if err != nil {
		return err
	}
	printApplied(sess.cfg, tx, before, after)
	return nil
}

func addViaDaemon(cfg config.Config, client *daemon.Client, tx model.Transaction) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	before, err := client.State(ctx)
	if err != nil {
		return fmt.Errorf("reading daemon state: %w", err)
	}
	after, err := client.Apply(ctx, daemon.TransactionRequest{
		Kind:     tx.Kind.String(),
		Amount:   tx.Amount.String(),
		Category: tx.Category,
		Note:     tx.Note,
	})
	if err != nil {
		if errors.Is(err, daemon.ErrRejected) {
			return fmt.Errorf("%w: %v", engine.ErrInvalidTransaction, err)
		}
		return err
	}
	progressf("  Logged through the daemon at %s\n", cfg.Daemon.Addr)
	printApplied(cfg, tx, before, after)
	return nil
}

// printApplied reports what one transaction did to the score.
func printApplied(cfg config.Config, tx model.Transaction, before, after model.UserFinancialState) {
	what := "Income"
	if tx.Kind == model.Expense {
		what = cli.Title(engine.NormalizeCategory(tx.Category))
	}
	fmt.Printf("\n  %s %s\n", what, money(cfg, tx.Amount))

	delta := after.Points - before.Points
	fmt.Printf("  Points  %s (%s)\n", cli.FormatNumber(after.Points), cli.FormatDelta(delta))

	streak := fmt.Sprintf("%d days", after.Streak)
	switch {
	case after.Streak > before.Streak:
		streak = cli.Good(streak)
	case after.Streak < before.Streak:
		streak = cli.Warn(streak)
	}
	fmt.Printf("  Streak  %s\n", streak)

	switch {
	case after.Level > before.Level:
		fmt.Printf("  %s\n", cli.Good(fmt.Sprintf("Level up! You reached level %d", after.Level)))
	case after.Level < before.Level:
		fmt.Printf("  %s\n", cli.Warn(fmt.Sprintf("Slipped to level %d", after.Level)))
	default:
		fmt.Printf("  Level   %d\n", after.Level)
	}

	if tx.Kind == model.Expense && cfg.Notifications.BudgetAlerts &&
		after.Goals.DailyLimit.IsPositive() && tx.Amount.GreaterThan(after.Goals.DailyLimit) {
		fmt.Printf("  %s\n", cli.Warn("Over the daily limit of "+money(cfg, after.Goals.DailyLimit)))
	}
	fmt.Println()
}
