package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mm15146-Mahad/summit/internal/bank"
	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/logger"

	"github.com/spf13/cobra"
)

var (
	flagConnectBalance   string
	flagConnectSimulated string
	flagConnectDelay     time.Duration
)

var connectCmd = &cobra.Command{
	Use:   "connect [institution]",
	Short: "Link a bank account; its balance becomes your points",
	Example: `  summit connect "Alpine Credit Union"
  summit connect --balance 1830.25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVar(&flagConnectBalance, "balance", "", "Enter the balance yourself instead of using the simulated bank")
	connectCmd.Flags().StringVar(&flagConnectSimulated, "simulated-balance", "2450", "Balance the simulated bank reports")
	connectCmd.Flags().DurationVar(&flagConnectDelay, "delay", bank.DefaultDelay, "How long the simulated bank takes to answer")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(_ *cobra.Command, args []string) error {
	institution := "Summit Savings Bank"
	if len(args) == 1 {
		institution = strings.TrimSpace(args[0])
	}

	var provider bank.Provider
	if flagConnectBalance != "" {
		bal, err := parseMoney(flagConnectBalance)
		if err != nil {
			return err
		}
		provider = bank.Manual{Balance: bal}
	} else {
		bal, err := parseMoney(flagConnectSimulated)
		if err != nil {
			return err
		}
		provider = bank.NewSimulated(bal, flagConnectDelay)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := ensureNoDaemon(sess.cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(logger.WithContext(ctx, sess.log), 30*time.Second)
	defer cancelTimeout()

	progressf("  Connecting to %s...\n", institution)
	conn, err := provider.Connect(ctx, institution)
	if err != nil {
		return fmt.Errorf("connecting bank: %w", err)
	}

	before := sess.tracker.State()
	after := sess.tracker.Connect(conn.Balance)
	sess.log.Info().Str("institution", conn.Institution).Str("balance", conn.Balance.String()).Msg("bank connected")

	fmt.Println()
	fmt.Printf("  %s\n", cli.Good("Connected to "+conn.Institution))
	fmt.Printf("  Balance  %s\n", cli.FormatBalance(sess.cfg.General.CurrencySymbol, after.BankBalance, sess.cfg.Privacy.ShowBalance))
	fmt.Printf("  Points   %s (was %s)\n", cli.FormatNumber(after.Points), cli.FormatNumber(before.Points))
	fmt.Printf("  Level    %d\n", after.Level)
	fmt.Println()
	return nil
}
