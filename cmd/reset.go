package cmd

import (
	"errors"
	"fmt"

	"github.com/mm15146-Mahad/summit/internal/cli"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start over at the trailhead",
	Long:  "Clears points, streak, spending, income, goals, the bank link and the trail log. Settings in the config file are kept.",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := ensureNoDaemon(sess.cfg); err != nil {
		return err
	}

	if !flagResetYes {
		confirm := false
		err := huh.NewConfirm().
			Title("Reset all progress?").
			Description("Points, streak, spending and the trail log will be cleared.").
			Affirmative("Reset").
			Negative("Keep climbing").
			Value(&confirm).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm reset: %w", err)
		}
		if !confirm {
			fmt.Println("  Nothing changed.")
			return nil
		}
	}

	sess.tracker.Reset()
	fmt.Printf("\n  %s\n\n", cli.Good("Back at the trailhead. Your settings were kept."))
	return nil
}
