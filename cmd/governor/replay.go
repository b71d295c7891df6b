package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beegrid/corridor-governor/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay recorded cycles against a fixture's expectations",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	fixture, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}

	results, err := replay.Replay(fixture)
	if err != nil {
		return err
	}

	for _, r := range results {
		line := fmt.Sprintf("cycle=%s total=%.6g derate=%v stop=%v",
			r.CycleID, r.Residual.Total, r.Residual.Derate, r.Residual.Stop)
		if r.Decision != nil {
			line += fmt.Sprintf(" duty=%.4f permitted=%v", r.Decision.SafeDutyCycle, r.Decision.Permitted)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	mismatches := replay.Verify(fixture, results)
	if len(mismatches) > 0 {
		for _, m := range mismatches {
			fmt.Fprintf(cmd.ErrOrStderr(), "mismatch cycle=%s field=%s want=%s got=%s\n",
				m.CycleID, m.Field, m.Want, m.Got)
		}
		return fmt.Errorf("%d mismatches against expected results", len(mismatches))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "replayed %d cycles, all expectations met\n", len(results))
	return nil
}
