package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beegrid/corridor-governor/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List the audit trail of accepted adjustments",
	RunE:  runLedger,
}

var (
	ledgerHiveID string
	ledgerLimit  int
)

func init() {
	ledgerCmd.Flags().StringVar(&ledgerHiveID, "hive", "", "restrict to one hive id")
	ledgerCmd.Flags().IntVar(&ledgerLimit, "limit", 20, "maximum events to list")
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := ledger.NewStore(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.ListEvents(ledgerHiveID, ledgerLimit)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
