package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beegrid/corridor-governor/internal/ledger"
	"github.com/beegrid/corridor-governor/internal/router"
)

var routeCmd = &cobra.Command{
	Use:   "route <tasks.json>",
	Short: "Route protective tasks across governed hives",
	Long: `Route reads a list of protective tasks and places each one on the
first hive whose safety invariants accept the resulting adjustment, trying
hives in worst-band-first order.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

// taskInput is the JSON shape of one routed task.
type taskInput struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	EcoRewardHint float64 `json:"eco_reward_hint"`
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read tasks file: %w", err)
	}
	var inputs []taskInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return fmt.Errorf("parse tasks file: %w", err)
	}

	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}
	store, err := ledger.NewStore(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	envs, err := store.ListEnvelopes()
	if err != nil {
		return err
	}
	l := ledger.NewLedgerWithStore(store)
	for _, env := range envs {
		if err := l.Admit(env, reg); err != nil {
			return err
		}
	}

	tasks := make([]router.Task, 0, len(inputs))
	for _, in := range inputs {
		tasks = append(tasks, router.Task{
			ID:            in.ID,
			Kind:          router.TaskKind(in.Kind),
			EcoRewardHint: in.EcoRewardHint,
		})
	}

	results := router.New(l).Route(tasks)
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
