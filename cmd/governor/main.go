// Command governor is the operational front end for the corridor safety
// governor. It contains no governance logic: every decision is made by the
// internal packages it wires together.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/beegrid/corridor-governor/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "governor",
	Short:        "Corridor-based safety governor for emission nodes and hives",
	SilenceUsage: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", envOr("GOVERNOR_CONFIG", ""),
		"path to YAML deployment config (defaults to built-in reference config)")
}

// loadConfig resolves the active configuration: file if given, reference
// defaults otherwise.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
