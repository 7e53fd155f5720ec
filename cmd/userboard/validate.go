package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a userboard configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. Usernames and emails are accepted as given.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  userboard validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var last string
	if len(cfg.Script) > 0 {
		var latest time.Duration
		for _, step := range cfg.Script {
			latest = max(latest, step.After.Duration())
		}
		last = fmt.Sprintf(" (last at %s)", latest)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Title:  %s\n", cfg.Title)
	fmt.Fprintf(out, "  Port:   %d\n", cfg.Port)
	fmt.Fprintf(out, "  Seed:   %d users\n", len(cfg.Seed))
	fmt.Fprintf(out, "  Script: %d steps%s\n", len(cfg.Script), last)

	return nil
}
