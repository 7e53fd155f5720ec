// Package main is the entry point for the userboard CLI.
//
// Usage:
//
//	userboard serve [-c config.yaml]     # Serve the user list and replay the script
//	userboard validate -c config.yaml    # Validate configuration
//	userboard replay [-c config.yaml]    # Print every state the script produces
//	userboard version                    # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/userboard/config"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd only shows help; the work happens in subcommands.
var rootCmd = &cobra.Command{
	Use:   "userboard",
	Short: "A live user list driven by a unidirectional store",
	Long: `Userboard keeps a list of users in a unidirectional store: every change is
an action, a pure reducer produces the next list, and every subscriber is
notified with it.

The serve command exposes the list over HTTP with live updates and replays
a script of timed actions from the config file.

Example config:
  port: 8080
  seed:
    - username: example1
      email: example1@yopmail.com
  script:
    - after: 1s
      action: add_user:joe joe@yopmail.com
    - after: 5s
      action: remove_all_users`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "userboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the file named by the --config flag, or the built-in
// demo configuration when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
