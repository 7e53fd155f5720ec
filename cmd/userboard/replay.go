package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/userboard"
	"github.com/jpalmerr/userboard/config"
	"github.com/jpalmerr/userboard/internal/timeline"
)

// replayCmd dispatches the configured script without waiting or serving.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Print every state the script produces",
	Long: `Replay the configured script against a fresh store without waiting for the
offsets and print the list after each step, followed by the final list.

Example:
  userboard replay
  userboard replay -c config.yaml`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringP("config", "c", "", "path to config file (defaults to the built-in demo)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	script, err := config.BuildScript(cfg)
	if err != nil {
		return fmt.Errorf("failed to build script: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var states [][]userboard.UserRecord
	st, err := userboard.New(
		userboard.WithSeed(config.BuildSeed(cfg)...),
		userboard.WithLogger(logger),
		userboard.WithObserver(userboard.ObserverFunc(func(users []userboard.UserRecord) {
			states = append(states, users)
		})),
	)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	out := cmd.OutOrStdout()

	steps := tablewriter.NewWriter(out)
	steps.SetHeader([]string{"Step", "After", "Action", "Users"})
	steps.SetAutoWrapText(false)
	steps.Append([]string{"seed", "-", "-", usernames(st.GetState())})

	// the timeline is never started; it only supplies dispatch order
	for i, s := range timeline.New(script, st, logger).Steps() {
		st.Dispatch(s.Action)
		steps.Append([]string{
			fmt.Sprint(i + 1),
			s.After.String(),
			fmt.Sprint(s.Action),
			usernames(states[len(states)-1]),
		})
	}
	steps.Render()

	fmt.Fprintf(out, "\nFinal state (%d users):\n", st.Len())
	final := tablewriter.NewWriter(out)
	final.SetHeader([]string{"Username", "Email"})
	for _, u := range st.GetState() {
		final.Append([]string{u.Username, u.Email})
	}
	final.Render()

	return nil
}

// usernames joins the usernames of users, or returns "(empty)".
func usernames(users []userboard.UserRecord) string {
	if len(users) == 0 {
		return "(empty)"
	}
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return strings.Join(names, ", ")
}
