// Package main provides the businspect command line for school bus inspections.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/core"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "businspect",
	Short:         "School bus inspection checklist",
	Long:          "businspect records a school bus inspection: evaluation choices, header details and damage markers, with live section scores, notes and a final report.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withSession opens the inspection on behalf of cmd, runs fn, prints the
// notifications it raised and releases the session.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *core.Session) error) (err error) {
	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	notifier := &core.RecordingNotifier{}
	s, err := core.Open(ctx, cfg, cmd.Name(), core.NewLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel), notifier)
	if err != nil {
		return err
	}
	// Every command restores on open; only restore problems are shown.
	printNotifications(cmd.OutOrStdout(), withoutSeverity(notifier.Notifications(), schema.SeverityInfo))
	notifier.Reset()
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	err = fn(ctx, s)
	printNotifications(cmd.OutOrStdout(), notifier.Notifications())
	return err
}

var severityMarks = map[schema.Severity]string{
	schema.SeverityInfo:    "ℹ",
	schema.SeveritySuccess: "✓",
	schema.SeverityWarning: "!",
	schema.SeverityError:   "✗",
}

func printNotifications(w io.Writer, notes []schema.Notification) {
	for _, n := range notes {
		fmt.Fprintf(w, "%s %s\n", severityMarks[n.Severity], n.Message)
	}
}

func withoutSeverity(notes []schema.Notification, sev schema.Severity) []schema.Notification {
	var out []schema.Notification
	for _, n := range notes {
		if n.Severity != sev {
			out = append(out, n)
		}
	}
	return out
}
