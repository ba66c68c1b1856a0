package main

import (
	"context"
	"fmt"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/core"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Validate and save the inspection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(_ context.Context, s *core.Session) error {
			return s.Save()
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the inspection and start a new one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(_ context.Context, s *core.Session) error {
			return s.Clear()
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress, section scores and the first missing item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(_ context.Context, s *core.Session) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inspection %s\n", s.InspectionID())
			fmt.Fprintf(out, "progress: %d٪\n", s.Form().Progress())
			for _, sec := range s.Form().Sections() {
				fmt.Fprintf(out, "%s: %d٪\n", sec.Name, sec.Percentage)
			}
			if it, ok := s.Form().FirstIncomplete(); ok {
				fmt.Fprintf(out, "next: %s %s (%s)\n", it.ID, it.Name, it.SectionName)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statusCmd)
}
