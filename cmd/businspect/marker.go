package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/core"

	"github.com/spf13/cobra"
)

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "Manage damage markers on the bus diagram",
}

var markerAddCmd = &cobra.Command{
	Use:   "add <x> <y>",
	Short: "Place a damage marker (coordinates in percent)",
	Args:  cobra.ExactArgs(2),
	RunE:  runMarker(true),
}

var markerRemoveCmd = &cobra.Command{
	Use:   "remove <x> <y>",
	Short: "Remove a damage marker",
	Args:  cobra.ExactArgs(2),
	RunE:  runMarker(false),
}

func init() {
	markerCmd.AddCommand(markerAddCmd)
	markerCmd.AddCommand(markerRemoveCmd)
	rootCmd.AddCommand(markerCmd)
}

func parseCoords(args []string) (float64, float64, error) {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q: %w", args[1], err)
	}
	return x, y, nil
}

func runMarker(add bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		x, y, err := parseCoords(args)
		if err != nil {
			return err
		}
		return withSession(cmd, func(_ context.Context, s *core.Session) error {
			out := cmd.OutOrStdout()
			if add {
				m, added, err := s.AddMarker(x, y)
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(out, "marker %s already placed\n", m)
				} else {
					fmt.Fprintf(out, "marker %s placed\n", m)
				}
			} else {
				m, removed, err := s.RemoveMarker(x, y)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(out, "no marker at %s\n", m)
				} else {
					fmt.Fprintf(out, "marker %s removed\n", m)
				}
			}
			fmt.Fprintf(out, "markers: %d\n", len(s.Form().Markers()))
			return nil
		})
	}
}
