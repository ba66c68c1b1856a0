package main

import (
	"context"
	"fmt"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/checklist"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/core"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <item-id> [choice]",
	Short: "Record the evaluation choice of an item",
	Long:  "Record the evaluation choice of an item (e.g. S1.I4). Omitting the choice resets the item to not evaluated.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSet,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <item-id> pass|fail",
	Short: "Check or uncheck the pass/fail control of a checkbox item",
	Args:  cobra.ExactArgs(2),
	RunE:  runToggle,
}

var (
	setView    string
	toggleView string
	toggleOff  bool
)

func init() {
	setCmd.Flags().StringVar(&setView, "view", string(schema.ViewPrimary), "View the choice is entered in (primary or secondary)")
	toggleCmd.Flags().StringVar(&toggleView, "view", string(schema.ViewPrimary), "View the control is toggled in (primary or secondary)")
	toggleCmd.Flags().BoolVar(&toggleOff, "off", false, "Uncheck instead of check")

	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(toggleCmd)
}

func parseView(s string) (schema.ViewKind, error) {
	v := schema.ViewKind(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown view %q (want primary or secondary)", s)
	}
	return v, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	id, err := schema.ParseItemID(args[0])
	if err != nil {
		return err
	}
	view, err := parseView(setView)
	if err != nil {
		return err
	}
	choice := ""
	if len(args) == 2 {
		choice = args[1]
	}

	return withSession(cmd, func(_ context.Context, s *core.Session) error {
		change, err := s.SetChoice(id, view, choice)
		if err != nil {
			return err
		}
		printChange(cmd, s, change)
		return nil
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	id, err := schema.ParseItemID(args[0])
	if err != nil {
		return err
	}
	view, err := parseView(toggleView)
	if err != nil {
		return err
	}

	return withSession(cmd, func(_ context.Context, s *core.Session) error {
		var change checklist.Change
		switch args[1] {
		case "pass":
			change, err = s.TogglePass(id, view, !toggleOff)
		case "fail":
			change, err = s.ToggleFail(id, view, !toggleOff)
		default:
			return fmt.Errorf("unknown control %q (want pass or fail)", args[1])
		}
		if err != nil {
			return err
		}
		printChange(cmd, s, change)
		return nil
	})
}

func printChange(cmd *cobra.Command, s *core.Session, c checklist.Change) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s: %s → %s\n", c.ItemID, c.ItemName, c.OldState, c.NewState)
	if sec, ok := s.Form().Section(c.ItemID.Section); ok {
		fmt.Fprintf(out, "%s: %d٪\n", sec.Name, sec.Percentage)
		if sec.Notes != "" {
			fmt.Fprintln(out, sec.Notes)
		}
	}
}
