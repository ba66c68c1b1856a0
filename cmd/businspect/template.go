package main

import (
	"fmt"
	"strings"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/core"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/template"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "List checklist sections and items with their IDs",
	Args:  cobra.NoArgs,
	RunE:  runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, _ []string) error {
	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}
	tpl, err := template.LoadOrDefault(cfg.TemplatePath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (v%s)\n", tpl.Name, tpl.Version)
	for si, sec := range tpl.Sections {
		fmt.Fprintf(out, "\n%s [%s]\n", sec.Name, sec.Category)
		for ii, it := range sec.Items {
			id := schema.ItemID{Section: si, Index: ii}
			fmt.Fprintf(out, "  %-7s %s (%s)", id, it.Name, it.Kind)
			if len(it.Options) > 0 {
				fmt.Fprintf(out, ": %s", strings.Join(it.Options, " | "))
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
