package main

import (
	"context"
	"fmt"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/core"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/spf13/cobra"
)

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Set the inspection header fields",
	Long:  "Set the inspection header fields. Only the flags given are changed.",
	Args:  cobra.NoArgs,
	RunE:  runHeader,
}

var headerInput schema.InspectionHeader

func init() {
	headerCmd.Flags().StringVar(&headerInput.PlateNumber, "plate", "", "Plate number")
	headerCmd.Flags().StringVar(&headerInput.Date, "date", "", "Inspection date (YYYY-MM-DD)")
	headerCmd.Flags().StringVar(&headerInput.OperationNumber, "operation", "", "Operation number")
	headerCmd.Flags().StringVar(&headerInput.SeatCount, "seats", "", "Seat count (1-100)")
	headerCmd.Flags().StringVar(&headerInput.SchoolName, "school", "", "School name")
	headerCmd.Flags().StringVar(&headerInput.Odometer, "odometer", "", "Odometer reading in km")

	rootCmd.AddCommand(headerCmd)
}

func runHeader(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(_ context.Context, s *core.Session) error {
		h, err := s.SetHeader(headerInput)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range []struct{ field, value string }{
			{"PlateNumber", h.PlateNumber},
			{"Date", h.Date},
			{"OperationNumber", h.OperationNumber},
			{"SeatCount", h.SeatCount},
			{"SchoolName", h.SchoolName},
			{"Odometer", h.Odometer},
		} {
			fmt.Fprintf(out, "%s: %s\n", schema.HeaderLabel(f.field), f.value)
		}
		return nil
	})
}
