package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/leandrodaf/fifths/sdk/playback"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(instrumentsCmd)
}

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "Lists the General MIDI instrument presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROGRAM\tNAME")
		for _, instrument := range playback.Instruments() {
			fmt.Fprintf(tw, "%d\t%s\n", instrument.Program, instrument.Name)
		}
		return tw.Flush()
	},
}
