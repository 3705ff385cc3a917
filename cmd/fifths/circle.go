package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(circleCmd)
}

var circleCmd = &cobra.Command{
	Use:   "circle [position|tonic]",
	Short: "Prints both rings of the circle with the chord labels of a key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := keyFromArgs(args)
		if err != nil {
			return err
		}
		return writeCircle(cmd.OutOrStdout(), k.Position)
	},
}

func writeCircle(w io.Writer, selected int) error {
	outer, inner := theory.OuterNotes(), theory.InnerNotes()
	active := make(map[int]bool)
	for _, i := range theory.NeighborIndices(selected) {
		active[i] = true
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tMAJOR\t\tMINOR\t")
	for i := 0; i < theory.CircleSize; i++ {
		marker := " "
		if i == theory.Wrap(selected) {
			marker = "*"
		} else if active[i] {
			marker = "+"
		}
		fmt.Fprintf(tw, "%s%d\t%s\t%s\t%s\t%s\n", marker, i,
			outer[i], theory.RomanLabel(selected, i, theory.OuterRing),
			inner[i], theory.RomanLabel(selected, i, theory.InnerRing))
	}
	return tw.Flush()
}
