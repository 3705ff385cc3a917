package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/spf13/cobra"
)

var keyJSON bool

func init() {
	keyCmd.Flags().BoolVar(&keyJSON, "json", false, "print the key as JSON")
	rootCmd.AddCommand(keyCmd)
}

var keyCmd = &cobra.Command{
	Use:   "key [position|tonic]",
	Short: "Shows the scale, chords and highlights of a major key",
	Long: `Shows the scale, chords and highlights of a major key. The key is given as a
circle position (0 is C, 1 is G, -1 is F) or as a tonic name. Defaults to C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := keyFromArgs(args)
		if err != nil {
			return err
		}
		if keyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(k)
		}
		return writeKey(cmd.OutOrStdout(), k)
	},
}

func writeKey(w io.Writer, k theory.KeyState) error {
	fmt.Fprintf(w, "%s major (position %d, relative minor %s)\n\n", k.Tonic, k.Position, theory.InnerNotes()[k.Position])

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEGREE\tNOTE\tINTERVAL\tCHORD")
	for _, d := range k.Scale {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Ordinal, d.Note, d.Interval, d.Roman)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ROMAN\tNAME\tFUNCTION\tNOTES")
	for _, c := range k.Chords.List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Roman, c.Name, c.Function, strings.Join(c.Notes[:], " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPiano:     %s\n", pianoLine(theory.PianoKeys(k.Scale[:])))
	fmt.Fprintln(w, "Fretboard:")
	for _, row := range theory.Fretboard(k.Scale[:]) {
		fmt.Fprintf(w, "  %s\n", fretLine(row))
	}
	return nil
}

// pianoLine lists the highlighted keys, the root in brackets.
func pianoLine(keys []theory.PianoKey) string {
	var parts []string
	for _, key := range keys {
		if !key.Active {
			continue
		}
		name := fmt.Sprintf("%s%d", key.Note, key.Octave)
		if key.Root {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}

func fretLine(row []theory.FretInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-3s|", row[0].Name()))
	for _, f := range row[1:] {
		cell := "--"
		switch {
		case f.Root:
			cell = "R-"
		case f.Active:
			cell = "o-"
		}
		b.WriteString(fmt.Sprintf("-%s|", cell))
	}
	return b.String()
}
