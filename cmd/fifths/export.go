package main

import (
	"os"
	"time"

	"github.com/leandrodaf/fifths/sdk/playback"
	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/spf13/cobra"
)

var (
	exportOut  string
	exportStep time.Duration
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "progression.mid", "file to write")
	exportCmd.Flags().DurationVar(&exportStep, "step", playback.DefaultProgressionStep, "time between chords")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [position|tonic]",
	Short: "Writes the I ii iii IV V vi I progression of a key as a MIDI file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := keyFromArgs(args)
		if err != nil {
			return err
		}
		log, err := newLogger()
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()

		err = playback.ExportProgression(f, theory.DiatonicProgression(k), playback.ExportOptions{
			Program: program,
			Step:    exportStep,
		})
		if err != nil {
			return err
		}
		log.Info("progression exported",
			log.Field().String("key", k.Tonic),
			log.Field().String("file", exportOut))
		return f.Close()
	},
}
