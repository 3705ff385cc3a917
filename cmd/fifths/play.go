package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leandrodaf/fifths/sdk/playback"
	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/spf13/cobra"
)

var (
	playVelocity  uint8
	noteDuration  time.Duration
	chordDuration time.Duration
	playStep      time.Duration
)

func init() {
	playCmd.PersistentFlags().Uint8Var(&playVelocity, "velocity", 0, "note-on velocity, 1-127 (default depends on the command)")
	playNoteCmd.Flags().DurationVar(&noteDuration, "duration", playback.DefaultNoteDuration, "how long the note sounds")
	playChordCmd.Flags().DurationVar(&chordDuration, "duration", playback.DefaultChordDuration, "how long the chord sounds")
	playProgressionCmd.Flags().DurationVar(&playStep, "step", playback.DefaultProgressionStep, "time between chords")

	playCmd.AddCommand(playNoteCmd, playChordCmd, playProgressionCmd)
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Plays notes, chords and progressions on a MIDI output",
}

var playNoteCmd = &cobra.Command{
	Use:   "note NAME",
	Short: "Plays one note, e.g. C4 or F#3",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlayer(func(ctx context.Context, p *player) error {
			if _, err := p.PlayNote(args[0], playOptions(noteDuration)...); err != nil {
				return err
			}
			return sleep(ctx, noteDuration)
		})
	},
}

var playChordCmd = &cobra.Command{
	Use:   "chord NAME...",
	Short: "Plays notes together, e.g. C4 E4 G4",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlayer(func(ctx context.Context, p *player) error {
			if _, err := p.PlayChord(args, playOptions(chordDuration)...); err != nil {
				return err
			}
			return sleep(ctx, chordDuration)
		})
	},
}

var playProgressionCmd = &cobra.Command{
	Use:   "progression [position|tonic | CHORD...]",
	Short: "Plays a progression",
	Long: `Plays a progression. With no argument or a single key argument the
I ii iii IV V vi I progression of that key is played. Otherwise every argument is
one chord with comma separated notes, e.g. "C4,E4,G4" "F4,A4,C5".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chords, err := progressionFromArgs(args)
		if err != nil {
			return err
		}
		return withPlayer(func(ctx context.Context, p *player) error {
			opts := append(playOptions(0), playback.WithStep(playStep))
			prog, err := p.PlayProgression(chords, opts...)
			if err != nil {
				return err
			}
			select {
			case <-prog.Done():
			case <-ctx.Done():
				p.Stop()
			}
			return nil
		})
	},
}

func progressionFromArgs(args []string) ([][]string, error) {
	if len(args) <= 1 && (len(args) == 0 || !strings.Contains(args[0], ",")) {
		k, err := keyFromArgs(args)
		if err != nil {
			return nil, err
		}
		return theory.DiatonicProgression(k), nil
	}
	chords := make([][]string, len(args))
	for i, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				chords[i] = append(chords[i], name)
			}
		}
	}
	return chords, nil
}

func playOptions(duration time.Duration) []playback.PlayOption {
	var opts []playback.PlayOption
	if playVelocity > 0 {
		opts = append(opts, playback.WithVelocity(playVelocity))
	}
	if duration > 0 {
		opts = append(opts, playback.WithDuration(duration))
	}
	return opts
}

// withPlayer opens the output, runs fn until it returns or the user
// interrupts, then releases everything still sounding.
func withPlayer(fn func(context.Context, *player) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	p, err := newPlayer(log)
	if err != nil {
		return fmt.Errorf("opening MIDI output: %w", err)
	}
	defer p.Close()

	ctx, cancel := interruptContext()
	defer cancel()
	return fn(ctx, p)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	return nil
}
