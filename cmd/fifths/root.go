package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/leandrodaf/fifths/sdk/midi"
	"github.com/leandrodaf/fifths/sdk/playback"
	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/spf13/cobra"
)

var (
	portName string
	device   int
	program  uint8
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "fifths",
	Short: "Circle of fifths harmony reference",
	Long: `Fifths explores major keys around the circle of fifths: scales, diatonic
chords, keyboard and fretboard highlights, and plays them on a MIDI synth.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&portName, "port", "", "MIDI output port name (substring match); native output when empty")
	flags.IntVar(&device, "device", 0, "index of the native MIDI output when --port is empty")
	flags.Uint8Var(&program, "program", 0, "General MIDI program to play with")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error, fatal")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func newLogger() (contracts.Logger, error) {
	level, err := contracts.ParseLogLevel(logLevel)
	if err != nil {
		return nil, err
	}
	l := logger.NewZapLogger()
	l.SetLevel(level)
	if logFile != "" {
		if err := l.SetDestination(contracts.FileLog, logFile); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// player bundles a mapper with the device it drives so both can be closed.
type player struct {
	*playback.Mapper
	device contracts.SoundDevice
}

func newPlayer(log contracts.Logger) (*player, error) {
	level, err := contracts.ParseLogLevel(logLevel)
	if err != nil {
		return nil, err
	}
	dev, err := midi.NewSoundDevice(
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithPortName(portName),
		contracts.WithDeviceIndex(device),
	)
	if err != nil {
		return nil, err
	}
	mapper, err := playback.NewMapper(dev,
		contracts.WithPlayerLogger(log),
		contracts.WithProgram(program),
	)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return &player{Mapper: mapper, device: dev}, nil
}

func (p *player) Close() error {
	err := p.Mapper.Close()
	if cerr := p.device.Close(); err == nil {
		err = cerr
	}
	return err
}

// parseKey accepts a circle position ("1", "-1") or a major tonic ("G", "bb").
func parseKey(arg string) (theory.KeyState, error) {
	if p, err := strconv.Atoi(arg); err == nil {
		return theory.KeyAt(p), nil
	}
	p, ok := theory.TonicPosition(arg)
	if !ok {
		return theory.KeyState{}, fmt.Errorf("%w: %q", theory.ErrUnknownTonic, arg)
	}
	return theory.KeyAt(p), nil
}

func keyFromArgs(args []string) (theory.KeyState, error) {
	if len(args) == 0 {
		return theory.KeyAt(0), nil
	}
	return parseKey(args[0])
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
