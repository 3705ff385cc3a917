package main

import (
	"fmt"

	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/leandrodaf/fifths/sdk/midi"
	"github.com/leandrodaf/fifths/sdk/playback"
	"github.com/leandrodaf/fifths/sdk/theory"
)

func main() {
	log := logger.NewZapLogger()

	devices, err := midi.ListDevices(contracts.WithLogger(log))
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI outputs found or error listing outputs", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI outputs:", devices)

	device, err := midi.NewSoundDevice(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithDeviceIndex(0),
	)
	if err != nil {
		log.Error("Failed to open MIDI output", log.Field().Error("error", err))
		return
	}
	defer device.Close()

	events := make(chan contracts.ScheduledEvent, 100)
	go func() {
		for event := range events {
			log.Info("MIDI Event",
				log.Field().Duration("At", event.At),
				log.Field().String("Kind", event.Kind.String()),
				log.Field().Ints("Pitches", toInts(event.Pitches)),
			)
		}
	}()

	mapper, err := playback.NewMapper(device,
		contracts.WithPlayerLogger(log),
		contracts.WithProgram(0),
		contracts.WithEventSink(events),
	)
	if err != nil {
		log.Error("Failed to create mapper", log.Field().Error("error", err))
		return
	}
	defer mapper.Close()

	engine := theory.NewEngine(contracts.WithEngineLogger(log))
	key := engine.SelectPosition(1)
	fmt.Printf("%s major: %v\n", key.Tonic, key.ScaleNotes())

	progression, err := mapper.PlayProgression(theory.DiatonicProgression(key))
	if err != nil {
		log.Error("Failed to play progression", log.Field().Error("error", err))
		return
	}

	fmt.Println("Playing I ii iii IV V vi I...")
	<-progression.Done()
}

func toInts(pitches []uint8) []int {
	out := make([]int, len(pitches))
	for i, p := range pitches {
		out[i] = int(p)
	}
	return out
}
