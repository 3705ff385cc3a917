package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapper(t *testing.T, opts ...contracts.PlayerOption) (*Mapper, *recordingDevice, *manualClock) {
	t.Helper()
	dev := newRecordingDevice()
	clock := &manualClock{}
	base := []contracts.PlayerOption{
		contracts.WithPlayerLogger(logger.NewNopLogger()),
		contracts.WithClock(clock),
	}
	m, err := NewMapper(dev, append(base, opts...)...)
	require.NoError(t, err)
	return m, dev, clock
}

func isDone(p *Progression) bool {
	select {
	case <-p.Done():
		return true
	default:
		return false
	}
}

func TestNewMapperRequiresDevice(t *testing.T) {
	_, err := NewMapper(nil)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestFirstPlaybackInitialisesDeviceOnce(t *testing.T) {
	m, dev, _ := newTestMapper(t)

	_, err := m.PlayNote("C4")
	require.NoError(t, err)
	_, err = m.PlayNote("D4")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"reset",
		"program 0 0",
		"cc 0 7 100",
		"cc 0 91 40",
		"cc 0 10 64",
		"on 0 60",
		"on 0 62",
	}, dev.calls)
	assert.Equal(t, 2, dev.resumes, "resumed before every playback")
}

func TestPlayNoteDefaults(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	events, err := m.PlayNote("A4")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, contracts.EventNoteOn, events[0].Kind)
	assert.Equal(t, time.Duration(0), events[0].At)
	assert.Equal(t, DefaultVelocity, events[0].Velocity)
	assert.Equal(t, contracts.EventNoteOff, events[1].Kind)
	assert.Equal(t, DefaultNoteDuration, events[1].At)
	assert.Equal(t, []uint8{69}, events[1].Pitches)

	clock.Advance(499 * time.Millisecond)
	_, offs, sounding := dev.snapshot()
	assert.Empty(t, offs)
	assert.Equal(t, 1, sounding)

	clock.Advance(time.Millisecond)
	_, offs, sounding = dev.snapshot()
	assert.Equal(t, []uint8{69}, offs)
	assert.Zero(t, sounding)
	assert.Equal(t, []uint8{100}, dev.velocities)
}

func TestPlayNoteOptions(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	events, err := m.PlayNote("E2", WithVelocity(64), WithDuration(50*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, events[1].At)

	clock.Advance(50 * time.Millisecond)
	ons, offs, _ := dev.snapshot()
	assert.Equal(t, []uint8{40}, ons)
	assert.Equal(t, []uint8{40}, offs)
	assert.Equal(t, []uint8{64}, dev.velocities)
}

func TestPlayNoteSoftFailsToMiddleC(t *testing.T) {
	m, dev, _ := newTestMapper(t)

	_, err := m.PlayNote("not-a-note")
	require.NoError(t, err)
	ons, _, _ := dev.snapshot()
	assert.Equal(t, []uint8{60}, ons)
}

func TestPlayChordEmitsOnsThenOffs(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	events, err := m.PlayChord([]string{"C4", "E4", "G4"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, DefaultChordDuration, events[1].At)

	ons, offs, _ := dev.snapshot()
	assert.Equal(t, []uint8{60, 64, 67}, ons)
	assert.Empty(t, offs, "no note-off before the duration")

	clock.Advance(DefaultChordDuration - time.Millisecond)
	_, offs, _ = dev.snapshot()
	assert.Empty(t, offs)

	clock.Advance(time.Millisecond)
	ons, offs, sounding := dev.snapshot()
	assert.Len(t, ons, 3)
	assert.ElementsMatch(t, []uint8{60, 64, 67}, offs)
	assert.Zero(t, sounding)
	assert.Zero(t, clock.Pending())
}

func TestPlayChordDeduplicatesPitches(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	_, err := m.PlayChord([]string{"C4", "C4", "Db4", "C#4"})
	require.NoError(t, err)
	clock.Advance(DefaultChordDuration)

	ons, offs, _ := dev.snapshot()
	assert.Equal(t, []uint8{60, 61}, ons)
	assert.Equal(t, []uint8{60, 61}, offs)
}

func TestPlayChordRejectsEmptyChord(t *testing.T) {
	m, dev, _ := newTestMapper(t)
	_, err := m.PlayChord(nil)
	assert.ErrorIs(t, err, ErrEmptyChord)
	assert.Empty(t, dev.calls)
}

func TestPlaybackFailsWhenDeviceCannotResume(t *testing.T) {
	m, dev, clock := newTestMapper(t)
	dev.resumeErr = errors.New("suspended")

	_, err := m.PlayChord([]string{"C4"})
	assert.ErrorIs(t, err, dev.resumeErr)
	_, err = m.PlayProgression([][]string{{"C4"}})
	assert.ErrorIs(t, err, dev.resumeErr)

	assert.Empty(t, dev.calls)
	assert.Zero(t, clock.Pending())
}

func TestFailedNoteOnReleasesAndReportsError(t *testing.T) {
	m, dev, clock := newTestMapper(t)
	dev.noteOnErr = errors.New("port closed")

	_, err := m.PlayNote("C4")
	assert.ErrorIs(t, err, dev.noteOnErr)
	assert.Zero(t, clock.Pending())
}

func TestFailedFirstChordCancelsProgression(t *testing.T) {
	m, dev, clock := newTestMapper(t)
	dev.noteOnErr = errors.New("port closed")

	p, err := m.PlayProgression([][]string{{"C4", "E4"}, {"F4"}})
	assert.ErrorIs(t, err, dev.noteOnErr)
	assert.Nil(t, p)
	assert.Zero(t, clock.Pending(), "no step of the failed progression stays scheduled")

	_, offs, _ := dev.snapshot()
	assert.ElementsMatch(t, []uint8{60, 64}, offs, "attempted notes are released")

	dev.noteOnErr = nil
	p, err = m.PlayProgression([][]string{{"G4"}})
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestProgressionTiming(t *testing.T) {
	m, dev, clock := newTestMapper(t)
	chords := [][]string{{"C4", "E4", "G4"}, {"D4", "F4", "A4"}, {"G4", "B4", "D5"}}

	p, err := m.PlayProgression(chords)
	require.NoError(t, err)
	require.Len(t, p.Events, 6)
	for i := range chords {
		on, off := p.Events[2*i], p.Events[2*i+1]
		assert.Equal(t, time.Duration(i)*time.Second, on.At)
		assert.Equal(t, time.Duration(i)*time.Second+900*time.Millisecond, off.At)
		assert.Equal(t, DefaultProgressionVelocity, on.Velocity)
		assert.Equal(t, on.Pitches, off.Pitches)
	}

	ons, _, _ := dev.snapshot()
	assert.Equal(t, []uint8{60, 64, 67}, ons, "first chord starts immediately")

	clock.Advance(900 * time.Millisecond)
	_, offs, sounding := dev.snapshot()
	assert.Equal(t, []uint8{60, 64, 67}, offs)
	assert.Zero(t, sounding, "gap between chords")

	clock.Advance(100 * time.Millisecond)
	ons, _, _ = dev.snapshot()
	assert.Equal(t, []uint8{60, 64, 67, 62, 65, 69}, ons)

	assert.False(t, isDone(p))
	clock.Advance(2 * time.Second)
	ons, offs, sounding = dev.snapshot()
	assert.Len(t, ons, 9)
	assert.Len(t, offs, 9)
	assert.Zero(t, sounding)
	assert.True(t, isDone(p))
	assert.Equal(t, []uint8{90, 90, 90}, dev.velocities[:3])
}

func TestProgressionWithCustomStep(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	p, err := m.PlayProgression([][]string{{"C4"}, {"D4"}}, WithStep(500*time.Millisecond), WithVelocity(70))
	require.NoError(t, err)
	assert.Equal(t, 400*time.Millisecond, p.Events[1].At)
	assert.Equal(t, 500*time.Millisecond, p.Events[2].At)

	clock.Advance(time.Second)
	ons, offs, _ := dev.snapshot()
	assert.Equal(t, []uint8{60, 62}, ons)
	assert.Equal(t, []uint8{60, 62}, offs)
	assert.Equal(t, []uint8{70, 70}, dev.velocities)
}

func TestProgressionRejectsShortStep(t *testing.T) {
	m, _, _ := newTestMapper(t)
	_, err := m.PlayProgression([][]string{{"C4"}}, WithStep(ProgressionGap))
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestEmptyProgressionFinishesImmediately(t *testing.T) {
	m, _, clock := newTestMapper(t)
	p, err := m.PlayProgression([][]string{{}, {}})
	require.NoError(t, err)
	assert.True(t, isDone(p))
	assert.Zero(t, clock.Pending())
}

func TestNewProgressionCancelsEveryPendingStep(t *testing.T) {
	m, dev, clock := newTestMapper(t)
	first := [][]string{{"C4", "E4", "G4"}, {"F4", "A4", "C5"}, {"G4", "B4", "D5"}}

	p1, err := m.PlayProgression(first)
	require.NoError(t, err)
	clock.Advance(1200 * time.Millisecond) // second chord of p1 is sounding

	p2, err := m.PlayProgression([][]string{{"A3", "C4", "E4"}})
	require.NoError(t, err)
	assert.NotEqual(t, p1.ID, p2.ID)
	assert.True(t, isDone(p1))

	ons, offs, _ := dev.snapshot()
	assert.Equal(t, []uint8{60, 64, 67, 65, 69, 72, 57, 60, 64}, ons)
	assert.Equal(t, []uint8{60, 64, 67, 65, 69, 72}, offs, "p1 chord released when p2 starts")

	clock.Advance(10 * time.Second)
	ons, offs, sounding := dev.snapshot()
	assert.Len(t, ons, 9, "p1's last chord never starts")
	assert.Len(t, offs, 9)
	assert.Zero(t, sounding, "nothing stuck")
	assert.True(t, isDone(p2))
	assert.Zero(t, clock.Pending())
}

func TestBackToBackProgressionsLeaveNothingStuck(t *testing.T) {
	m, dev, clock := newTestMapper(t)
	chords := [][]string{{"C4", "E4", "G4"}, {"G3", "B3", "D4"}}

	_, err := m.PlayProgression(chords)
	require.NoError(t, err)
	_, err = m.PlayProgression(chords)
	require.NoError(t, err)

	clock.Advance(5 * time.Second)
	ons, offs, sounding := dev.snapshot()
	assert.Equal(t, len(ons), len(offs))
	assert.Zero(t, sounding)
}

func TestStopReleasesProgression(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	p, err := m.PlayProgression([][]string{{"C4"}, {"D4"}, {"E4"}})
	require.NoError(t, err)
	clock.Advance(1500 * time.Millisecond)

	m.Stop()
	m.Stop()
	assert.True(t, isDone(p))

	clock.Advance(5 * time.Second)
	ons, offs, sounding := dev.snapshot()
	assert.Equal(t, []uint8{60, 62}, ons)
	assert.Equal(t, []uint8{60, 62}, offs)
	assert.Zero(t, sounding)
}

func TestStopLeavesSingleNotesAlone(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	_, err := m.PlayNote("C4")
	require.NoError(t, err)
	m.Stop()
	_, offs, _ := dev.snapshot()
	assert.Empty(t, offs)

	clock.Advance(DefaultNoteDuration)
	_, offs, _ = dev.snapshot()
	assert.Equal(t, []uint8{60}, offs)
}

func TestCloseFlushesPendingReleases(t *testing.T) {
	m, dev, clock := newTestMapper(t)

	_, err := m.PlayChord([]string{"C4", "E4"})
	require.NoError(t, err)
	_, err = m.PlayProgression([][]string{{"G4"}, {"A4"}})
	require.NoError(t, err)

	require.NoError(t, m.Close())
	_, _, sounding := dev.snapshot()
	assert.Zero(t, sounding)

	clock.Advance(10 * time.Second)
	ons, offs, _ := dev.snapshot()
	assert.Equal(t, len(ons), len(offs), "timers stopped after close")
}

func TestSetInstrument(t *testing.T) {
	m, dev, _ := newTestMapper(t)

	require.NoError(t, m.SetInstrument(24))
	assert.Empty(t, dev.calls, "remembered until the device is initialised")
	assert.Equal(t, uint8(24), m.Program())

	_, err := m.PlayNote("C4")
	require.NoError(t, err)
	assert.Equal(t, "program 0 24", dev.calls[1])

	require.NoError(t, m.SetInstrument(40))
	assert.Equal(t, "program 0 40", dev.calls[len(dev.calls)-1])
}

func TestChannelAndProgramOptions(t *testing.T) {
	m, dev, _ := newTestMapper(t,
		contracts.WithChannel(2),
		contracts.WithProgram(48),
		contracts.WithInitControllers(contracts.ControllerSetting{Controller: 7, Value: 80}))

	events, err := m.PlayNote("C4")
	require.NoError(t, err)
	assert.Equal(t, uint8(2), events[0].Channel)
	assert.Equal(t, []string{"reset", "program 2 48", "cc 2 7 80", "on 2 60"}, dev.calls)
}

func TestEventSink(t *testing.T) {
	sink := make(chan contracts.ScheduledEvent, 8)
	m, _, clock := newTestMapper(t, contracts.WithEventSink(sink))

	_, err := m.PlayChord([]string{"C4", "E4", "G4"})
	require.NoError(t, err)
	clock.Advance(DefaultChordDuration)

	require.Len(t, sink, 2)
	on := <-sink
	off := <-sink
	assert.Equal(t, contracts.EventNoteOn, on.Kind)
	assert.Equal(t, []uint8{60, 64, 67}, on.Pitches)
	assert.Equal(t, contracts.EventNoteOff, off.Kind)
	assert.Equal(t, DefaultChordDuration, off.At)
}

func TestFullEventSinkDoesNotBlock(t *testing.T) {
	sink := make(chan contracts.ScheduledEvent)
	m, dev, clock := newTestMapper(t, contracts.WithEventSink(sink))

	_, err := m.PlayNote("C4")
	require.NoError(t, err)
	clock.Advance(DefaultNoteDuration)

	_, offs, _ := dev.snapshot()
	assert.Equal(t, []uint8{60}, offs)
}
