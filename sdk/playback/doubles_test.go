package playback

import (
	"strconv"
	"sync"
	"time"

	"github.com/leandrodaf/fifths/sdk/contracts"
)

// recordingDevice is a contracts.SoundDevice that keeps every call.
type recordingDevice struct {
	mu         sync.Mutex
	calls      []string
	ons        []uint8
	offs       []uint8
	velocities []uint8
	sounding   map[uint8]int
	resumes    int
	resumeErr  error
	noteOnErr  error
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{sounding: make(map[uint8]int)}
}

func (d *recordingDevice) record(call string) {
	d.calls = append(d.calls, call)
}

func (d *recordingDevice) ProgramChange(channel, program uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(fmtCall("program", channel, program))
	return nil
}

func (d *recordingDevice) NoteOn(channel, key, velocity uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.noteOnErr != nil {
		return d.noteOnErr
	}
	d.record(fmtCall("on", channel, key))
	d.ons = append(d.ons, key)
	d.velocities = append(d.velocities, velocity)
	d.sounding[key]++
	return nil
}

func (d *recordingDevice) NoteOff(channel, key uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(fmtCall("off", channel, key))
	d.offs = append(d.offs, key)
	if d.sounding[key]--; d.sounding[key] <= 0 {
		delete(d.sounding, key)
	}
	return nil
}

func (d *recordingDevice) SetController(channel, controller, value uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(fmtCall("cc", channel, controller, value))
	return nil
}

func (d *recordingDevice) SystemReset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("reset")
	return nil
}

func (d *recordingDevice) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resumes++
	return d.resumeErr
}

func (d *recordingDevice) Close() error { return nil }

func (d *recordingDevice) snapshot() (ons, offs []uint8, sounding int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint8(nil), d.ons...), append([]uint8(nil), d.offs...), len(d.sounding)
}

func fmtCall(op string, args ...uint8) string {
	s := op
	for _, a := range args {
		s += " " + strconv.Itoa(int(a))
	}
	return s
}

// manualClock fires timers only when Advance moves time past them.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	seq     int
	f       func()
	fired   bool
	stopped bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) contracts.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.seq++
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance runs, in deadline order, every timer due within d.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.fired = true
		c.mu.Unlock()
		next.f()
	}
}

// Pending counts timers that have neither fired nor been stopped.
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
