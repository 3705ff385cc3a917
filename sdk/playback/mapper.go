package playback

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leandrodaf/fifths/sdk/contracts"
)

var (
	// ErrNoDevice is returned when a mapper is created without a sound device.
	ErrNoDevice = errors.New("no sound device")
	// ErrEmptyChord is returned by PlayChord for an empty note list.
	ErrEmptyChord = errors.New("chord has no notes")
	// ErrInvalidStep is returned when a progression step does not leave room
	// for the gap between chords.
	ErrInvalidStep = errors.New("progression step must be longer than the gap between chords")
)

// Mapper turns note names into timed note-on/note-off commands for a sound
// device. All device traffic, including the traffic produced by timers, is
// serialised by one mutex.
type Mapper struct {
	device      contracts.SoundDevice
	logger      contracts.Logger
	clock       contracts.Clock
	channel     uint8
	controllers []contracts.ControllerSetting
	sink        chan<- contracts.ScheduledEvent

	mu          sync.Mutex
	initialized bool
	program     uint8
	nextRelease uint64
	releases    map[uint64]*release
	progression *Progression
}

// release is the pending note-off of a PlayNote or PlayChord call.
type release struct {
	timer contracts.Timer
	off   contracts.ScheduledEvent
}

// NewMapper creates a mapper driving device. The device is not touched until
// the first playback request.
func NewMapper(device contracts.SoundDevice, opts ...contracts.PlayerOption) (*Mapper, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	options := applyDefaultOptions(opts...)

	return &Mapper{
		device:      device,
		logger:      options.Logger,
		clock:       options.Clock,
		channel:     options.Channel,
		controllers: options.InitControllers,
		sink:        options.EventSink,
		program:     options.Program,
		releases:    make(map[uint64]*release),
	}, nil
}

// SetInstrument selects a General MIDI program on the primary channel. Before
// the device is initialised the program is only remembered and sent as part of
// initialisation.
func (m *Mapper) SetInstrument(program uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.program = program & 0x7F
	m.logger.Info("instrument selected", m.logger.Field().Uint8("program", m.program))
	if !m.initialized {
		return nil
	}
	if err := m.device.ProgramChange(m.channel, m.program); err != nil {
		return fmt.Errorf("program change: %w", err)
	}
	return nil
}

// Program returns the program used for the primary channel.
func (m *Mapper) Program() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.program
}

// PlayNote sounds one note now and releases it after the duration (500ms and
// velocity 100 unless overridden). Unparseable names play middle C.
func (m *Mapper) PlayNote(name string, opts ...PlayOption) ([]contracts.ScheduledEvent, error) {
	return m.playBatch([]string{name}, settings(DefaultVelocity, DefaultNoteDuration, opts))
}

// PlayChord sounds all notes together and releases them together after the
// duration (1500ms and velocity 100 unless overridden).
func (m *Mapper) PlayChord(names []string, opts ...PlayOption) ([]contracts.ScheduledEvent, error) {
	if len(names) == 0 {
		return nil, ErrEmptyChord
	}
	return m.playBatch(names, settings(DefaultVelocity, DefaultChordDuration, opts))
}

func (m *Mapper) playBatch(names []string, s playSettings) ([]contracts.ScheduledEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureReadyLocked(); err != nil {
		return nil, err
	}

	pitches := m.resolve(names)
	on := m.event(0, pitches, s.velocity, contracts.EventNoteOn)
	off := m.event(s.duration, pitches, 0, contracts.EventNoteOff)

	if err := m.sendLocked(on); err != nil {
		_ = m.sendLocked(off)
		return nil, err
	}

	id := m.nextRelease
	m.nextRelease++
	r := &release{off: off}
	m.releases[id] = r
	r.timer = m.clock.AfterFunc(s.duration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.releases[id]; !ok {
			return
		}
		delete(m.releases, id)
		if err := m.sendLocked(off); err != nil {
			m.logger.Error("note off failed", m.logger.Field().Error("error", err))
		}
	})

	return []contracts.ScheduledEvent{on, off}, nil
}

// PlayProgression plays chords one after another, step apart (1000ms by
// default), each held for step minus ProgressionGap at velocity 90. Any
// progression still running is cancelled first and its sounding notes are
// released.
func (m *Mapper) PlayProgression(chords [][]string, opts ...PlayOption) (*Progression, error) {
	s := settings(DefaultProgressionVelocity, 0, opts)
	if s.step <= ProgressionGap {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStep, s.step)
	}
	hold := s.step - ProgressionGap

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelProgressionLocked("replaced")
	if err := m.ensureReadyLocked(); err != nil {
		return nil, err
	}

	p := newProgression()
	type step struct{ on, off contracts.ScheduledEvent }
	var steps []step
	for i, names := range chords {
		pitches := m.resolve(names)
		at := time.Duration(i) * s.step
		on := m.event(at, pitches, s.velocity, contracts.EventNoteOn)
		off := m.event(at+hold, pitches, 0, contracts.EventNoteOff)
		p.Events = append(p.Events, on, off)
		if len(pitches) > 0 {
			steps = append(steps, step{on, off})
		}
	}

	p.remaining = len(steps)
	if p.remaining == 0 {
		p.finish()
		return p, nil
	}
	m.progression = p

	for _, st := range steps {
		on, off := st.on, st.off
		if on.At == 0 {
			if err := m.startStepLocked(p, on); err != nil {
				m.cancelProgressionLocked("failed")
				return nil, err
			}
		} else {
			p.timers = append(p.timers, m.clock.AfterFunc(on.At, func() {
				m.mu.Lock()
				defer m.mu.Unlock()
				if p.cancelled {
					return
				}
				if err := m.startStepLocked(p, on); err != nil {
					m.logger.Error("progression chord failed", m.logger.Field().Error("error", err))
				}
			}))
		}
		p.timers = append(p.timers, m.clock.AfterFunc(off.At, func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if !p.cancelled {
				m.finishStepLocked(p, off)
			}
		}))
	}

	m.logger.Info("progression scheduled",
		m.logger.Field().String("id", p.ID.String()),
		m.logger.Field().Int("chords", len(chords)),
		m.logger.Field().Duration("step", s.step))
	return p, nil
}

// Stop cancels the running progression, if any, and releases its notes.
func (m *Mapper) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelProgressionLocked("stopped")
}

// Close stops playback and sends every pending note-off right away. The
// device itself is left open; it belongs to the caller.
func (m *Mapper) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelProgressionLocked("closed")

	var errs []error
	for id, r := range m.releases {
		r.timer.Stop()
		delete(m.releases, id)
		if err := m.sendLocked(m.event(0, r.off.Pitches, 0, contracts.EventNoteOff)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ensureReadyLocked resumes the device and, the first time only, puts it in
// General MIDI 2 mode with the channel defaults.
func (m *Mapper) ensureReadyLocked() error {
	if err := m.device.Resume(); err != nil {
		return fmt.Errorf("resuming sound device: %w", err)
	}
	if m.initialized {
		return nil
	}

	if err := m.device.SystemReset(); err != nil {
		return fmt.Errorf("system reset: %w", err)
	}
	if err := m.device.ProgramChange(m.channel, m.program); err != nil {
		return fmt.Errorf("program change: %w", err)
	}
	for _, c := range m.controllers {
		if err := m.device.SetController(m.channel, c.Controller, c.Value); err != nil {
			return fmt.Errorf("controller %d: %w", c.Controller, err)
		}
	}

	m.initialized = true
	m.logger.Info("sound device initialised",
		m.logger.Field().Uint8("channel", m.channel),
		m.logger.Field().Uint8("program", m.program))
	return nil
}

func (m *Mapper) resolve(names []string) []uint8 {
	return distinctPitches(names, func(name string, err error) {
		m.logger.Warn("playing middle C instead of unreadable note",
			m.logger.Field().String("note", name),
			m.logger.Field().Error("error", err))
	})
}

// distinctPitches maps names to distinct pitches in order of first appearance.
// Unreadable names become MiddleC after being reported to fallback, if set.
func distinctPitches(names []string, fallback func(name string, err error)) []uint8 {
	out := make([]uint8, 0, len(names))
	for _, name := range names {
		p, err := ParsePitch(name)
		if err != nil {
			if fallback != nil {
				fallback(name, err)
			}
			p = MiddleC
		}
		if !slices.Contains(out, uint8(p)) {
			out = append(out, uint8(p))
		}
	}
	return out
}

func (m *Mapper) event(at time.Duration, pitches []uint8, velocity uint8, kind contracts.EventKind) contracts.ScheduledEvent {
	return contracts.ScheduledEvent{
		At:       at,
		Channel:  m.channel,
		Pitches:  pitches,
		Velocity: velocity,
		Kind:     kind,
	}
}

// startStepLocked sends a chord and counts its pitches as sounding even when
// the send fails, so that cancellation still releases them.
func (m *Mapper) startStepLocked(p *Progression, on contracts.ScheduledEvent) error {
	err := m.sendLocked(on)
	for _, key := range on.Pitches {
		p.sounding[key]++
	}
	return err
}

func (m *Mapper) finishStepLocked(p *Progression, off contracts.ScheduledEvent) {
	if err := m.sendLocked(off); err != nil {
		m.logger.Error("progression release failed", m.logger.Field().Error("error", err))
	}
	for _, key := range off.Pitches {
		if p.sounding[key]--; p.sounding[key] <= 0 {
			delete(p.sounding, key)
		}
	}

	p.remaining--
	if p.remaining == 0 {
		p.finish()
		if m.progression == p {
			m.progression = nil
		}
		m.logger.Debug("progression finished", m.logger.Field().String("id", p.ID.String()))
	}
}

// cancelProgressionLocked stops every pending timer of the running
// progression and releases whatever it left sounding.
func (m *Mapper) cancelProgressionLocked(reason string) {
	p := m.progression
	if p == nil {
		return
	}
	m.progression = nil
	p.cancelled = true

	stopped := 0
	for _, t := range p.timers {
		if t.Stop() {
			stopped++
		}
	}

	held := make([]uint8, 0, len(p.sounding))
	for key := range p.sounding {
		held = append(held, key)
	}
	slices.Sort(held)
	clear(p.sounding)
	if len(held) > 0 {
		if err := m.sendLocked(m.event(0, held, 0, contracts.EventNoteOff)); err != nil {
			m.logger.Error("releasing cancelled progression failed", m.logger.Field().Error("error", err))
		}
	}
	p.finish()

	m.logger.Info("progression cancelled",
		m.logger.Field().String("id", p.ID.String()),
		m.logger.Field().String("reason", reason),
		m.logger.Field().Int("timersStopped", stopped),
		m.logger.Field().Int("notesReleased", len(held)))
}

// sendLocked sends one batch to the device and forwards it to the event sink.
func (m *Mapper) sendLocked(ev contracts.ScheduledEvent) error {
	var errs []error
	for _, key := range ev.Pitches {
		var err error
		if ev.Kind == contracts.EventNoteOn {
			err = m.device.NoteOn(ev.Channel, key, ev.Velocity)
		} else {
			err = m.device.NoteOff(ev.Channel, key)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("note %s %d: %w", ev.Kind, key, err))
		}
	}

	m.logger.Debug("notes sent",
		m.logger.Field().String("kind", ev.Kind.String()),
		m.logger.Field().Uint8("status", ev.Kind.Command().Status(ev.Channel)),
		m.logger.Field().Ints("pitches", toInts(ev.Pitches)),
		m.logger.Field().Duration("at", ev.At))
	m.emit(ev)
	return errors.Join(errs...)
}

func (m *Mapper) emit(ev contracts.ScheduledEvent) {
	if m.sink == nil {
		return
	}
	ev.Pitches = slices.Clone(ev.Pitches)
	select {
	case m.sink <- ev:
	default:
		m.logger.Warn("event sink full; dropping scheduled event")
	}
}

func toInts(keys []uint8) []int {
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = int(k)
	}
	return out
}

// Progression is a scheduled run of chords. Its fields other than ID and
// Events are guarded by the mapper that created it.
type Progression struct {
	ID     uuid.UUID
	Events []contracts.ScheduledEvent // planned on/off batches, in chord order

	timers    []contracts.Timer
	sounding  map[uint8]int
	remaining int
	cancelled bool
	done      chan struct{}
}

func newProgression() *Progression {
	return &Progression{
		ID:       uuid.New(),
		sounding: make(map[uint8]int),
		done:     make(chan struct{}),
	}
}

// Done is closed once the last chord is released or the progression is
// cancelled.
func (p *Progression) Done() <-chan struct{} { return p.done }

func (p *Progression) finish() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}
