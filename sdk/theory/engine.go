package theory

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
)

// ErrUnknownTonic is returned by SelectTonic for names that are not a major
// tonic on the circle (or an enharmonic spelling of one).
var ErrUnknownTonic = errors.New("unknown tonic")

// Engine owns the current circle selection. Everything else it exposes is
// derived from that one integer on demand.
type Engine struct {
	logger contracts.Logger

	// selectMu orders selections so subscribers see them in the order they
	// were stored.
	selectMu sync.Mutex

	mu       sync.RWMutex
	position int

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(KeyState)
}

// NewEngine creates an engine positioned on C unless told otherwise.
func NewEngine(opts ...contracts.EngineOption) *Engine {
	options := contracts.EngineOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}

	return &Engine{
		logger:   options.Logger,
		position: Wrap(options.InitialPosition),
		subs:     make(map[int]func(KeyState)),
	}
}

// SelectPosition moves the selection to p modulo 12 and returns the new key.
// Subscribers are notified on every call, including repeated selections, and
// must not select from inside the callback.
func (e *Engine) SelectPosition(p int) KeyState {
	pos := Wrap(p)

	e.selectMu.Lock()
	defer e.selectMu.Unlock()

	e.mu.Lock()
	e.position = pos
	e.mu.Unlock()

	k := KeyAt(pos)
	e.logger.Debug("key selected",
		e.logger.Field().Int("position", pos),
		e.logger.Field().String("tonic", k.Tonic))
	e.notify(k)
	return k
}

// SelectTonic selects the position whose tonic is name. Enharmonic spellings
// of a tonic ("F#" for "Gb") are accepted.
func (e *Engine) SelectTonic(name string) (KeyState, error) {
	pos, ok := TonicPosition(name)
	if !ok {
		return KeyState{}, fmt.Errorf("%w: %q", ErrUnknownTonic, name)
	}
	return e.SelectPosition(pos), nil
}

// Position returns the selected circle position.
func (e *Engine) Position() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

// CurrentKey derives the key for the current selection.
func (e *Engine) CurrentKey() KeyState {
	return KeyAt(e.Position())
}

// ActiveNeighborIndices returns the positions of IV, I and V.
func (e *Engine) ActiveNeighborIndices() []int {
	return NeighborIndices(e.Position())
}

// ScaleNoteIndices returns the seven positions holding the notes of the key.
func (e *Engine) ScaleNoteIndices() []int {
	return ScaleIndices(e.Position())
}

// Subscribe registers fn to receive the key after every selection. The
// returned function removes the subscription.
func (e *Engine) Subscribe(fn func(KeyState)) (cancel func()) {
	e.subMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
		})
	}
}

func (e *Engine) notify(k KeyState) {
	e.subMu.Lock()
	fns := make([]func(KeyState), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(k)
	}
}

// TonicPosition finds the circle position of a major tonic.
func TonicPosition(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	name = strings.ToUpper(name[:1]) + name[1:]
	want := Normalize(name)
	for i, tonic := range outerNotes {
		if tonic == name || Normalize(tonic) == want {
			return i, true
		}
	}
	return 0, false
}
