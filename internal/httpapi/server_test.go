package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/leandrodaf/fifths/sdk/playback"
	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noteDevice records the keys it is asked to start and stop.
type noteDevice struct {
	mu       sync.Mutex
	ons      []uint8
	offs     []uint8
	programs []uint8
}

func (d *noteDevice) ProgramChange(_, program uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.programs = append(d.programs, program)
	return nil
}

func (d *noteDevice) NoteOn(_, key, _ uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ons = append(d.ons, key)
	return nil
}

func (d *noteDevice) NoteOff(_, key uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.offs = append(d.offs, key)
	return nil
}

func (d *noteDevice) SetController(_, _, _ uint8) error { return nil }
func (d *noteDevice) SystemReset() error                { return nil }
func (d *noteDevice) Resume() error                     { return nil }
func (d *noteDevice) Close() error                      { return nil }

func (d *noteDevice) started() []uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint8(nil), d.ons...)
}

// frozenClock accepts callbacks and never runs them.
type frozenClock struct{}

type frozenTimer struct{}

func (frozenTimer) Stop() bool { return true }

func (frozenClock) AfterFunc(time.Duration, func()) contracts.Timer { return frozenTimer{} }

func newTestServer(t *testing.T, opts ...Option) (*Server, *noteDevice) {
	t.Helper()
	device := &noteDevice{}
	mapper, err := playback.NewMapper(device,
		contracts.WithPlayerLogger(logger.NewNopLogger()),
		contracts.WithClock(frozenClock{}))
	require.NoError(t, err)

	engine := theory.NewEngine(contracts.WithEngineLogger(logger.NewNopLogger()))
	opts = append([]Option{WithLogger(logger.NewNopLogger()), WithMapper(mapper)}, opts...)
	return New(engine, opts...), device
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestGetKeyDefaultsToC(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/key", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res KeyResponse
	decodeBody(t, rec, &res)
	assert.Equal(t, "C", res.Tonic)
	assert.Equal(t, 0, res.Position)
	assert.Equal(t, []int{11, 0, 1}, res.ActiveIndices)
	assert.Equal(t, [3]string{"C", "E", "G"}, res.Chords.I.Notes)
	assert.Len(t, res.Progression, 7)
}

func TestSelectPosition(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/key/13", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res KeyResponse
	decodeBody(t, rec, &res)
	assert.Equal(t, "G", res.Tonic)
	assert.Equal(t, 1, res.Position)

	rec = do(t, s, http.MethodPut, "/key/-1", "")
	decodeBody(t, rec, &res)
	assert.Equal(t, "F", res.Tonic)
}

func TestSelectTonic(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/key/tonic/eb", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res KeyResponse
	decodeBody(t, rec, &res)
	assert.Equal(t, "Eb", res.Tonic)
	assert.Equal(t, 9, res.Position)

	rec = do(t, s, http.MethodPut, "/key/tonic/H", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var e ErrorResponse
	decodeBody(t, rec, &e)
	assert.NotEmpty(t, e.Error)
}

func TestPianoAndFretboard(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/key/piano", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var keys []theory.PianoKey
	decodeBody(t, rec, &keys)
	assert.Len(t, keys, 24)

	rec = do(t, s, http.MethodGet, "/key/fretboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var neck [][]theory.FretInfo
	decodeBody(t, rec, &neck)
	require.Len(t, neck, len(theory.StandardTuning))
	assert.Len(t, neck[0], theory.FretCount+1)
}

func TestPlayNoteAndChord(t *testing.T) {
	s, device := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/play/note", `{"note": "A4", "velocity": 80}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res PlayResponse
	decodeBody(t, rec, &res)
	require.Len(t, res.Events, 2)
	assert.Equal(t, []uint8{69}, res.Events[0].Pitches)
	assert.Equal(t, uint8(80), res.Events[0].Velocity)
	assert.Equal(t, playback.DefaultNoteDuration, res.Events[1].At)

	rec = do(t, s, http.MethodPost, "/play/chord", `{"notes": ["C4", "E4", "G4"], "duration_ms": 200}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &res)
	assert.Equal(t, 200*time.Millisecond, res.Events[1].At)

	assert.Equal(t, []uint8{69, 60, 64, 67}, device.started())
}

func TestPlayChordRejectsEmptyChord(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/play/chord", `{"notes": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayRejectsMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/play/note", `{"note":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayProgressionDefaultsToSelectedKey(t *testing.T) {
	s, device := newTestServer(t)
	do(t, s, http.MethodPut, "/key/1", "")

	rec := do(t, s, http.MethodPost, "/play/progression", `{}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var res ProgressionResponse
	decodeBody(t, rec, &res)
	assert.NotEmpty(t, res.ID)
	assert.Len(t, res.Events, 14)
	assert.Equal(t, []uint8{67, 71, 62}, device.started(), "first chord of G major starts right away")
}

func TestPlayProgressionRejectsShortStep(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/play/progression", `{"chords": [["C4"]], "step_ms": 50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStopAndInstrument(t *testing.T) {
	s, device := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/stop", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodPut, "/instrument/24", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var instrument playback.Instrument
	decodeBody(t, rec, &instrument)
	assert.Equal(t, uint8(24), instrument.Program)
	assert.Empty(t, device.programs, "program is sent with the first note")

	rec = do(t, s, http.MethodPut, "/instrument/300", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/instruments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []playback.Instrument
	decodeBody(t, rec, &list)
	assert.Equal(t, playback.Instruments(), list)
}

func TestPlayRoutesWithoutMapper(t *testing.T) {
	engine := theory.NewEngine(contracts.WithEngineLogger(logger.NewNopLogger()))
	s := New(engine, WithLogger(logger.NewNopLogger()))

	for _, path := range []string{"/play/note", "/play/chord", "/play/progression", "/stop"} {
		rec := do(t, s, http.MethodPost, path, `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/key", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/key/3", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreviewPlaysTonicOfLastSelection(t *testing.T) {
	s, device := newTestServer(t, WithPreview(20*time.Millisecond))

	do(t, s, http.MethodPut, "/key/2", "")
	do(t, s, http.MethodPut, "/key/1", "")

	var want []uint8
	for _, name := range theory.KeyAt(1).Chords.I.Notes {
		want = append(want, uint8(playback.ResolvePitch(name)))
	}
	require.Equal(t, []uint8{67, 71, 62}, want)

	assert.Eventually(t, func() bool {
		return len(device.started()) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, want, device.started(), "only G major is previewed")
}
