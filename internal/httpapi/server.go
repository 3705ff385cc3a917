package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/leandrodaf/fifths/internal/logger"
	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/leandrodaf/fifths/sdk/playback"
	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/rs/cors"
)

// DefaultPreviewDelay is how long key selection has to settle before the
// tonic chord is previewed.
const DefaultPreviewDelay = 250 * time.Millisecond

var errNoPlayer = errors.New("no sound device configured")

// Server exposes an engine, and optionally a playback mapper, over HTTP.
type Server struct {
	engine  *theory.Engine
	mapper  *playback.Mapper
	logger  contracts.Logger
	delay   time.Duration
	preview bool
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures and previews.
func WithLogger(l contracts.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMapper enables the /play, /stop and /instrument routes.
func WithMapper(m *playback.Mapper) Option {
	return func(s *Server) { s.mapper = m }
}

// WithPreview plays the tonic chord once selections stop changing for delay.
// It needs a mapper.
func WithPreview(delay time.Duration) Option {
	return func(s *Server) {
		s.preview = true
		s.delay = delay
	}
}

// New builds the routes over engine. Without WithMapper only the key and
// instrument listing routes work; the others answer 503.
func New(engine *theory.Engine, opts ...Option) *Server {
	s := &Server{engine: engine, delay: DefaultPreviewDelay}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.NewZapLogger()
	}

	if s.preview && s.mapper != nil {
		debounced := debounce.New(s.delay)
		engine.Subscribe(func(k theory.KeyState) {
			debounced(func() { s.previewTonic(k) })
		})
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/key", s.handleGetKey).Methods("GET")
	router.HandleFunc("/key/piano", s.handlePiano).Methods("GET")
	router.HandleFunc("/key/fretboard", s.handleFretboard).Methods("GET")
	router.HandleFunc("/key/tonic/{tonic}", s.handleSelectTonic).Methods("PUT")
	router.HandleFunc("/key/{position:-?[0-9]+}", s.handleSelectPosition).Methods("PUT")
	router.HandleFunc("/play/note", s.handlePlayNote).Methods("POST")
	router.HandleFunc("/play/chord", s.handlePlayChord).Methods("POST")
	router.HandleFunc("/play/progression", s.handlePlayProgression).Methods("POST")
	router.HandleFunc("/stop", s.handleStop).Methods("POST")
	router.HandleFunc("/instrument/{program:[0-9]+}", s.handleSetInstrument).Methods("PUT")
	router.HandleFunc("/instruments", s.handleInstruments).Methods("GET")
	s.router = router
	return s
}

// Handler returns the routes wrapped with CORS so a browser renderer served
// from another origin can call them.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

func (s *Server) previewTonic(k theory.KeyState) {
	if _, err := s.mapper.PlayChord(k.Chords.I.Notes[:]); err != nil {
		s.logger.Warn("tonic preview failed",
			s.logger.Field().String("tonic", k.Tonic),
			s.logger.Field().Error("error", err))
	}
}

func (s *Server) keyResponse(k theory.KeyState) KeyResponse {
	return KeyResponse{
		KeyState:      k,
		ActiveIndices: theory.NeighborIndices(k.Position),
		ScaleIndices:  theory.ScaleIndices(k.Position),
		Progression:   theory.DiatonicProgression(k),
	}
}

func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.keyResponse(s.engine.CurrentKey()))
}

func (s *Server) handleSelectPosition(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(mux.Vars(r)["position"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.keyResponse(s.engine.SelectPosition(position)))
}

func (s *Server) handleSelectTonic(w http.ResponseWriter, r *http.Request) {
	k, err := s.engine.SelectTonic(mux.Vars(r)["tonic"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, s.keyResponse(k))
}

func (s *Server) handlePiano(w http.ResponseWriter, r *http.Request) {
	k := s.engine.CurrentKey()
	writeJSON(w, http.StatusOK, theory.PianoKeys(k.Scale[:]))
}

func (s *Server) handleFretboard(w http.ResponseWriter, r *http.Request) {
	k := s.engine.CurrentKey()
	writeJSON(w, http.StatusOK, theory.Fretboard(k.Scale[:]))
}

func (s *Server) handlePlayNote(w http.ResponseWriter, r *http.Request) {
	var input NoteRequestBody
	if !s.decode(w, r, &input) {
		return
	}
	events, err := s.mapper.PlayNote(input.Note, playOptions(input.Velocity, input.DurationMs, 0)...)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, PlayResponse{Events: events})
}

func (s *Server) handlePlayChord(w http.ResponseWriter, r *http.Request) {
	var input ChordRequestBody
	if !s.decode(w, r, &input) {
		return
	}
	events, err := s.mapper.PlayChord(input.Notes, playOptions(input.Velocity, input.DurationMs, 0)...)
	if errors.Is(err, playback.ErrEmptyChord) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, PlayResponse{Events: events})
}

func (s *Server) handlePlayProgression(w http.ResponseWriter, r *http.Request) {
	var input ProgressionRequestBody
	if !s.decode(w, r, &input) {
		return
	}
	chords := input.Chords
	if len(chords) == 0 {
		chords = theory.DiatonicProgression(s.engine.CurrentKey())
	}

	p, err := s.mapper.PlayProgression(chords, playOptions(input.Velocity, 0, input.StepMs)...)
	if errors.Is(err, playback.ErrInvalidStep) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ProgressionResponse{ID: p.ID.String(), Events: p.Events})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.requirePlayer(w) {
		return
	}
	s.mapper.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetInstrument(w http.ResponseWriter, r *http.Request) {
	if !s.requirePlayer(w) {
		return
	}
	program, err := strconv.Atoi(mux.Vars(r)["program"])
	if err != nil || program > 127 {
		writeError(w, http.StatusBadRequest, errors.New("program must be between 0 and 127"))
		return
	}
	if err := s.mapper.SetInstrument(uint8(program)); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	instrument, ok := playback.InstrumentByProgram(uint8(program))
	if !ok {
		instrument = playback.Instrument{Name: "Program " + strconv.Itoa(program), Program: uint8(program)}
	}
	writeJSON(w, http.StatusOK, instrument)
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, playback.Instruments())
}

// decode checks that a player is configured and reads the JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if !s.requirePlayer(w) {
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Server) requirePlayer(w http.ResponseWriter) bool {
	if s.mapper == nil {
		writeError(w, http.StatusServiceUnavailable, errNoPlayer)
		return false
	}
	return true
}

func playOptions(velocity uint8, durationMs, stepMs int) []playback.PlayOption {
	var opts []playback.PlayOption
	if velocity > 0 {
		opts = append(opts, playback.WithVelocity(velocity))
	}
	if durationMs > 0 {
		opts = append(opts, playback.WithDuration(time.Duration(durationMs)*time.Millisecond))
	}
	if stepMs > 0 {
		opts = append(opts, playback.WithStep(time.Duration(stepMs)*time.Millisecond))
	}
	return opts
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
