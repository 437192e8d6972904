package playback

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-sonify/sonify"
)

// Config carries the device settings.
type Config struct {
	// SampleRate is fixed for the lifetime of the device; every played
	// Program must be built at the same rate.
	SampleRate int

	// OnTransition receives session state changes. Optional.
	OnTransition func(Transition)

	// Logger records session transitions. Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the standard device settings.
func DefaultConfig() Config {
	return Config{SampleRate: 44100}
}

func (c *Config) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	return nil
}

// Device is the single owner of the host audio context. The context is
// acquired lazily on the first Play and held until Close; acquisition
// failure surfaces as an explicit error. At most one session is playing at
// a time; Play stops any prior session before building the next graph.
type Device struct {
	cfg Config

	mu      sync.Mutex
	backend audioBackend
	current *Session
	closed  bool

	// openBackend acquires the host context; swapped in tests.
	openBackend func(sampleRate int) (audioBackend, error)
}

// audioBackend abstracts the host audio context.
type audioBackend interface {
	NewPlayer(r io.Reader) audioPlayer
	Close() error
}

// audioPlayer abstracts one output stream.
type audioPlayer interface {
	Play()
	IsPlaying() bool
	Close() error
}

// Open validates the configuration and returns a Device. No audio resource
// is acquired until the first Play.
func Open(cfg Config) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	return &Device{cfg: cfg, openBackend: openOtoBackend}, nil
}

// Play realizes the Program on the device. Any prior session is stopped
// first, its completion callback suppressed. onComplete fires exactly once
// when the stream drains naturally, and never after Stop.
func (d *Device) Play(prog *sonify.Program, onComplete func()) (*Session, error) {
	if prog == nil {
		return nil, fmt.Errorf("playback: nil program")
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("playback: device closed")
	}
	if prog.SampleRate != d.cfg.SampleRate {
		d.mu.Unlock()
		return nil, fmt.Errorf("playback: program rate %d on a %d Hz device", prog.SampleRate, d.cfg.SampleRate)
	}
	if prior := d.current; prior != nil {
		d.mu.Unlock()
		prior.Stop()
		d.mu.Lock()
	}

	s := &Session{
		id:         uuid.New(),
		dev:        d,
		state:      StateIdle,
		onComplete: onComplete,
		done:       make(chan struct{}),
	}
	d.current = s
	d.mu.Unlock()

	s.transition(StatePriming)

	d.mu.Lock()
	if d.backend == nil {
		backend, err := d.openBackend(d.cfg.SampleRate)
		if err != nil {
			d.mu.Unlock()
			s.fail()
			return nil, fmt.Errorf("playback: audio context: %w", err)
		}
		d.backend = backend
	}
	backend := d.backend
	d.mu.Unlock()

	renderer, err := sonify.NewRenderer(prog)
	if err != nil {
		s.fail()
		return nil, fmt.Errorf("playback: %w", err)
	}

	s.stream = &streamReader{renderer: renderer}
	s.player = backend.NewPlayer(s.stream)
	s.player.Play()
	s.transition(StatePlaying)

	go s.pump()
	return s, nil
}

// Close stops any live session and releases the audio context. The device
// cannot be reused afterwards.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	current := d.current
	backend := d.backend
	d.backend = nil
	d.mu.Unlock()

	if current != nil {
		current.Stop()
	}
	if backend != nil {
		return backend.Close()
	}
	return nil
}

// Session is one live realization of a Program.
type Session struct {
	id  uuid.UUID
	dev *Device

	mu      sync.Mutex
	state   State
	stopped bool

	stream     *streamReader
	player     audioPlayer
	onComplete func()
	done       chan struct{}
}

// ID returns the session's correlation id.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current lifecycle stage.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the session reaches StateStopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Stop halts the session: no further steps sound, the master bus fades over
// 50 ms and the completion callback is suppressed. The session is in
// StateStopped when Stop returns; the short fade drains in the background.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	stream := s.stream
	s.mu.Unlock()

	if stream != nil {
		stream.fadeOut()
		// Let the stop fade drain before tearing the player down; a bounded
		// wait keeps Stop from hanging on a stalled output.
		deadline := time.Now().Add(200 * time.Millisecond)
		for !stream.finished() && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
	}
	s.finish()
}

// pump waits for the stream to drain, then closes the player and finishes
// the session. Completion fires only on a natural drain.
func (s *Session) pump() {
	for {
		s.mu.Lock()
		state := s.state
		player := s.player
		stream := s.stream
		s.mu.Unlock()

		if state == StateStopped {
			return
		}
		if stream.finished() && (player == nil || !player.IsPlaying()) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.finish()
}

// fail moves a session that never went live straight to StateStopped.
func (s *Session) fail() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.finish()
}

// finish is idempotent: the first caller closes the player, transitions to
// StateStopped and decides whether completion fires.
func (s *Session) finish() {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	from := s.state
	s.state = StateStopped
	natural := !s.stopped
	complete := s.onComplete
	player := s.player
	s.mu.Unlock()

	if player != nil {
		player.Close()
	}
	s.dev.notify(s.id, from, StateStopped)
	close(s.done)

	s.dev.mu.Lock()
	if s.dev.current == s {
		s.dev.current = nil
	}
	s.dev.mu.Unlock()

	if natural && complete != nil {
		complete()
	}
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()
	s.dev.notify(s.id, from, to)
}

func (d *Device) notify(id uuid.UUID, from, to State) {
	t := Transition{Session: id, From: from, To: to, At: time.Now()}
	if d.cfg.Logger != nil {
		d.cfg.Logger.Info("session transition",
			"session", id.String(), "from", from.String(), "to", to.String())
	}
	if d.cfg.OnTransition != nil {
		d.cfg.OnTransition(t)
	}
}

// streamReader adapts a Renderer to the io.Reader the player pulls from,
// serializing float32 frames little-endian. All renderer access goes through
// its lock so Stop can fade from another goroutine.
type streamReader struct {
	mu       sync.Mutex
	renderer *sonify.Renderer
	pending  []byte
}

const streamBlockFrames = 512

func (r *streamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		if r.renderer.Done() {
			return 0, io.EOF
		}
		block := r.renderer.Process(streamBlockFrames)
		if len(block) == 0 {
			return 0, io.EOF
		}
		r.pending = float32LEBytes(block)
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *streamReader) fadeOut() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderer.FadeOut()
}

func (r *streamReader) finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderer.Done() && len(r.pending) == 0
}

func float32LEBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}
