// Package voice is the boundary to the environment's speech capability.
// Capture and playback are black boxes: capture yields a transcript at an
// arbitrary future point, playback consumes text to vocalize. When the
// environment has no speech support, every operation is a silent no-op.
package voice

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrCaptureBusy is returned when a capture is requested while another is
// still outstanding. Requests are rejected, never queued.
var ErrCaptureBusy = errors.New("voice capture already in progress")

// Engine is the environment's speech capability.
type Engine interface {
	// Supported reports whether the environment can capture and speak.
	// Callers must check this before inviting the user to use voice.
	Supported() bool
	// StartCapture begins one capture session and delivers the transcript
	// through onTranscript at some later point. No-op when unsupported.
	StartCapture(onTranscript func(text string))
	// Speak vocalizes text. Fire-and-forget; no error is signaled when
	// unsupported.
	Speak(text string)
}

// Null is the engine for environments without speech support.
type Null struct{}

func (Null) Supported() bool                { return false }
func (Null) StartCapture(func(text string)) {}
func (Null) Speak(string)                   {}

// Transcript is a completed capture, delivered into the caller's
// single-threaded loop via the Transcripts channel rather than by a
// re-entrant call.
type Transcript struct {
	Text string
}

// Capture is the single-slot pending-request register over an Engine. At most
// one capture session is active at a time; a second request is rejected, and
// a delivery arriving after Cancel is ignored. No timeout is modeled: if the
// capability never completes, the slot stays occupied until cancelled.
type Capture struct {
	engine Engine
	log    *zap.Logger

	mu      sync.Mutex
	pending bool
	seq     int
	out     chan Transcript
}

// NewCapture wraps an engine in a capture register.
func NewCapture(engine Engine, logger *zap.Logger) *Capture {
	return &Capture{
		engine: engine,
		log:    logger,
		out:    make(chan Transcript, 1),
	}
}

// Supported reports whether capture can do anything at all.
func (c *Capture) Supported() bool {
	return c.engine.Supported()
}

// Start requests one capture. Unsupported environments no-op without error; a
// capture already in flight is rejected with ErrCaptureBusy.
func (c *Capture) Start() error {
	if !c.engine.Supported() {
		return nil
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrCaptureBusy
	}
	c.pending = true
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.engine.StartCapture(func(text string) {
		c.deliver(seq, text)
	})
	return nil
}

// Cancel abandons the outstanding capture, if any. The engine is not
// notified; its late callback will simply be dropped.
func (c *Capture) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	c.seq++
}

// Transcripts is the channel completed captures arrive on.
func (c *Capture) Transcripts() <-chan Transcript {
	return c.out
}

func (c *Capture) deliver(seq int, text string) {
	c.mu.Lock()
	stale := !c.pending || seq != c.seq
	if !stale {
		c.pending = false
	}
	c.mu.Unlock()

	if stale {
		c.log.Debug("Ignoring late voice transcript")
		return
	}

	select {
	case c.out <- Transcript{Text: text}:
	default:
		c.log.Warn("Dropping voice transcript, consumer not reading")
	}
}
