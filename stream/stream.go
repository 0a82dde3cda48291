package stream

import (
	"fmt"

	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/ring"
	"github.com/ardnew/cdcstream/transport"
)

// RealtimeFunc offers a received byte to the interpreter's real-time
// command queue. It returns true if the byte was claimed, in which case it
// never reaches the receive buffer.
type RealtimeFunc func(c byte) bool

// PollFunc is the cooperative yield used while waiting for transmit
// capacity. It should service other real-time work and return false to
// abandon the pending flush.
type PollFunc func() bool

// Interpreter is the command interpreter side of the stream.
type Interpreter interface {
	// EnqueueRealtimeCommand is used as the stream's RealtimeFunc.
	EnqueueRealtimeCommand(c byte) bool

	// BlockingPoll is used as the stream's PollFunc.
	BlockingPoll() bool
}

// ReadState selects what Read returns.
type ReadState uint8

// Read states.
const (
	ReadNormal    ReadState = iota // Read pops the primary buffer
	ReadSuspended                  // Read reports no data
)

// String returns a human-readable read state.
func (r ReadState) String() string {
	switch r {
	case ReadNormal:
		return "normal"
	case ReadSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Stream buffers a byte stream between a transport and a line-oriented
// command interpreter.
//
// A Stream is not safe for concurrent use. Pump, Read, the write methods
// and SuspendInput must all be called from the same goroutine, typically
// the interpreter's real-time loop.
type Stream struct {
	cfg       Config
	transport transport.Transport

	// Receive side
	rx     *ring.Buffer // primary
	backup *ring.Buffer // snapshot taken on CmdToolAck
	window []byte       // per-Pump staging
	state  ReadState

	overflowReported bool

	// Transmit side
	stage stage
	one   [1]byte

	// Callbacks
	realtime RealtimeFunc
	poll     PollFunc
	observer Observer

	closed bool
}

// New creates a stream over t.
//
// The transmit flush mark is derived from t.WriteCapacity() at this point,
// so t should be ready to report its capacity.
func New(t transport.Transport, cfg Config) (*Stream, error) {
	if t == nil {
		return nil, fmt.Errorf("transport: %w", pkg.ErrNotConfigured)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rx, err := ring.New(cfg.RxBufferSize)
	if err != nil {
		return nil, fmt.Errorf("rx buffer: %w", err)
	}
	backup, err := ring.New(cfg.RxBufferSize)
	if err != nil {
		return nil, fmt.Errorf("rx backup: %w", err)
	}

	s := &Stream{
		cfg:       cfg,
		transport: t,
		rx:        rx,
		backup:    backup,
		window:    make([]byte, cfg.RxWindow),
		stage:     newStage(cfg.TxBlockSize, t.WriteCapacity(), cfg.TxReserve),
		observer:  NopObserver{},
	}

	pkg.LogDebug(pkg.ComponentStream, "stream created",
		"rxSize", cfg.RxBufferSize,
		"rxWindow", cfg.RxWindow,
		"txBlock", cfg.TxBlockSize,
		"txMark", s.stage.maxLength)

	return s, nil
}

// Config returns the configuration the stream was created with.
func (s *Stream) Config() Config {
	return s.cfg
}

// SetRealtimeHandler sets the real-time command classifier.
// A nil handler claims no bytes.
func (s *Stream) SetRealtimeHandler(fn RealtimeFunc) {
	s.realtime = fn
}

// SetPollFunc sets the cooperative yield used while flushing.
// With no poll function a flush that cannot progress is abandoned at once.
func (s *Stream) SetPollFunc(fn PollFunc) {
	s.poll = fn
}

// SetObserver sets the activity observer. A nil observer disables
// notifications.
func (s *Stream) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	s.observer = o
}

// Attach wires both interpreter callbacks.
func (s *Stream) Attach(i Interpreter) {
	s.SetRealtimeHandler(i.EnqueueRealtimeCommand)
	s.SetPollFunc(i.BlockingPoll)
}

// Close detaches all callbacks. After Close, Pump and the write methods
// are no-ops; buffered input can still be read.
func (s *Stream) Close() error {
	if s.closed {
		return pkg.ErrClosed
	}
	s.closed = true
	s.realtime = nil
	s.poll = nil
	s.observer = NopObserver{}
	pkg.LogDebug(pkg.ComponentStream, "stream closed")
	return nil
}
