package stream

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/transport/loopback"
)

// mockInterpreter stands in for the command interpreter.
type mockInterpreter struct {
	mock.Mock
}

func (m *mockInterpreter) EnqueueRealtimeCommand(c byte) bool {
	return m.Called(c).Bool(0)
}

func (m *mockInterpreter) BlockingPoll() bool {
	return m.Called().Bool(0)
}

// recorder collects observer notifications.
type recorder struct {
	NopObserver
	received    int
	transmitted int
	realtime    []byte
	suspended   []bool
	resumed     []bool
	faults      []pkg.Fault
}

func (r *recorder) Received(n, level int)   { r.received += n }
func (r *recorder) Realtime(c byte)         { r.realtime = append(r.realtime, c) }
func (r *recorder) Transmitted(n int)       { r.transmitted += n }
func (r *recorder) Suspended(snapshot bool) { r.suspended = append(r.suspended, snapshot) }
func (r *recorder) Resumed(restored bool)   { r.resumed = append(r.resumed, restored) }
func (r *recorder) Fault(f pkg.Fault)       { r.faults = append(r.faults, f) }

func newStream(t *testing.T, lb *loopback.Loopback, cfg Config) (*Stream, *recorder) {
	t.Helper()
	s, err := New(lb, cfg)
	require.NoError(t, err)
	rec := &recorder{}
	s.SetObserver(rec)
	return s, rec
}

// pumpAll pumps until the transport has nothing left or the stream stops
// taking bytes.
func pumpAll(s *Stream) {
	for s.Pump() > 0 {
	}
}

// readAll drains Read.
func readAll(s *Stream) []byte {
	var out []byte
	for {
		c, ok := s.Read()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}
