package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cdcstream/transport/loopback"
)

func TestRedirectRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		before    []byte
		during    []byte
		wantAfter bool
	}{
		{"pending program", []byte("G0 X1\nG0 Y2\n"), []byte("$J=G91 X5 F100\n"), true},
		{"nothing pending", nil, []byte("$J=G91 Z1 F10\n"), false},
		{"partial line", []byte("G1 X"), []byte("\n\n\n"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb := loopback.New()
			s, rec := newStream(t, lb, DefaultConfig())

			lb.Inject(tt.before)
			lb.Inject([]byte{CmdToolAck})
			lb.Inject(tt.during)
			pumpAll(s)

			assert.Equal(t, ReadSuspended, s.ReadState())
			assert.True(t, s.BackupActive())
			_, ok := s.Read()
			assert.False(t, ok, "nothing is readable while suspended")
			assert.Equal(t, []bool{true}, rec.suspended)

			pending := s.SuspendInput(false)
			assert.Equal(t, tt.wantAfter, pending)
			assert.Equal(t, ReadNormal, s.ReadState())
			assert.False(t, s.BackupActive())
			assert.Equal(t, []bool{true}, rec.resumed)

			assert.Equal(t, tt.before, readAll(s))
		})
	}
}

func TestSignalCollapsesPrimary(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())

	lb.Inject([]byte("G4 P10\n"))
	pumpAll(s)
	require.Equal(t, 7, s.AvailableCount())

	lb.Inject([]byte{CmdToolAck})
	pumpAll(s)
	assert.Equal(t, 0, s.AvailableCount())
	assert.Equal(t, 7, s.backup.Count())
}

func TestSuspendInputIdempotent(t *testing.T) {
	lb := loopback.New()
	s, rec := newStream(t, lb, DefaultConfig())

	lb.Inject([]byte("abc"))
	pumpAll(s)

	assert.True(t, s.SuspendInput(true))
	assert.True(t, s.SuspendInput(true))
	assert.Equal(t, ReadSuspended, s.ReadState())
	assert.False(t, s.BackupActive(), "SuspendInput never takes a snapshot")
	assert.Equal(t, []bool{false}, rec.suspended)

	_, ok := s.Read()
	assert.False(t, ok)

	assert.True(t, s.SuspendInput(false))
	assert.Equal(t, []bool{false}, rec.resumed)
	assert.Equal(t, []byte("abc"), readAll(s))

	// Resuming while not suspended is a silent no-op.
	assert.False(t, s.SuspendInput(false))
	assert.Len(t, rec.resumed, 1)
}

func TestSuspendThenSignal(t *testing.T) {
	lb := loopback.New()
	s, rec := newStream(t, lb, DefaultConfig())

	lb.Inject([]byte("G0 X0\n"))
	pumpAll(s)

	s.SuspendInput(true)
	lb.Inject([]byte{CmdToolAck})
	lb.Inject([]byte("G0 Z5\n"))
	pumpAll(s)

	assert.Equal(t, []bool{false, true}, rec.suspended)
	assert.True(t, s.SuspendInput(false))
	assert.Equal(t, []byte("G0 X0\n"), readAll(s))
}

func TestSecondSignalKeepsSnapshot(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())

	interp := &mockInterpreter{}
	interp.On("EnqueueRealtimeCommand", mock.Anything).Return(false)
	s.SetRealtimeHandler(interp.EnqueueRealtimeCommand)

	lb.Inject([]byte("first\n"))
	lb.Inject([]byte{CmdToolAck})
	lb.Inject([]byte("second\n"))
	lb.Inject([]byte{CmdToolAck})
	lb.Inject([]byte("third\n"))
	pumpAll(s)

	// The second signal is ordinary input once a backup is pending.
	interp.AssertCalled(t, "EnqueueRealtimeCommand", byte(CmdToolAck))
	assert.Equal(t, len("second\n")+1+len("third\n"), s.AvailableCount())

	assert.True(t, s.SuspendInput(false))
	assert.Equal(t, []byte("first\n"), readAll(s))

	// The cycle can repeat.
	lb.Inject([]byte("again\n"))
	lb.Inject([]byte{CmdToolAck})
	pumpAll(s)
	assert.True(t, s.BackupActive())
	assert.True(t, s.SuspendInput(false))
	assert.Equal(t, []byte("again\n"), readAll(s))
}

func TestResumeWithoutSnapshot(t *testing.T) {
	lb := loopback.New()
	s, rec := newStream(t, lb, DefaultConfig())

	s.SuspendInput(true)
	lb.Inject([]byte("xyz"))
	pumpAll(s)
	_, ok := s.Read()
	assert.False(t, ok)

	assert.True(t, s.SuspendInput(false))
	assert.Equal(t, []bool{false}, rec.resumed)
	assert.Equal(t, []byte("xyz"), readAll(s))
}
