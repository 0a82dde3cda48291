package stream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/transport/loopback"
)

func TestWriteLine(t *testing.T) {
	lb := loopback.New(loopback.WithWriteCapacity(64))
	s, rec := newStream(t, lb, DefaultConfig())

	s.WriteLine("G0 X1")
	assert.Equal(t, "G0 X1\r\n", string(lb.Sent()))
	assert.Equal(t, 7, rec.transmitted)
	assert.Equal(t, 0, s.Staged())
}

func TestWriteStringStagesUntilTerminator(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())

	s.WriteString("<Idle|MPos:0.000,0.000,0.000")
	s.WriteString("|FS:0,0>")
	assert.Empty(t, lb.Sent())
	assert.Equal(t, 36, s.Staged())

	s.WriteString("\r\n")
	assert.Equal(t, "<Idle|MPos:0.000,0.000,0.000|FS:0,0>\r\n", string(lb.Sent()))
	assert.Equal(t, 0, s.Staged())
}

func TestWriteStringFlushMark(t *testing.T) {
	lb := loopback.New() // 63 bytes: flush mark 43
	s, _ := newStream(t, lb, DefaultConfig())

	s.WriteString(strings.Repeat("a", 43))
	assert.Empty(t, lb.Sent(), "at the mark, not past it")

	s.WriteString("b")
	assert.Equal(t, strings.Repeat("a", 43)+"b", string(lb.Sent()))
	assert.Equal(t, 0, s.Staged())
}

func TestWriteStringTooLarge(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())

	s.WriteString("[MSG:")
	s.WriteString(strings.Repeat("x", 251))
	assert.Equal(t, 5, s.Staged(), "oversized write is dropped whole")
	assert.Empty(t, lb.Sent())

	s.WriteString(strings.Repeat("y", 250))
	assert.Equal(t, 0, s.Staged())
	assert.Equal(t, "[MSG:"+strings.Repeat("y", 250), string(lb.Sent()))
	for _, w := range lb.Writes() {
		assert.LessOrEqual(t, len(w), loopback.DefaultWriteCapacity)
	}
}

func TestWriteStringEmpty(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())
	calls := lb.CapacityCalls()

	s.WriteString("")
	assert.Equal(t, calls, lb.CapacityCalls())
	assert.Empty(t, lb.Sent())
}

func TestFlushChunks(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())
	lb.SetWriteCapacity(16)

	line := "[GC:G0 G54 G17 G21 G90 G94 M5 M9 T0 F0 S0]"
	s.WriteLine(line)

	assert.Equal(t, line+"\r\n", string(lb.Sent()))
	writes := lb.Writes()
	require.NotEmpty(t, writes)
	for _, w := range writes {
		assert.LessOrEqual(t, len(w), 16)
	}
}

func TestFlushYieldsBelowMinCapacity(t *testing.T) {
	lb := loopback.New()
	s, rec := newStream(t, lb, DefaultConfig())

	interp := &mockInterpreter{}
	interp.On("BlockingPoll").Return(true).Times(3)
	s.SetPollFunc(interp.BlockingPoll)

	lb.SetCapacityScript(0, 5, 10, 63)
	s.WriteLine("ok")

	assert.Equal(t, "ok\r\n", string(lb.Sent()))
	interp.AssertNumberOfCalls(t, "BlockingPoll", 3)
	assert.Empty(t, rec.faults)
}

func TestFlushAbandoned(t *testing.T) {
	lb := loopback.New(loopback.WithWriteCapacity(0))
	s, rec := newStream(t, lb, DefaultConfig())

	interp := &mockInterpreter{}
	interp.On("BlockingPoll").Return(false)
	s.SetPollFunc(interp.BlockingPoll)

	s.WriteLine("G0 X1")

	assert.Empty(t, lb.Sent())
	assert.Equal(t, 0, s.Staged())
	// Both halves of WriteLine flush (the mark is 0) and each gives up on
	// its first poll.
	interp.AssertNumberOfCalls(t, "BlockingPoll", 2)
	assert.Equal(t, []pkg.Fault{pkg.FaultWriteAbandoned, pkg.FaultWriteAbandoned}, rec.faults)
}

func TestFlushWithoutPollFunc(t *testing.T) {
	lb := loopback.New(loopback.WithWriteCapacity(0))
	s, rec := newStream(t, lb, DefaultConfig())

	s.WriteString("ok\n")
	assert.Equal(t, 0, s.Staged())
	assert.Equal(t, []pkg.Fault{pkg.FaultWriteAbandoned}, rec.faults)
}

func TestFlushAbandonResetsStage(t *testing.T) {
	lb := loopback.New()
	s, rec := newStream(t, lb, DefaultConfig())

	interp := &mockInterpreter{}
	interp.On("BlockingPoll").Return(false)
	s.SetPollFunc(interp.BlockingPoll)

	lb.SetCapacityScript(20)
	lb.SetWriteCapacity(0)
	s.WriteString("G1 X10 Y10 Z10 F1000 S12000 M3\n")

	assert.Equal(t, "G1 X10 Y10 Z10 F1000", string(lb.Sent()))
	assert.Equal(t, 0, s.Staged())
	assert.Equal(t, []pkg.Fault{pkg.FaultWriteAbandoned}, rec.faults)

	// The unsent tail is gone; the next line goes out on its own.
	lb.Reset()
	lb.SetWriteCapacity(63)
	s.WriteLine("ok")
	assert.Equal(t, "ok\r\n", string(lb.Sent()))
}

func TestFlushShortWrites(t *testing.T) {
	lb := loopback.New(loopback.WithWriteLimit(4))
	s, _ := newStream(t, lb, DefaultConfig())

	s.WriteLine("[VER:1.1f.20200916:]")
	assert.Equal(t, "[VER:1.1f.20200916:]\r\n", string(lb.Sent()))
	for _, w := range lb.Writes() {
		assert.LessOrEqual(t, len(w), 4)
	}
}

func TestWriteBytes(t *testing.T) {
	lb := loopback.New()
	s, rec := newStream(t, lb, DefaultConfig())

	s.WriteString("pending")
	payload := []byte{0x00, CmdToolAck, 0xff, '\n'}
	s.WriteBytes(payload)

	assert.Equal(t, payload, lb.Sent())
	assert.Len(t, lb.Writes(), len(payload))
	assert.Equal(t, len(payload), rec.transmitted)
	assert.Equal(t, 7, s.Staged(), "raw writes bypass the stage")
}

func TestWriteByte(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())

	require.NoError(t, s.WriteByte('!'))
	assert.Equal(t, []byte("!"), lb.Sent())

	lb.SetWriteCapacity(0)
	require.NoError(t, s.WriteByte('?'), "declined bytes are not an error")
	assert.True(t, bytes.Equal([]byte("!"), lb.Sent()))
}

func TestWriteBytesDeclined(t *testing.T) {
	lb := loopback.New(loopback.WithWriteCapacity(0))
	s, rec := newStream(t, lb, DefaultConfig())

	s.WriteBytes([]byte("ok\r\n"))
	assert.Empty(t, lb.Sent())
	assert.Zero(t, rec.transmitted, "only accepted bytes are reported")

	lb.SetWriteCapacity(loopback.DefaultWriteCapacity)
	s.WriteBytes([]byte("ok\r\n"))
	assert.Equal(t, 4, rec.transmitted)
}
