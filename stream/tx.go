package stream

import (
	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/transport"
)

// stage accumulates outgoing text until a line ends or the flush mark is
// passed.
type stage struct {
	data      []byte
	cursor    int // flush position within data
	length    int // bytes staged and not yet sent
	maxLength int // flush once length exceeds this
}

func newStage(size, capacity, reserve int) stage {
	return stage{
		data:      make([]byte, size),
		maxLength: max(min(capacity, size)-reserve, 0),
	}
}

// WriteString stages str and flushes when str ends with the line
// terminator or the stage passes its flush mark.
//
// If str does not fit in the stage the call does nothing. Callers are
// expected to hand over line-sized pieces.
func (s *Stream) WriteString(str string) {
	if s.closed || len(str) == 0 {
		return
	}

	st := &s.stage
	if len(str)+st.length >= len(st.data) {
		pkg.LogDebug(pkg.ComponentTx, "write dropped",
			"len", len(str),
			"staged", st.length)
		return
	}

	copy(st.data[st.length:], str)
	st.length += len(str)

	if str[len(str)-1] == s.cfg.Terminator || st.length > st.maxLength {
		s.flush()
	}
}

// WriteLine writes str followed by the configured EOL.
func (s *Stream) WriteLine(str string) {
	s.WriteString(str)
	s.WriteString(s.cfg.EOL)
}

// WriteBytes writes data straight to the transport one byte at a time,
// bypassing the stage. Bytes the transport declines are not retried.
func (s *Stream) WriteBytes(data []byte) {
	if s.closed {
		return
	}
	if n := transport.WriteAll(s.transport, data); n > 0 {
		s.observer.Transmitted(n)
	}
}

// WriteByte writes a single byte straight to the transport.
// It always returns nil.
func (s *Stream) WriteByte(c byte) error {
	s.one[0] = c
	s.WriteBytes(s.one[:])
	return nil
}

// Staged returns the number of bytes waiting in the transmit stage.
func (s *Stream) Staged() int {
	return s.stage.length
}

// flush drains the stage into the transport in capacity-sized chunks,
// yielding through the poll function whenever the transport has no room.
//
// The stage is reset to empty on return even when the poll function
// abandons the flush; unsent bytes are dropped, not resumed later.
func (s *Stream) flush() {
	st := &s.stage
	st.cursor = 0

	for st.length > 0 {
		progressed := false

		if avail := s.transport.WriteCapacity(); avail > s.cfg.TxMinCapacity {
			n := min(avail, st.length)
			n = min(s.transport.Write(st.data[st.cursor:st.cursor+n]), n)
			if n > 0 {
				st.length -= n
				st.cursor += n
				progressed = true
				s.observer.Transmitted(n)
			}
		}

		if st.length > 0 && !progressed && !s.yield() {
			pkg.LogWarn(pkg.ComponentTx, "output dropped",
				"unsent", st.length,
				"error", pkg.FaultWriteAbandoned.Error())
			s.observer.Fault(pkg.FaultWriteAbandoned)
			break
		}
	}

	st.length = 0
	st.cursor = 0
}

func (s *Stream) yield() bool {
	if s.poll == nil {
		return false
	}
	return s.poll()
}
