package stream

import (
	"fmt"

	"github.com/ardnew/cdcstream/pkg"
)

// Reserved control bytes.
const (
	CmdReset   = 0x18 // CAN: soft reset, injected ahead of queued data
	CmdToolAck = 0xA3 // tool change acknowledge: stream-redirect signal
	ASCIILF    = '\n'
)

// EOL is the default line ending appended by WriteLine.
const EOL = "\r\n"

// Default sizes.
const (
	DefaultRxBufferSize  = 1024 // primary and backup ring size
	DefaultRxWindow      = 20   // bytes pulled from the transport per Pump
	DefaultTxBlockSize   = 256  // transmit stage size
	DefaultTxReserve     = 20   // stage headroom below the write capacity
	DefaultTxMinCapacity = 10   // write only when capacity exceeds this
)

// Config holds the tunables of a Stream.
type Config struct {
	RxBufferSize  int    // power of two; usable capacity is RxBufferSize-1
	RxWindow      int    // per-Pump read batch
	TxBlockSize   int    // transmit stage capacity
	TxReserve     int    // subtracted from the initial write capacity to get the flush mark
	TxMinCapacity int    // minimum transport capacity worth writing into
	CmdReset      byte   // byte injected by InjectResetSignal
	CmdToolAck    byte   // byte that snapshots and suspends input
	Terminator    byte   // byte that triggers a transmit flush
	EOL           string // appended by WriteLine; must end with Terminator
}

// DefaultConfig returns settings sized for a full-speed CDC ACM port with
// 64-byte bulk packets.
func DefaultConfig() Config {
	return Config{
		RxBufferSize:  DefaultRxBufferSize,
		RxWindow:      DefaultRxWindow,
		TxBlockSize:   DefaultTxBlockSize,
		TxReserve:     DefaultTxReserve,
		TxMinCapacity: DefaultTxMinCapacity,
		CmdReset:      CmdReset,
		CmdToolAck:    CmdToolAck,
		Terminator:    ASCIILF,
		EOL:           EOL,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch {
	case c.RxBufferSize < 2 || c.RxBufferSize&(c.RxBufferSize-1) != 0:
		return fmt.Errorf("rx buffer size %d is not a power of two: %w",
			c.RxBufferSize, pkg.ErrInvalidParameter)
	case c.RxWindow < 1:
		return fmt.Errorf("rx window %d: %w", c.RxWindow, pkg.ErrInvalidParameter)
	case c.TxBlockSize < 2:
		return fmt.Errorf("tx block size %d: %w", c.TxBlockSize, pkg.ErrInvalidParameter)
	case c.TxReserve < 0 || c.TxReserve >= c.TxBlockSize:
		return fmt.Errorf("tx reserve %d outside [0, %d): %w",
			c.TxReserve, c.TxBlockSize, pkg.ErrInvalidParameter)
	case c.TxMinCapacity < 0:
		return fmt.Errorf("tx min capacity %d: %w", c.TxMinCapacity, pkg.ErrInvalidParameter)
	case c.EOL == "" || c.EOL[len(c.EOL)-1] != c.Terminator:
		return fmt.Errorf("eol %q must end with terminator %#02x: %w",
			c.EOL, c.Terminator, pkg.ErrInvalidParameter)
	case c.CmdReset == c.CmdToolAck || c.CmdReset == c.Terminator || c.CmdToolAck == c.Terminator:
		return fmt.Errorf("reserved bytes %#02x, %#02x, %#02x must be distinct: %w",
			c.CmdReset, c.CmdToolAck, c.Terminator, pkg.ErrInvalidParameter)
	}
	return nil
}
