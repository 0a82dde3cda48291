package pkg

import "errors"

// Stream errors.
var (
	// ErrOverflow indicates the receive buffer could not accept a byte.
	ErrOverflow = errors.New("receive buffer overflow")

	// ErrWriteAbandoned indicates a transmit flush stopped because the
	// poll callback declined to continue.
	ErrWriteAbandoned = errors.New("transmit flush abandoned")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotConfigured indicates a required collaborator is missing.
	ErrNotConfigured = errors.New("not configured")

	// ErrClosed indicates the resource has been closed.
	ErrClosed = errors.New("closed")
)

// Fault identifies an advisory condition raised by the stream core.
// Faults are reported, never returned from the hot path.
type Fault int

// Fault values.
const (
	FaultNone           Fault = iota // No fault
	FaultOverflow                    // Receive buffer overflowed
	FaultWriteAbandoned              // Transmit flush abandoned
)

// String returns a string representation of the fault.
func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultOverflow:
		return "overflow"
	case FaultWriteAbandoned:
		return "write-abandoned"
	default:
		return "unknown"
	}
}

// Error returns the corresponding error for the fault.
func (f Fault) Error() error {
	switch f {
	case FaultNone:
		return nil
	case FaultOverflow:
		return ErrOverflow
	case FaultWriteAbandoned:
		return ErrWriteAbandoned
	default:
		return ErrInvalidParameter
	}
}
