package ring

import (
	"fmt"

	"github.com/ardnew/cdcstream/pkg"
)

// Buffer is a power-of-two circular byte buffer.
type Buffer struct {
	data     []byte
	mask     int
	head     int // next write index
	tail     int // next read index
	overflow bool
	backup   bool // backup snapshot pending (primary buffer only)
}

// New creates a buffer of the given size. Size must be a power of two and
// at least 2.
func New(size int) (*Buffer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("ring size %d: %w", size, pkg.ErrInvalidParameter)
	}
	return &Buffer{
		data: make([]byte, size),
		mask: size - 1,
	}, nil
}

// Size returns the length of the underlying array.
// The usable capacity is Size()-1.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Count returns the number of buffered bytes.
func (b *Buffer) Count() int {
	return (b.head - b.tail) & b.mask
}

// Free returns the number of bytes that can be pushed before overflow.
func (b *Buffer) Free() int {
	return b.mask - b.Count()
}

// Empty reports whether no bytes are buffered.
func (b *Buffer) Empty() bool {
	return b.head == b.tail
}

// Full reports whether the next Push would overflow.
func (b *Buffer) Full() bool {
	return (b.head+1)&b.mask == b.tail
}

// Push appends c at head. If the buffer is full, c is dropped, the
// overflow flag is set and ErrOverflow is returned.
func (b *Buffer) Push(c byte) error {
	next := (b.head + 1) & b.mask
	if next == b.tail {
		b.overflow = true
		return pkg.ErrOverflow
	}
	b.data[b.head] = c
	b.head = next
	return nil
}

// Pop removes and returns the byte at tail.
// Returns false if the buffer is empty.
func (b *Buffer) Pop() (byte, bool) {
	if b.head == b.tail {
		return 0, false
	}
	c := b.data[b.tail]
	b.tail = (b.tail + 1) & b.mask
	return c, true
}

// Bytes appends the buffered bytes to dst in FIFO order without
// consuming them.
func (b *Buffer) Bytes(dst []byte) []byte {
	for i := b.tail; i != b.head; i = (i + 1) & b.mask {
		dst = append(dst, b.data[i])
	}
	return dst
}

// Flush empties the buffer and clears the overflow flag.
// The array contents are left as-is; stale bytes are unreachable.
func (b *Buffer) Flush() {
	b.head = 0
	b.tail = 0
	b.overflow = false
}

// Collapse discards all buffered bytes by moving tail to head.
// Unlike Flush, the overflow flag and indices are otherwise preserved.
func (b *Buffer) Collapse() {
	b.tail = b.head
}

// CancelAndInject discards everything buffered and leaves c as the only
// byte, positioned to be the next one read.
func (b *Buffer) CancelAndInject(c byte) {
	b.data[b.head] = c
	b.tail = b.head
	b.head = (b.tail + 1) & b.mask
}

// Overflow reports whether a byte has been dropped since the last Flush.
func (b *Buffer) Overflow() bool {
	return b.overflow
}

// BackupActive reports whether a backup snapshot is pending.
func (b *Buffer) BackupActive() bool {
	return b.backup
}

// SetBackupActive sets the backup-pending marker.
func (b *Buffer) SetBackupActive(active bool) {
	b.backup = active
}

// CopyFrom overwrites b with the array, indices and overflow flag of src.
// The backup marker of b is left untouched. Both buffers must be the same
// size.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if len(b.data) != len(src.data) {
		return fmt.Errorf("copy %d-byte ring into %d-byte ring: %w",
			len(src.data), len(b.data), pkg.ErrInvalidParameter)
	}
	copy(b.data, src.data)
	b.head = src.head
	b.tail = src.tail
	b.overflow = src.overflow
	return nil
}
