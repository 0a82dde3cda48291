// Package ring implements the fixed-capacity receive buffer used by the
// cdcstream core.
//
// A [Buffer] is a circular byte buffer whose size is a power of two. One
// slot is always left unused so that an empty buffer (head == tail) can be
// told apart from a full one, which gives a usable capacity of Size()-1.
//
// # Overflow
//
// [Buffer.Push] never blocks and never retries. When the buffer is full the
// byte is dropped and a sticky overflow flag is set; the flag stays set
// until [Buffer.Flush]. Callers decide how and when to report it.
//
// # Backup
//
// A second Buffer of the same size can hold a snapshot of the first via
// [Buffer.CopyFrom]. The primary buffer carries the backup-active marker
// ([Buffer.BackupActive]); the snapshot itself does not.
//
// Buffers are not safe for concurrent use. The stream core owns them and
// touches them from a single goroutine.
package ring
