package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/transport/loopback"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1024, cfg.RxBufferSize)
	assert.Equal(t, 20, cfg.RxWindow)
	assert.Equal(t, byte(0x18), cfg.CmdReset)
	assert.Equal(t, byte(0xA3), cfg.CmdToolAck)
	assert.Equal(t, "\r\n", cfg.EOL)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"rx size not power of two", func(c *Config) { c.RxBufferSize = 1000 }},
		{"rx size too small", func(c *Config) { c.RxBufferSize = 1 }},
		{"rx window zero", func(c *Config) { c.RxWindow = 0 }},
		{"tx block too small", func(c *Config) { c.TxBlockSize = 1 }},
		{"tx reserve negative", func(c *Config) { c.TxReserve = -1 }},
		{"tx reserve too large", func(c *Config) { c.TxReserve = c.TxBlockSize }},
		{"tx min capacity negative", func(c *Config) { c.TxMinCapacity = -1 }},
		{"empty eol", func(c *Config) { c.EOL = "" }},
		{"eol without terminator", func(c *Config) { c.EOL = "\r" }},
		{"reset equals ack", func(c *Config) { c.CmdToolAck = c.CmdReset }},
		{"reset equals terminator", func(c *Config) { c.CmdReset = '\n' }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), pkg.ErrInvalidParameter)
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	assert.ErrorIs(t, err, pkg.ErrNotConfigured)

	bad := DefaultConfig()
	bad.RxWindow = 0
	_, err = New(loopback.New(), bad)
	assert.ErrorIs(t, err, pkg.ErrInvalidParameter)

	s, err := New(loopback.New(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, ReadNormal, s.ReadState())
	assert.Equal(t, 0, s.AvailableCount())
	assert.Equal(t, 1023, s.AvailableFree())
	assert.False(t, s.Overflow())
	assert.False(t, s.BackupActive())
	assert.Equal(t, DefaultConfig(), s.Config())
}

func TestFlushMark(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"samd21 endpoint", 63, 43},
		{"large capacity clamps to block", 4096, 236},
		{"below reserve", 10, 0},
		{"no capacity", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(loopback.New(loopback.WithWriteCapacity(tt.capacity)), DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.stage.maxLength)
		})
	}
}

func TestReadStateString(t *testing.T) {
	assert.Equal(t, "normal", ReadNormal.String())
	assert.Equal(t, "suspended", ReadSuspended.String())
	assert.Equal(t, "unknown", ReadState(7).String())
}

func TestAttach(t *testing.T) {
	lb := loopback.New()
	s, _ := newStream(t, lb, DefaultConfig())

	interp := &mockInterpreter{}
	interp.On("EnqueueRealtimeCommand", byte('?')).Return(true)
	interp.On("EnqueueRealtimeCommand", byte('G')).Return(false)
	s.Attach(interp)

	lb.Inject([]byte("?G"))
	pumpAll(s)
	assert.Equal(t, []byte("G"), readAll(s))
	interp.AssertExpectations(t)
}

func TestClose(t *testing.T) {
	lb := loopback.New(loopback.WithWriteCapacity(64))
	s, rec := newStream(t, lb, DefaultConfig())

	lb.Inject([]byte("G0\n"))
	pumpAll(s)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), pkg.ErrClosed)

	lb.Inject([]byte("G1\n"))
	assert.Equal(t, 0, s.Pump())
	s.WriteLine("ok")
	s.WriteBytes([]byte("raw"))
	assert.Empty(t, lb.Sent())
	assert.Zero(t, rec.transmitted)

	assert.Equal(t, []byte("G0\n"), readAll(s), "buffered input survives Close")
}
