package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/time/rate"

	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/stream"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CDCSTREAM"

// Config holds all cdcstream configuration.
type Config struct {
	Stream  StreamConfig  `yaml:"stream"`
	Poll    PollConfig    `yaml:"poll"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StreamConfig mirrors stream.Config.
type StreamConfig struct {
	RxBufferSize  int    `yaml:"rx_buffer_size" envconfig:"RX_BUFFER_SIZE"`
	RxWindow      int    `yaml:"rx_window" envconfig:"RX_WINDOW"`
	TxBlockSize   int    `yaml:"tx_block_size" envconfig:"TX_BLOCK_SIZE"`
	TxReserve     int    `yaml:"tx_reserve" envconfig:"TX_RESERVE"`
	TxMinCapacity int    `yaml:"tx_min_capacity" envconfig:"TX_MIN_CAPACITY"`
	CmdReset      uint8  `yaml:"cmd_reset" envconfig:"CMD_RESET"`
	CmdToolAck    uint8  `yaml:"cmd_tool_ack" envconfig:"CMD_TOOL_ACK"`
	EOL           string `yaml:"eol" envconfig:"EOL"`
}

// PollConfig controls the cooperative poll used while a flush waits for
// transmit capacity.
type PollConfig struct {
	Rate  float64 `yaml:"rate" envconfig:"RATE"` // yields per second; <= 0 means unlimited
	Burst int     `yaml:"burst" envconfig:"BURST"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"` // "text" or "json"
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"` // empty disables the endpoint
}

// Default returns the default configuration.
func Default() *Config {
	sc := stream.DefaultConfig()
	return &Config{
		Stream: StreamConfig{
			RxBufferSize:  sc.RxBufferSize,
			RxWindow:      sc.RxWindow,
			TxBlockSize:   sc.TxBlockSize,
			TxReserve:     sc.TxReserve,
			TxMinCapacity: sc.TxMinCapacity,
			CmdReset:      sc.CmdReset,
			CmdToolAck:    sc.CmdToolAck,
			EOL:           sc.EOL,
		},
		Poll: PollConfig{
			Rate:  1000,
			Burst: 1,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadFile returns the defaults overlaid with the YAML file at path.
// Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentConfig, "configuration loaded",
		"file", path,
		"rxSize", cfg.Stream.RxBufferSize,
		"pollRate", cfg.Poll.Rate)
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	sc := c.Stream.StreamConfig()
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	if c.Poll.Rate > 0 && c.Poll.Burst < 1 {
		return fmt.Errorf("poll burst %d: %w", c.Poll.Burst, pkg.ErrInvalidParameter)
	}
	if _, ok := pkg.ParseLogLevel(c.Log.Level); !ok {
		return fmt.Errorf("log level %q: %w", c.Log.Level, pkg.ErrInvalidParameter)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format %q: %w", c.Log.Format, pkg.ErrInvalidParameter)
	}
	return nil
}

// StreamConfig converts to the stream package configuration.
func (s StreamConfig) StreamConfig() stream.Config {
	sc := stream.DefaultConfig()
	sc.RxBufferSize = s.RxBufferSize
	sc.RxWindow = s.RxWindow
	sc.TxBlockSize = s.TxBlockSize
	sc.TxReserve = s.TxReserve
	sc.TxMinCapacity = s.TxMinCapacity
	sc.CmdReset = s.CmdReset
	sc.CmdToolAck = s.CmdToolAck
	sc.EOL = s.EOL
	return sc
}

// Limiter returns the rate limiter for the cooperative poll.
func (p PollConfig) Limiter() *rate.Limiter {
	if p.Rate <= 0 {
		return rate.NewLimiter(rate.Inf, max(p.Burst, 1))
	}
	return rate.NewLimiter(rate.Limit(p.Rate), p.Burst)
}

// Apply configures the shared logger.
func (l LogConfig) Apply() {
	if level, ok := pkg.ParseLogLevel(l.Level); ok {
		pkg.SetLogLevel(level)
	}
	if l.Format == "json" {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	} else {
		pkg.SetLogFormat(pkg.LogFormatText)
	}
}
