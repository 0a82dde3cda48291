// Package config loads cdcstream settings.
//
// Settings are layered: [Default] values first, then an optional YAML file,
// then environment variables with the CDCSTREAM prefix. A variable only
// overrides a setting when it is set, so the file keeps effect for
// everything the environment leaves alone.
//
//	stream:
//	  rx_buffer_size: 2048
//	  tx_block_size: 256
//	poll:
//	  rate: 500
//	log:
//	  level: debug
//
//	CDCSTREAM_STREAM_RX_WINDOW=32 CDCSTREAM_LOG_FORMAT=json ./pty-grbl -config stream.yaml
package config
