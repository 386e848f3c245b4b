package config

import "github.com/rs/zerolog"

type PngoConfig struct {
	LogLevel zerolog.Level

	// Upper bound on the decompressed image-data size a header may declare.
	MaxImageBytes uint64

	// Number of files the decode command works on at once.
	Workers int

	OutputFormat string
}

var Config = PngoConfig{
	LogLevel:      zerolog.InfoLevel,
	MaxImageBytes: 512 << 20,
	Workers:       4,
	OutputFormat:  "ppm",
}
