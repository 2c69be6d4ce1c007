package fluidpath

import (
	"github.com/rs/zerolog"
)

// Option represents a transfer option
type Option func(*Options)

// Options contains all options for copy, move and remove
type Options struct {
	// Concurrency bounds the number of per-file operations in flight.
	// 1 runs them sequentially and stops at the first error; above 1 every
	// file is attempted and failures are joined.
	Concurrency int

	// TwoPhaseMove copies every file before deleting any source file, and
	// deletes nothing if a copy failed.
	TwoPhaseMove bool

	// Verify reads each written file back and compares checksums
	Verify bool

	// VerifyAlgorithm is the checksum used by Verify
	VerifyAlgorithm ChecksumAlgorithm

	// Logger receives per-file debug events and per-command summaries
	Logger zerolog.Logger
}

func defaultOptions() Options {
	return Options{
		Concurrency:     1,
		VerifyAlgorithm: ChecksumXXHash,
		Logger:          zerolog.Nop(),
	}
}

// WithConcurrency sets the number of per-file operations run in parallel
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n < 1 {
			n = 1
		}
		o.Concurrency = n
	}
}

// WithTwoPhaseMove enables or disables copy-all-then-delete-all moves
func WithTwoPhaseMove(enabled bool) Option {
	return func(o *Options) {
		o.TwoPhaseMove = enabled
	}
}

// WithVerify enables read-back checksum verification with algorithm
func WithVerify(algorithm ChecksumAlgorithm) Option {
	return func(o *Options) {
		o.Verify = true
		o.VerifyAlgorithm = algorithm
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// OptionsFromConfig converts the transfer settings of cfg into options
func OptionsFromConfig(cfg *Config) []Option {
	options := []Option{
		WithConcurrency(cfg.Concurrency),
		WithTwoPhaseMove(cfg.TwoPhaseMove),
	}

	if cfg.Verify {
		options = append(options, WithVerify(ChecksumAlgorithm(cfg.VerifyAlgorithm)))
	}

	return options
}
