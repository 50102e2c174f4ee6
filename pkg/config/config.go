// Package config defines the immutable-after-setup logger configuration
// (spec §3, §6) and its defensive normalization rules (spec §7:
// ConfigOutOfRange clamps upward with a warning, ConfigInvalid is rejected
// with an error).
//
// Parsing argv/env into a Config is explicitly out of scope (spec §1) —
// this package only owns the struct, its defaults, and validation, grounded
// on the teacher's own Config/DefaultConfig/Validate split in
// pkg/omni/config.go.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hoastyle/logger/pkg/errs"
	"github.com/hoastyle/logger/pkg/levels"
)

// SinkKind selects which destination(s) the logger writes to, and whether
// the async pipeline (pool + queue + workers) is interposed in front of
// the sink at all.
type SinkKind int

const (
	// SinkStdout writes synchronously to stdout with no async pipeline.
	SinkStdout SinkKind = iota
	// SinkFile writes synchronously to the file sink with no async
	// pipeline.
	SinkFile
	// SinkAsyncFile interposes the pool/queue/worker pipeline in front of
	// the file sink. This is the only kind spec §9's "polymorphism over
	// sinks" note describes as wrapping another sink.
	SinkAsyncFile
)

// Defaults mirror original_source/include/LogBaseDef.hpp's
// LoggerOptimizationConfig and spec §3's minimums.
const (
	DefaultBatchSize      = 100
	MinBatchSize          = 10
	DefaultQueueCapacity  = 10000
	DefaultNumWorkers     = 2
	DefaultPoolSize       = 10000
	DefaultMaxLogSizeByte = 1 << 30
	DefaultRetentionDays  = 14
)

// Config is immutable after Manager.Setup succeeds (spec §5: "read-only
// for the life of the process").
type Config struct {
	AppID string

	SinkKind SinkKind

	StderrThreshold levels.Level // minimum level emitted to terminal
	FileThreshold   levels.Level // minimum level emitted to file; NoLog disables

	LogToFile    bool
	FilePath     string
	LogToConsole bool
	DebugEnabled bool

	BatchSize     int
	QueueCapacity int
	NumWorkers    int
	PoolSize      int

	MaxLogSize      int64
	RetentionPeriod time.Duration
}

// DefaultConfig returns a Config with the same sensible defaults
// original_source's LogConfig constructor establishes: stdout sink, Info
// to terminal, file logging disabled.
func DefaultConfig() *Config {
	return &Config{
		AppID:           "app",
		SinkKind:        SinkStdout,
		StderrThreshold: levels.Info,
		FileThreshold:   levels.NoLog,
		LogToFile:       false,
		LogToConsole:    false,
		DebugEnabled:    false,
		BatchSize:       DefaultBatchSize,
		QueueCapacity:   DefaultQueueCapacity,
		NumWorkers:      DefaultNumWorkers,
		PoolSize:        DefaultPoolSize,
		MaxLogSize:      DefaultMaxLogSizeByte,
		RetentionPeriod: DefaultRetentionDays * 24 * time.Hour,
	}
}

// Validate checks for ConfigInvalid contradictions (returns an error, spec
// §7) and clamps ConfigOutOfRange values upward with a stderr warning
// (normalizes, never rejects, spec §7).
func (c *Config) Validate() error {
	if c.SinkKind == SinkStdout && (c.LogToFile || c.FilePath != "") {
		return errs.Wrap(errs.ErrConfigInvalid, "stdout sink cannot also log to file or set a file path")
	}
	if (c.SinkKind == SinkFile || c.SinkKind == SinkAsyncFile) && c.FilePath == "" {
		return errs.Wrap(errs.ErrConfigInvalid, "file sink requires a non-empty file path")
	}

	if c.BatchSize < MinBatchSize {
		warnf("batch_size %d below minimum %d, clamping up", c.BatchSize, MinBatchSize)
		c.BatchSize = MinBatchSize
	}
	if c.QueueCapacity < 2*c.BatchSize {
		warnf("queue_capacity %d below 2x batch_size, clamping to %d", c.QueueCapacity, 2*c.BatchSize)
		c.QueueCapacity = 2 * c.BatchSize
	}
	if c.NumWorkers < 1 {
		warnf("num_workers %d below minimum 1, clamping up", c.NumWorkers)
		c.NumWorkers = 1
	}
	if c.PoolSize < c.QueueCapacity {
		warnf("pool_size %d below queue_capacity %d, clamping up", c.PoolSize, c.QueueCapacity)
		c.PoolSize = c.QueueCapacity
	}
	if c.MaxLogSize <= 0 {
		c.MaxLogSize = DefaultMaxLogSizeByte
	}
	if c.RetentionPeriod <= 0 {
		c.RetentionPeriod = DefaultRetentionDays * 24 * time.Hour
	}
	return nil
}

func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "logger: config warning: "+format+"\n", args...)
}
