package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hoastyle/logger/pkg/config"
	"github.com/hoastyle/logger/pkg/errs"
)

func TestDefaultConfigValidates(t *testing.T) {
	c := config.DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsStdoutWithFileLogging(t *testing.T) {
	c := config.DefaultConfig()
	c.LogToFile = true
	err := c.Validate()
	if !errors.Is(err, errs.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestValidateRejectsFileSinkWithoutPath(t *testing.T) {
	c := config.DefaultConfig()
	c.SinkKind = config.SinkAsyncFile
	c.FilePath = ""
	err := c.Validate()
	if !errors.Is(err, errs.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestValidateClampsOutOfRangeUpward(t *testing.T) {
	c := &config.Config{
		SinkKind:      config.SinkAsyncFile,
		FilePath:      "/tmp/app",
		BatchSize:     1,
		QueueCapacity: 1,
		NumWorkers:    0,
		PoolSize:      1,
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BatchSize != config.MinBatchSize {
		t.Errorf("BatchSize = %d, want %d", c.BatchSize, config.MinBatchSize)
	}
	if c.QueueCapacity != 2*c.BatchSize {
		t.Errorf("QueueCapacity = %d, want %d", c.QueueCapacity, 2*c.BatchSize)
	}
	if c.NumWorkers != 1 {
		t.Errorf("NumWorkers = %d, want 1", c.NumWorkers)
	}
	if c.PoolSize != c.QueueCapacity {
		t.Errorf("PoolSize = %d, want %d", c.PoolSize, c.QueueCapacity)
	}
}

func TestValidateDefaultsZeroMaxLogSizeAndRetention(t *testing.T) {
	c := config.DefaultConfig()
	c.MaxLogSize = 0
	c.RetentionPeriod = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MaxLogSize != int64(config.DefaultMaxLogSizeByte) {
		t.Errorf("MaxLogSize = %d, want %d", c.MaxLogSize, config.DefaultMaxLogSizeByte)
	}
	if c.RetentionPeriod <= time.Duration(0) {
		t.Errorf("RetentionPeriod = %v, want > 0", c.RetentionPeriod)
	}
}
