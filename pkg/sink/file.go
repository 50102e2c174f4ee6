package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/hoastyle/logger/pkg/levels"
)

// DefaultMaxLogSize is the severity cap that rotates the active file,
// matching original_source's FLAGS_max_log_size=1024 (interpreted in MB by
// glog, i.e. the same 1 GiB spec.md §4.1 states directly).
const DefaultMaxLogSize = 1 << 30 // 1 GiB

// RetentionDays is the age after which a rotated file becomes eligible for
// cleanup, named for the original's GLOG_OVERDUE_DAY constant.
const RetentionDays = 14

// rotationTimeFormat is the sortable, collision-resistant timestamp suffix
// applied to a rotated file, grounded on the teacher's RotationTimeFormat.
const rotationTimeFormat = "20060102-150405.000"

// tiers are the four severity-partitioned files a FileSink maintains.
// Every record is written to every tier whose floor it meets or exceeds,
// mirroring glog's "a WARNING also goes to the INFO file" behavior.
var tiers = []levels.Level{levels.Info, levels.Warn, levels.Error, levels.Fatal}

func tierName(l levels.Level) string {
	switch l {
	case levels.Info:
		return "INFO"
	case levels.Warn:
		return "WARNING"
	case levels.Error:
		return "ERROR"
	case levels.Fatal:
		return "FATAL"
	default:
		return "INFO"
	}
}

// tierFile is one rotating, flock-guarded file for a single severity tier.
// The locking discipline (open, stat for current size, flock.New for
// process-safety) is grounded on pkg/backends/file.go's FileBackendImpl.
type tierFile struct {
	mu      sync.Mutex
	dir     string
	base    string // e.g. "app.INFO"
	file    *os.File
	writer  *bufio.Writer
	lock    *flock.Flock
	size    int64
	maxSize int64
	maxAge  time.Duration
}

func openTierFile(dir, appName string, tier levels.Level, maxSize int64, maxAge time.Duration) (*tierFile, error) {
	base := fmt.Sprintf("%s.%s", appName, tierName(tier))
	path := filepath.Join(dir, base)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat log file %s: %w", path, err)
	}

	return &tierFile{
		dir:     dir,
		base:    base,
		file:    f,
		writer:  bufio.NewWriterSize(f, 32*1024),
		lock:    flock.New(path + ".lock"),
		size:    info.Size(),
		maxSize: maxSize,
		maxAge:  maxAge,
	}, nil
}

func (t *tierFile) write(b []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", t.base, err)
	}
	defer func() { _ = t.lock.Unlock() }()

	n, err := t.writer.Write(b)
	if err != nil {
		return err
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return err
	}
	if err := t.writer.Flush(); err != nil {
		return err
	}
	t.size += int64(n) + 1

	if t.maxSize > 0 && t.size > t.maxSize {
		if err := t.rotateLocked(); err != nil {
			return err
		}
	}
	return nil
}

// rotateLocked renames the active file with a timestamp suffix and reopens
// a fresh one at the original path. Caller must hold t.mu.
func (t *tierFile) rotateLocked() error {
	path := filepath.Join(t.dir, t.base)
	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("flush before rotate: %w", err)
	}
	if err := t.file.Close(); err != nil {
		return fmt.Errorf("close before rotate: %w", err)
	}

	rotated := fmt.Sprintf("%s.%s", path, time.Now().UTC().Format(rotationTimeFormat))
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("reopen %s after rotate: %w", path, err)
	}
	t.file = f
	t.writer = bufio.NewWriterSize(f, 32*1024)
	t.size = 0

	go t.cleanupOldFiles()
	return nil
}

// cleanupOldFiles removes rotated siblings of this tier file older than
// maxAge, grounded on pkg/features/rotation.go's CleanupOldLogs.
func (t *tierFile) cleanupOldFiles() {
	t.mu.Lock()
	maxAge := t.maxAge
	dir, base := t.dir, t.base
	t.mu.Unlock()

	if maxAge <= 0 {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		reportIOError("file", fmt.Errorf("reading %s for cleanup: %w", dir, err))
		return
	}
	pattern := regexp.MustCompile(fmt.Sprintf(`^%s\.(\d{8}-\d{6}\.\d{3})$`, regexp.QuoteMeta(base)))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if len(m) != 2 {
			continue
		}
		ts, err := time.Parse(rotationTimeFormat, m[1])
		if err != nil {
			continue
		}
		if time.Since(ts) > maxAge {
			_ = os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}

func (t *tierFile) flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writer.Flush()
}

func (t *tierFile) close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.writer.Flush(); err != nil {
		return err
	}
	return t.file.Close()
}

// FileSink writes each record to every severity tier file whose floor it
// meets, per spec §4.1: "one file (or file set) per severity tier". When
// MirrorToConsole is set it also mirrors records whose level >= StderrThreshold to
// the terminal, grounded on the teacher's multi-destination fan-out in
// pkg/omni/integration.go.
type FileSink struct {
	tiersByLevel map[levels.Level]*tierFile
	console      *StdoutSink
	stderrMin    levels.Level
	fileMin      levels.Level
	useConsole   bool
}

// FileSinkOptions configures a FileSink.
type FileSinkOptions struct {
	Dir             string
	AppName         string
	MaxSize         int64         // 0 selects DefaultMaxLogSize
	RetentionPeriod time.Duration // 0 selects RetentionDays
	MirrorToConsole bool
	StderrThreshold levels.Level
	FileThreshold   levels.Level // minimum level written to any tier file; NoLog disables file writes entirely
}

// NewFileSink creates the directory (if needed) and opens one file per
// severity tier.
func NewFileSink(opts FileSinkOptions) (*FileSink, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("file sink: empty directory")
	}
	if opts.AppName == "" {
		opts.AppName = "app"
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxLogSize
	}
	if opts.RetentionPeriod <= 0 {
		opts.RetentionPeriod = RetentionDays * 24 * time.Hour
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", opts.Dir, err)
	}

	fs := &FileSink{
		tiersByLevel: make(map[levels.Level]*tierFile, len(tiers)),
		stderrMin:    opts.StderrThreshold,
		fileMin:      opts.FileThreshold,
		useConsole:   opts.MirrorToConsole,
	}
	if opts.MirrorToConsole {
		fs.console = NewStdout()
	}

	for _, tier := range tiers {
		tf, err := openTierFile(opts.Dir, opts.AppName, tier, opts.MaxSize, opts.RetentionPeriod)
		if err != nil {
			fs.closeOpened()
			return nil, err
		}
		fs.tiersByLevel[tier] = tf
	}
	return fs, nil
}

func (fs *FileSink) closeOpened() {
	for _, tf := range fs.tiersByLevel {
		_ = tf.close()
	}
}

// Write fans the record out to every tier file whose floor is <= level
// (a WARNING also lands in the INFO file, matching glog's cascading tier
// semantics; Verbose and Debug records, below every floor, land in the
// INFO file, the most verbose tier), provided the record clears the file
// threshold at all, and mirrors it to the console if configured and the
// stderr threshold admits it.
func (fs *FileSink) Write(level levels.Level, b []byte) error {
	var firstErr error
	if fs.fileMin.Admits(level) {
		for _, tier := range tiers {
			if level < tier && tier != levels.Info {
				continue
			}
			tf := fs.tiersByLevel[tier]
			if err := tf.write(b); err != nil && firstErr == nil {
				reportIOError(tf.base, err)
				firstErr = err
			}
		}
	}
	if fs.useConsole && fs.stderrMin.Admits(level) {
		if err := fs.console.Write(level, b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Flush flushes every tier file and the console mirror.
func (fs *FileSink) Flush() error {
	var firstErr error
	for _, tf := range fs.tiersByLevel {
		if err := tf.flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if fs.useConsole {
		if err := fs.console.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes and closes every tier file.
func (fs *FileSink) Close() error {
	var firstErr error
	for _, tf := range fs.tiersByLevel {
		if err := tf.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
