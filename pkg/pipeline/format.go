package pipeline

import (
	"fmt"
	"time"

	"github.com/hoastyle/logger/pkg/levels"
)

// fileFieldMax is the truncation bound on the "<file>::<func>()" field in
// the formatted prefix (spec §6): at most 40 characters, eliding with a
// "..." sentinel.
const fileFieldMax = 40

// Emitf builds the fixed formatted-record prefix
// "<timestamp>.<ms> <tid> <file40>::<func>() <line> <L>: <msg>" and calls
// Emit. tid is the caller-supplied thread/goroutine identifier; this
// package never reads runtime.Goid (there isn't one) so the caller must
// supply whatever identifier its facade uses.
func (p *Pipeline) Emitf(level levels.Level, tid int64, file, fn string, line int, format string, args ...interface{}) {
	if !p.mask.Admits(level) {
		return
	}
	now := timeNow()
	msg := fmt.Sprintf(format, args...)
	field := truncateField(file, fn, fileFieldMax)
	prefix := fmt.Sprintf("%s.%03d %d %s() %d %c: %s",
		now.Format("20060102 15:04:05"), now.Nanosecond()/1e6, tid, field, line, level.Letter(), msg)
	p.Emit(level, []byte(prefix))
}

// timeNow is a var so tests can freeze it.
var timeNow = time.Now

// truncateField joins file and fn as "file::fn" and elides the result to
// at most max characters with a trailing "...", matching spec §6's
// truncation rule for the combined field. It is a pure function, grounded
// directly on original_source's buffer-truncation convention applied here
// to a string instead of a fixed byte buffer.
func truncateField(file, fn string, max int) string {
	joined := file + "::" + fn
	if len(joined) <= max {
		return joined
	}
	if max <= 3 {
		return joined[:max]
	}
	return joined[:max-3] + "..."
}
