package metrics

import "fmt"

func formatStats(s Snapshot) string {
	return fmt.Sprintf("Logger stats - Enqueued: %d, Processed: %d, Dropped: %d, Overflow: %d",
		s.Enqueued, s.Processed, s.Dropped, s.Overflow)
}
