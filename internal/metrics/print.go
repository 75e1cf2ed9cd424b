package metrics

import (
	"fmt"
	"sync/atomic"
)

type Snapshot struct {
	DurationMs  int64
	Total       int64
	Processed   int64
	OK          int64
	HashErrors  int64
	BytesHashed int64
	TotalBytes  int64
}

func (s *Stats) Snapshot() Snapshot {
	dur := s.Duration()

	return Snapshot{
		DurationMs:  dur.Milliseconds(),
		Total:       atomic.LoadInt64(&s.Total),
		Processed:   atomic.LoadInt64(&s.Processed),
		OK:          atomic.LoadInt64(&s.OK),
		HashErrors:  atomic.LoadInt64(&s.HashErrors),
		BytesHashed: atomic.LoadInt64(&s.BytesHashed),
		TotalBytes:  atomic.LoadInt64(&s.TotalBytes),
	}
}

// Throughput returns bytes hashed per second over the run.
func (s Snapshot) Throughput() float64 {
	if s.DurationMs <= 0 {
		return 0
	}
	return float64(s.BytesHashed) / (float64(s.DurationMs) / 1000.0)
}

// FormatSize renders a byte count in human-readable form, e.g. "4.20 MB".
func FormatSize(bytes int64) string {
	v := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if v < 1024.0 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", v)
}
