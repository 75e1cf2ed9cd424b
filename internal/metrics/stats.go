package metrics

import "time"

// Stats holds the live counters for one run. The int64 fields are written
// from worker goroutines via sync/atomic and must only be read the same way
// while the run is in flight.
type Stats struct {
	Total      int64
	TotalBytes int64

	Processed  int64
	OK         int64
	HashErrors int64

	BytesHashed int64
	Started     time.Time
	Finished    time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}
