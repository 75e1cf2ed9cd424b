package scan

// Result is the outcome of hashing one enumerated file. Digest is nil when
// the file could not be read; the record still occupies its index slot so
// the collected slice always matches the dispatched count.
type Result struct {
	Index  int
	Path   string
	Digest []byte
	Size   int64
}

// Options configures a scan run.
type Options struct {
	Workers int
}

// ProgressSink receives byte counts as files are hashed. The console
// progress bar implements it; tests pass nil or a counter.
type ProgressSink interface {
	AddBytes(n int64)
}
