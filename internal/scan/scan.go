package scan

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"hashdir/internal/metrics"
	"hashdir/internal/walk"
)

const maxDefaultWorkers = 32

// DefaultWorkers returns min(32, number of CPUs).
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxDefaultWorkers {
		n = maxDefaultWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run hashes every enumerated file across a fixed pool of workers and
// returns the results sorted back into enumeration order. Per-file read
// failures are logged and yield a digest-less Result; they never abort the
// run. Cancelling ctx stops submission of further files promptly (in-flight
// files finish) and Run returns ctx.Err().
func Run(ctx context.Context, files []walk.FileRecord, opts Options, log *slog.Logger, stats *metrics.Stats, bar ProgressSink) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	results := make([]Result, 0, len(files))
	var mu sync.Mutex

	jobs := make(chan walk.FileRecord)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()

		for fr := range jobs {
			advance := func(n int64) {
				if n > 0 && bar != nil {
					bar.AddBytes(n)
				}
			}

			var sent int64
			digest, err := FileDigest(fr.Path, fr.Size, func(n int64) {
				atomic.AddInt64(&stats.BytesHashed, n)
				sent += n
				advance(n)
			})
			if err != nil {
				atomic.AddInt64(&stats.HashErrors, 1)
				log.Warn("cannot hash file", "path", fr.Path, "error", err)
				digest = nil
			} else {
				atomic.AddInt64(&stats.OK, 1)
			}

			// A failed or shrunken file still advances the bar by its
			// enumerated size so the total stays honest.
			advance(fr.Size - sent)

			mu.Lock()
			results = append(results, Result{
				Index:  fr.Index,
				Path:   fr.Path,
				Digest: digest,
				Size:   fr.Size,
			})
			mu.Unlock()

			atomic.AddInt64(&stats.Processed, 1)
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}

	var submitErr error
submit:
	for _, fr := range files {
		// Checked before the send: a two-case select picks randomly when
		// both a worker and Done are ready, which would let extra jobs
		// slip through after cancellation.
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}
		select {
		case jobs <- fr:
		case <-ctx.Done():
			submitErr = ctx.Err()
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	if submitErr != nil {
		return nil, submitErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	return results, nil
}
