// Command hashdir recursively computes BLAKE2 hashes for every file under a
// directory and writes a CSV manifest of relative path and hex digest.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hashdir/internal/manifest"
	"hashdir/internal/metrics"
	"hashdir/internal/progress"
	"hashdir/internal/scan"
	"hashdir/internal/walk"
)

const defaultOutput = "dir_hashes_blake2.csv"

var (
	outputPath string
	workers    int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "hashdir <directory>",
	Short:        "Compute BLAKE2 hashes of all files in a directory recursively",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", defaultOutput,
		`output CSV file, or "-" for stdout`)
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0,
		"number of hashing workers (default: min(32, CPU count))")
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
}

// initConfig lets flags be overridden from the environment, e.g.
// HASHDIR_WORKERS=4.
func initConfig() {
	viper.SetEnvPrefix("HASHDIR")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	dir := args[0]

	out := viper.GetString("output")
	toStdout := out == "-"

	// With the manifest going to stdout, informational chatter is demoted
	// so only data rows land there and only warnings hit stderr.
	level := slog.LevelInfo
	switch {
	case viper.GetBool("verbose"):
		level = slog.LevelDebug
	case toStdout:
		level = slog.LevelWarn
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a valid directory", dir)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	nw := viper.GetInt("workers")
	if nw <= 0 {
		nw = scan.DefaultWorkers()
	}
	log.Info("using hash workers", "workers", nw)

	stats := &metrics.Stats{}
	stats.Start()

	log.Info("scanning directory", "directory", dir)
	files, totalBytes, err := walk.Walk(dir, log)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	atomic.StoreInt64(&stats.Total, int64(len(files)))
	atomic.StoreInt64(&stats.TotalBytes, totalBytes)
	log.Info("found files to process",
		"files", len(files), "total_size", metrics.FormatSize(totalBytes))

	var (
		bar  *progress.Bar
		sink scan.ProgressSink
	)
	if !toStdout {
		bar = progress.New(totalBytes, func() (processed, total, errc, bytesHashed int64) {
			processed = atomic.LoadInt64(&stats.Processed)
			total = atomic.LoadInt64(&stats.Total)
			errc = atomic.LoadInt64(&stats.HashErrors)
			bytesHashed = atomic.LoadInt64(&stats.BytesHashed)
			return processed, total, errc, bytesHashed
		})
		sink = bar
	}

	results, err := scan.Run(ctx, files, scan.Options{Workers: nw}, log, stats, sink)
	if bar != nil {
		bar.Close()
	}
	if err != nil {
		return fmt.Errorf("hashing aborted: %w", err)
	}

	stats.Stop()

	var written int
	if toStdout {
		written, err = manifest.Write(os.Stdout, dir, results, runtime.GOOS == "windows")
	} else {
		written, err = manifest.WriteFile(out, dir, results)
	}
	if err != nil {
		return err
	}

	snap := stats.Snapshot()
	log.Info("completed hashing",
		"ok", written,
		"total", snap.Total,
		"hashed", metrics.FormatSize(snap.BytesHashed),
		"duration", (time.Duration(snap.DurationMs) * time.Millisecond).String(),
		"throughput", metrics.FormatSize(int64(snap.Throughput()))+"/s",
	)
	dest := out
	if toStdout {
		dest = "standard output"
	}
	log.Info("results written", "output", dest)

	return nil
}
