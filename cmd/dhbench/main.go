// Command dhbench measures concurrent insert and search throughput of a
// dhash table.
//
// Usage:
//
//	dhbench [flags] [threads items]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/theflywheel/dhash"
	"github.com/theflywheel/dhash/internal/bench"
	"github.com/theflywheel/dhash/internal/config"
	"github.com/theflywheel/dhash/metrics"
)

func main() {
	config.LoadEnv()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one benchmark and returns the process exit code. The store is
// closed on every path once it has been opened.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", log.LstdFlags)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Printf("Invalid configuration: %v", err)
		return 1
	}

	fs := flag.NewFlagSet("dhbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	var (
		threads     = fs.Int("threads", 4, "number of worker goroutines")
		items       = fs.Int("items", 10000, "items inserted per worker")
		shuffle     = fs.Bool("shuffle", false, "search keys in random order")
		seed        = fs.Uint64("seed", 1, "seed for -shuffle")
		trace       = fs.Bool("trace", false, "log every insert and search")
		jsonOut     = fs.String("json", "", "append a JSON summary to this file")
		repoRoot    = fs.String("repo", ".", "repository root used for commit metadata in -json")
		showMetrics = fs.Bool("metrics", false, "print table metrics after the run")
	)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if rest := fs.Args(); len(rest) > 0 {
		if len(rest) != 2 {
			fmt.Fprintln(stderr, "Usage: dhbench [flags] <num_threads> <items_per_thread>")
			return 1
		}
		if *threads, err = strconv.Atoi(rest[0]); err != nil {
			fmt.Fprintf(stderr, "Invalid number %q: %v\n", rest[0], err)
			return 1
		}
		if *items, err = strconv.Atoi(rest[1]); err != nil {
			fmt.Fprintf(stderr, "Invalid number %q: %v\n", rest[1], err)
			return 1
		}
	}
	if *threads <= 0 || *items <= 0 {
		fmt.Fprintln(stderr, "Number of threads and items must be a positive number.")
		return 1
	}

	store, err := cfg.Open(stderr)
	if err != nil {
		logger.Printf("Failed to create table: %v", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("Failed to close table: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(stdout, "--- BENCHMARKING ---")
	fmt.Fprintf(stdout, "Threads: %d\n", *threads)
	fmt.Fprintf(stdout, "Items per Thread: %d\n", *items)
	fmt.Fprintf(stdout, "Total Items: %d\n", *threads**items)
	fmt.Fprintf(stdout, "Shards: %d\n", max(cfg.Shards, 1))
	fmt.Fprintln(stdout, "----------------------")

	bcfg := bench.Config{
		Workers: *threads,
		Items:   *items,
		Shuffle: *shuffle,
		Seed:    *seed,
	}
	if *trace {
		bcfg.Logger = log.New(stderr, "", log.Lmicroseconds)
	}

	report, err := bench.Run(ctx, store, bcfg)
	if err != nil {
		logger.Printf("Benchmark failed: %v", err)
		return 1
	}
	report.Print(stdout)

	if *showMetrics {
		if sp, ok := store.(dhash.StatsProvider); ok {
			reg := prometheus.NewRegistry()
			reg.MustRegister(metrics.NewCollector("bench", sp))
			fmt.Fprintln(stdout, "\n--- TABLE METRICS ---")
			if err := bench.WriteMetrics(stdout, reg); err != nil {
				logger.Printf("Failed to write metrics: %v", err)
			}
		}
	}

	if *jsonOut != "" {
		name := fmt.Sprintf("Concurrent_%dx%d", *threads, *items)
		if err := bench.WriteSummary(*jsonOut, bench.Summarize(name, report, *repoRoot)); err != nil {
			logger.Printf("Failed to save summary: %v", err)
			return 1
		}
		fmt.Fprintf(stdout, "Benchmark results saved to: %s\n", *jsonOut)
	}

	if report.Misses() > 0 {
		return 2
	}
	return 0
}
