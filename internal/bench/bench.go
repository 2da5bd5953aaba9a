// Package bench drives a dhash store from many goroutines and reports timing.
package bench

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/theflywheel/dhash"
)

// Config describes one benchmark run.
type Config struct {
	Workers int
	Items   int // per worker

	// Shuffle searches keys in a random order instead of insertion order.
	Shuffle bool
	Seed    uint64

	// Logger receives per-key progress lines. Nil disables them.
	Logger *log.Logger
}

// WorkerResult holds the timings of one worker.
type WorkerResult struct {
	ID       int
	Insert   time.Duration
	Search   time.Duration
	Misses   int
	Mismatch int
}

// Report is the outcome of a run.
type Report struct {
	Workers    []WorkerResult
	Items      int
	FinalCount int
	Wall       time.Duration
}

// Misses returns the number of keys that were not found or had a wrong value.
func (r Report) Misses() int {
	n := 0
	for _, w := range r.Workers {
		n += w.Misses + w.Mismatch
	}
	return n
}

// Throughput returns inserted items per second of wall time.
func (r Report) Throughput() float64 {
	if r.Wall <= 0 {
		return 0
	}
	return float64(r.Items) / r.Wall.Seconds()
}

// Key returns the key inserted by worker id for item i.
func Key(id, i int) string {
	return fmt.Sprintf("key_t%d_i%d", id, i)
}

// Value returns the value inserted by worker id for item i.
func Value(id, i int) string {
	return fmt.Sprintf("value_t%d_i%d", id, i)
}

// Run starts cfg.Workers goroutines against store. Each inserts its own
// disjoint set of cfg.Items keys and then searches all of them back.
func Run(ctx context.Context, store dhash.Store, cfg Config) (Report, error) {
	if cfg.Workers <= 0 || cfg.Items <= 0 {
		return Report{}, fmt.Errorf("number of workers and items must be positive, got %d and %d", cfg.Workers, cfg.Items)
	}

	results := make([]WorkerResult, cfg.Workers)
	g, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	for id := 0; id < cfg.Workers; id++ {
		id := id
		g.Go(func() error {
			return work(ctx, store, cfg, id, &results[id])
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{
		Workers:    results,
		Items:      cfg.Workers * cfg.Items,
		FinalCount: store.Count(),
		Wall:       time.Since(start),
	}, nil
}

func work(ctx context.Context, store dhash.Store, cfg Config, id int, res *WorkerResult) error {
	res.ID = id

	start := time.Now()
	for i := 0; i < cfg.Items; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		key, value := Key(id, i), Value(id, i)
		if cfg.Logger != nil {
			cfg.Logger.Printf("worker %d: inserting => key: %s: value: %s", id, key, value)
		}
		if err := store.Insert(key, value); err != nil {
			return fmt.Errorf("worker %d: insert %s: %w", id, key, err)
		}
	}
	res.Insert = time.Since(start)

	order := make([]int, cfg.Items)
	for i := range order {
		order[i] = i
	}
	if cfg.Shuffle {
		order = rand.New(rand.NewSource(cfg.Seed + uint64(id))).Perm(cfg.Items)
	}

	start = time.Now()
	for _, i := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := Key(id, i)
		v, ok := store.Search(key)
		switch {
		case !ok:
			res.Misses++
			if cfg.Logger != nil {
				cfg.Logger.Printf("worker %d: ERROR! Did not find key %s", id, key)
			}
		case v != Value(id, i):
			res.Mismatch++
			if cfg.Logger != nil {
				cfg.Logger.Printf("worker %d: ERROR! key %s has value %s", id, key, v)
			}
		}
	}
	res.Search = time.Since(start)
	return nil
}

// Print writes a human readable report.
func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w, "\n--- PER-WORKER TIMINGS ---")
	for _, wr := range r.Workers {
		fmt.Fprintf(w, "Worker %2d: Insertion took %.4f s, Searches took %.4f s\n",
			wr.ID, wr.Insert.Seconds(), wr.Search.Seconds())
	}

	fmt.Fprintln(w, "\n--- AGGREGATE RESULTS ---")
	fmt.Fprintf(w, "Final hash table count: %d\n", r.FinalCount)
	fmt.Fprintf(w, "Missing or wrong values: %d\n", r.Misses())
	fmt.Fprintf(w, "Total wall-clock time: %.4f s\n", r.Wall.Seconds())
	fmt.Fprintf(w, "Overall insertion throughput: %.2f inserts/sec\n", r.Throughput())
}
