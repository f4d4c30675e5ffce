// Package bench loads each index with the same data, replays the same
// workloads against it and records per-operation latency and memory.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/index-bench/splaytree/index"
)

// Suite names one structure under test. Open is called once per run and the
// returned index is closed afterwards.
type Suite struct {
	Name   string
	Config string
	Open   func() (index.Index, error)
}

type Options struct {
	Scale     int // keys loaded before the workloads run
	Workloads []WorkloadType
	Seed      int64
	Log       *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Scale <= 0 {
		o.Scale = 100_000
	}
	if len(o.Workloads) == 0 {
		o.Workloads = AllWorkloads
	}
	if o.Log == nil {
		o.Log = slog.Default().With("system", "bench")
	}
}

// Run executes every suite in order. Each suite gets a generator seeded with
// opts.Seed so all structures see the same operation sequence.
func Run(ctx context.Context, suites []Suite, opts Options) ([]BenchResult, error) {
	opts.setDefaults()

	var results []BenchResult
	for _, s := range suites {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := runSuite(ctx, s, opts)
		results = append(results, res...)
		if err != nil {
			return results, fmt.Errorf("bench: %s (%s): %w", s.Name, s.Config, err)
		}
	}
	return results, nil
}

func runSuite(ctx context.Context, s Suite, opts Options) (results []BenchResult, err error) {
	log := opts.Log.With("structure", s.Name, "config", s.Config)
	log.Info("testing structure")

	idx, err := s.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rng := rand.New(rand.NewSource(opts.Seed))
	n := opts.Scale

	// 1. Pure Insert (Initial Load)
	start := time.Now()
	for k := 0; k < n; k++ {
		if err := idx.Insert(int64(k), []byte("v")); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)

	// Measure memory immediately after load but before workloads
	stats := GetDetailedMem()
	results = append(results, BenchResult{
		Name:      s.Name,
		Config:    s.Config,
		Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	})
	log.Debug("loaded", "keys", n, "ns_per_op", insertLatency, "alloc_mb", stats.AllocMB)

	// 2. Workloads
	for _, w := range opts.Workloads {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		ops := w.Ops(n)
		start = time.Now()
		if err := ExecuteWorkload(idx, w, ops, rng); err != nil {
			return results, err
		}
		latency := time.Since(start).Nanoseconds() / int64(ops)
		stats := GetDetailedMem()
		results = append(results, BenchResult{
			Name:      s.Name,
			Config:    s.Config,
			Operation: w.Label(),
			LatencyNs: latency,
			MemMB:     stats.AllocMB,
			Objects:   stats.HeapObjects,
		})
		log.Debug("workload done", "workload", string(w), "ops", ops, "ns_per_op", latency)
	}
	return results, nil
}
