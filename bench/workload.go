package bench

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/index-bench/splaytree/index"
)

type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	OLAP      WorkloadType = "OLAP (10/90)"
	Reporting WorkloadType = "Reporting (Range)"
	// Hotspot is read heavy like OLTP, but keys follow a Zipf distribution so
	// a few keys take most of the traffic.
	Hotspot WorkloadType = "Hotspot (Zipf)"
)

// AllWorkloads lists the workloads in the order the runner executes them.
var AllWorkloads = []WorkloadType{OLTP, OLAP, Reporting, Hotspot}

// Label is the short name used in result rows.
func (w WorkloadType) Label() string {
	switch w {
	case OLTP:
		return "Workload_OLTP"
	case OLAP:
		return "Workload_OLAP"
	case Reporting:
		return "Workload_Range"
	case Hotspot:
		return "Workload_Hotspot"
	}
	return "Workload_" + string(w)
}

// Ops is the number of operations run for a data set of n keys.
func (w WorkloadType) Ops(n int) int {
	if w == Reporting {
		return min(n, 100)
	}
	return max(n/2, 1)
}

// ExecuteWorkload runs a mixed distribution of ops. Misses are expected and
// not reported; any other index error aborts the run.
func ExecuteWorkload(idx index.Index, wType WorkloadType, ops int, rng *rand.Rand) error {
	var zipf *rand.Zipf
	if wType == Hotspot && ops > 1 {
		zipf = rand.NewZipf(rng, 1.2, 1, uint64(ops-1))
	}

	for i := 0; i < ops; i++ {
		choice := rng.Intn(100)
		key := int64(rng.Intn(ops))

		var err error
		switch wType {
		case OLTP:
			if choice < 90 {
				_, err = idx.Get(key)
			} else {
				err = idx.Insert(key, []byte("x"))
			}
		case OLAP:
			if choice < 10 {
				_, err = idx.Get(key)
			} else {
				err = idx.Insert(key, []byte("x"))
			}
		case Reporting:
			err = scan(idx, key, key+100)
		case Hotspot:
			if zipf != nil {
				key = int64(zipf.Uint64())
			}
			if choice < 90 {
				_, err = idx.Get(key)
			} else {
				err = idx.Insert(key, []byte("h"))
			}
		default:
			return fmt.Errorf("bench: unknown workload %q", wType)
		}

		if err != nil && !errors.Is(err, index.ErrKeyNotFound) {
			return fmt.Errorf("bench: %s: %w", wType, err)
		}
	}
	return nil
}

func scan(idx index.Index, start, end int64) error {
	it, err := idx.Range(start, end)
	if err != nil {
		return err
	}
	for it.Next() {
	}
	if err := it.Error(); err != nil {
		it.Close()
		return err
	}
	return it.Close()
}
