package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/index-bench/splaytree/bench"
	"github.com/index-bench/splaytree/index"
	"github.com/index-bench/splaytree/index/gbtree"
	"github.com/index-bench/splaytree/index/lsm"
	"github.com/index-bench/splaytree/index/splayindex"
	"github.com/index-bench/splaytree/splay"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "splaybench",
		Usage:     "splay tree playground and index benchmark",
		Writer:    out,
		ErrWriter: errOut,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SPLAYBENCH_LOG_LEVEL", "LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log output format (text, json)",
				Value:   "text",
				EnvVars: []string{"SPLAYBENCH_LOG_FORMAT"},
			},
		},
		Before: func(cctx *cli.Context) error {
			_, err := setupLogging(cctx.App.ErrWriter, cctx.String("log-level"), cctx.String("log-format"))
			return err
		},
		Commands: []*cli.Command{
			cmdBench,
			cmdDemo,
		},
	}
}

var cmdBench = &cli.Command{
	Name:  "bench",
	Usage: "load every index with the same keys and replay the workloads",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "scale",
			Usage:   "number of keys loaded before the workloads run",
			Value:   100_000,
			EnvVars: []string{"SPLAYBENCH_SCALE"},
		},
		&cli.IntSliceFlag{
			Name:  "degree",
			Usage: "B-tree degrees to compare against (default: 8, 32, 128)",
		},
		&cli.StringFlag{
			Name:    "pebble-dir",
			Usage:   "directory for the pebble store; a temporary directory is used if empty",
			EnvVars: []string{"SPLAYBENCH_PEBBLE_DIR"},
		},
		&cli.BoolFlag{
			Name:  "skip-pebble",
			Usage: "only benchmark the in-memory structures",
		},
		&cli.StringFlag{
			Name:    "csv",
			Usage:   "path of the CSV result file",
			Value:   "splaybench_results.csv",
			EnvVars: []string{"SPLAYBENCH_CSV"},
		},
		&cli.StringFlag{
			Name:  "chart",
			Usage: "path of a latency chart (.png, .svg, .pdf); skipped if empty",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "seed for the workload generator",
			Value: 1,
		},
	},
	Action: runBench,
}

func runBench(cctx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := slog.Default().With("system", "splaybench")

	suites := []bench.Suite{{
		Name:   "Splay",
		Config: "-",
		Open:   func() (index.Index, error) { return splayindex.New(splay.WithCapacity(cctx.Int("scale"))), nil },
	}}
	degrees := cctx.IntSlice("degree")
	if len(degrees) == 0 {
		degrees = []int{8, 32, 128}
	}
	for _, d := range degrees {
		suites = append(suites, bench.Suite{
			Name:   "B-Tree",
			Config: strconv.Itoa(d),
			Open:   func() (index.Index, error) { return gbtree.New(d), nil },
		})
	}

	if !cctx.Bool("skip-pebble") {
		dir := cctx.String("pebble-dir")
		if dir == "" {
			tmp, err := os.MkdirTemp("", "splaybench-pebble-*")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tmp)
			dir = tmp
		}
		suites = append(suites, bench.Suite{
			Name:   "Pebble",
			Config: "LSM",
			Open:   func() (index.Index, error) { return lsm.Open(dir) },
		})
	}

	results, err := bench.Run(ctx, suites, bench.Options{
		Scale: cctx.Int("scale"),
		Seed:  cctx.Int64("seed"),
		Log:   log,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(cctx.String("csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := bench.WriteCSV(f, results); err != nil {
		return fmt.Errorf("writing %s: %w", cctx.String("csv"), err)
	}

	if path := cctx.String("chart"); path != "" {
		if err := bench.WriteChart(path, results); err != nil {
			return err
		}
	}

	log.Info("benchmark complete", "results", len(results), "csv", cctx.String("csv"))
	return nil
}

var cmdDemo = &cli.Command{
	Name:  "demo",
	Usage: "insert and delete keys in a splay tree and print its shape",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "keys",
			Usage: "comma separated keys to insert, in order",
			Value: "30,40,67,8,70,35,96",
		},
		&cli.StringFlag{
			Name:  "delete",
			Usage: "comma separated keys to delete after inserting",
			Value: "35,70",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "output format (levels, tree, dot)",
			Value: "levels",
		},
	},
	Action: runDemo,
}

func runDemo(cctx *cli.Context) error {
	inserts, err := parseKeys(cctx.String("keys"))
	if err != nil {
		return fmt.Errorf("--keys: %w", err)
	}
	deletes, err := parseKeys(cctx.String("delete"))
	if err != nil {
		return fmt.Errorf("--delete: %w", err)
	}

	var render func(*splay.Tree[int64]) error
	out := cctx.App.Writer
	switch cctx.String("format") {
	case "levels":
		render = func(t *splay.Tree[int64]) error { return t.Print(out) }
	case "tree":
		render = func(t *splay.Tree[int64]) error { return t.Dump(out) }
	case "dot":
		render = func(t *splay.Tree[int64]) error { return t.WriteDOT(out) }
	default:
		return fmt.Errorf("unknown format: %#v", cctx.String("format"))
	}

	log := slog.Default().With("system", "splaybench")
	tree := splay.New[int64](splay.WithLogger(log))
	for _, k := range inserts {
		tree.Insert(k)
	}
	if err := render(tree); err != nil {
		return err
	}

	if len(deletes) == 0 {
		return nil
	}
	for _, k := range deletes {
		if err := tree.Delete(k); err != nil {
			log.Warn("delete failed", "key", k, "err", err)
		}
	}
	if err := render(tree); err != nil {
		return err
	}

	fmt.Fprintf(out, "inorder: %v\n", tree.Inorder())
	return nil
}

func parseKeys(s string) ([]int64, error) {
	var keys []int64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		k, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
