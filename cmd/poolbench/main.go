// Command poolbench exercises the object pool under configurable load and
// reports throughput, teardown latency and memory figures.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wenzhenghu/objectpool/pkg/logger"
	"github.com/wenzhenghu/objectpool/pkg/metrics"
	"github.com/wenzhenghu/objectpool/pkg/objectpool"
)

var version = "0.1.0"

// runFlags holds the load shape for a benchmark run
type runFlags struct {
	Objects    int    `json:"objects"`
	Goroutines int    `json:"goroutines"`
	SliceEvery int    `json:"slice_every"`
	SliceLen   int    `json:"slice_len"`
	Transient  bool   `json:"transient_pools"`
	LogLevel   string `json:"-"`
}

// report is the JSON document printed after a run
type report struct {
	Flags         runFlags         `json:"flags"`
	AcceptElapsed time.Duration    `json:"accept_elapsed_ns"`
	AcceptsPerSec float64          `json:"accepts_per_sec"`
	ClearElapsed  time.Duration    `json:"clear_elapsed_ns"`
	PoolSize      uint64           `json:"pool_size_before_clear"`
	Stats         objectpool.Stats `json:"stats"`
	Released      int64            `json:"released_payloads"`
	RSSBytes      uint64           `json:"rss_bytes"`
	GoVersion     string           `json:"go_version"`
}

// payload is the object type accepted during runs. Its release hook is a
// counter bump so teardown cost is measured, not fabricated.
type payload struct {
	n    int
	data [64]byte
}

var releasedPayloads int64

func (p *payload) Release() {
	atomic.AddInt64(&releasedPayloads, 1)
}

func main() {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:   "poolbench",
		Short: "poolbench - object pool load harness",
		Long: `poolbench drives the objectpool library with a configurable number of
goroutines and objects, then clears the pool and prints a JSON report with
throughput, teardown latency and process memory.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("poolbench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pool load benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.Config{Level: flags.LogLevel, Encoding: "json"}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runBenchmark(flags)
		},
	}
	runCmd.Flags().IntVar(&flags.Objects, "objects", 1_000_000, "Total objects to accept")
	runCmd.Flags().IntVar(&flags.Goroutines, "goroutines", runtime.NumCPU(), "Concurrent accepting goroutines")
	runCmd.Flags().IntVar(&flags.SliceEvery, "slice-every", 10, "Accept a slice instead of a scalar every N objects (0 disables)")
	runCmd.Flags().IntVar(&flags.SliceLen, "slice-len", 16, "Element count for slice accepts")
	runCmd.Flags().BoolVar(&flags.Transient, "transient", false, "Build per-goroutine transient pools and merge them with AcquireData")
	runCmd.Flags().StringVar(&flags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBenchmark(flags *runFlags) error {
	if flags.Objects <= 0 || flags.Goroutines <= 0 {
		return fmt.Errorf("objects and goroutines must be positive (got %d, %d)",
			flags.Objects, flags.Goroutines)
	}

	pool := objectpool.NewNamed("poolbench")

	ctx := context.WithValue(context.Background(), logger.PoolKey, pool.Name())
	ctx = context.WithValue(ctx, logger.OwnerKey, "poolbench")
	log := logger.WithContext(ctx)

	log.Info("starting pool load run",
		zap.Int("objects", flags.Objects),
		zap.Int("goroutines", flags.Goroutines),
		zap.Bool("transient", flags.Transient))

	perG := flags.Objects / flags.Goroutines
	acceptTimer := metrics.NewTimer("accept_load")

	var wg sync.WaitGroup
	for g := 0; g < flags.Goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()

			target := pool
			if flags.Transient {
				target = objectpool.New()
			}

			for i := 0; i < perG; i++ {
				if flags.SliceEvery > 0 && i%flags.SliceEvery == 0 {
					objectpool.AddSlice(target, make([]payload, flags.SliceLen))
				} else {
					objectpool.Add(target, &payload{n: i})
				}
			}

			if flags.Transient {
				pool.AcquireData(target)
			}
		}(g)
	}
	wg.Wait()
	acceptElapsed := acceptTimer.Stop()

	size := pool.Size()

	clearTimer := metrics.NewTimer("pool_clear")
	pool.Clear()
	clearElapsed := clearTimer.Stop()

	rep := report{
		Flags:         *flags,
		AcceptElapsed: acceptElapsed,
		AcceptsPerSec: float64(size) / acceptElapsed.Seconds(),
		ClearElapsed:  clearElapsed,
		PoolSize:      size,
		Stats:         pool.Stats(),
		Released:      atomic.LoadInt64(&releasedPayloads),
		GoVersion:     runtime.Version(),
	}

	if rss, err := processRSS(); err == nil {
		rep.RSSBytes = rss
	} else {
		log.Warn("could not read process memory", zap.Error(err))
	}

	out, err := gojson.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// processRSS reports the current resident set size of this process.
func processRSS() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return mem.RSS, nil
}
