package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1F47E/geobox/pkg/geobox"
	"github.com/spf13/cobra"
)

type benchPoint struct {
	lat, lon string
}

type benchResult struct {
	Points        int
	Workers       int
	TotalDuration time.Duration
	Identifiers   int64
	Failures      int64
	Violations    int64
}

func (a *app) benchCmd() *cobra.Command {
	var (
		numPoints int
		workers   int
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Generate storage geoboxes for random points across concurrent workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if numPoints <= 0 || workers <= 0 {
				return errors.New("points and workers must be positive")
			}

			a.logger.Info("running benchmark", "points", numPoints, "workers", workers, "seed", seed)
			points := generateRandomPoints(numPoints, workers, seed)
			result := a.runBench(points, workers)
			printBenchResult(cmd.OutOrStdout(), result)

			if result.Violations > 0 {
				return fmt.Errorf("%d points fell outside their own geobox", result.Violations)
			}
			if result.Failures > 0 {
				return fmt.Errorf("%d points could not be parsed", result.Failures)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&numPoints, "points", "p", 100000, "Number of points to generate")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
	return cmd
}

// runBench splits points into contiguous ranges, one per worker. Each worker
// holds its own Geobox values; the config is shared read-only.
func (a *app) runBench(points []benchPoint, workers int) benchResult {
	var (
		identifiers atomic.Int64
		failures    atomic.Int64
		violations  atomic.Int64
		wg          sync.WaitGroup
	)

	perWorker := len(points) / workers
	start := time.Now()

	for w := 0; w < workers; w++ {
		startIdx := w * perWorker
		endIdx := startIdx + perWorker
		if w == workers-1 {
			endIdx = len(points)
		}
		if startIdx >= endIdx {
			continue
		}

		wg.Add(1)
		go func(workerID int, batch []benchPoint) {
			defer wg.Done()

			local := int64(0)
			for _, p := range batch {
				pt, err := geobox.Parse(p.lat, p.lon, &a.cfg)
				if err != nil {
					a.logger.Error("failed to parse point", "worker", workerID, "error", err)
					failures.Add(1)
					continue
				}

				boxes := pt.StorageBoxes()
				if len(boxes) == 0 || !boxes[0].Contains(pt.Location()) {
					violations.Add(1)
				}
				local += int64(len(a.cfg.Identifiers(boxes)))
			}
			identifiers.Add(local)
		}(w, points[startIdx:endIdx])
	}

	wg.Wait()

	return benchResult{
		Points:        len(points),
		Workers:       workers,
		TotalDuration: time.Since(start),
		Identifiers:   identifiers.Load(),
		Failures:      failures.Load(),
		Violations:    violations.Load(),
	}
}

func printBenchResult(out io.Writer, r benchResult) {
	seconds := r.TotalDuration.Seconds()
	if seconds == 0 {
		seconds = 1e-9
	}

	fmt.Fprintln(out, "=== Benchmark Results ===")
	fmt.Fprintf(out, "Points: %d\n", r.Points)
	fmt.Fprintf(out, "Workers: %d\n", r.Workers)
	fmt.Fprintf(out, "Total Duration: %v\n", r.TotalDuration)
	fmt.Fprintf(out, "Points per second: %.0f\n", float64(r.Points)/seconds)
	fmt.Fprintf(out, "Identifiers generated: %d\n", r.Identifiers)
	if r.Points > 0 {
		fmt.Fprintf(out, "Average identifiers per point: %.2f\n", float64(r.Identifiers)/float64(r.Points))
	}
	fmt.Fprintf(out, "Parse failures: %d\n", r.Failures)
	fmt.Fprintf(out, "Containment violations: %d\n", r.Violations)
}

// generateRandomPoints fills the slice in parallel, one generator per worker
func generateRandomPoints(n, workers int, seed int64) []benchPoint {
	points := make([]benchPoint, n)
	perWorker := n / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		startIdx := w * perWorker
		endIdx := startIdx + perWorker
		if w == workers-1 {
			endIdx = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed + int64(start)))

			for i := start; i < end; i++ {
				lat := r.Float64()*180 - 90
				lon := r.Float64()*360 - 180
				points[i] = benchPoint{
					lat: strconv.FormatFloat(lat, 'f', 6, 64),
					lon: strconv.FormatFloat(lon, 'f', 6, 64),
				}
			}
		}(startIdx, endIdx)
	}

	wg.Wait()
	return points
}
