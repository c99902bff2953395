package hashcli

import (
	"context"
	"fmt"
	"time"

	"github.com/bsv-blockchain/sha256d/crypto/sha256d"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/bsv-blockchain/sha256d/util"
	"github.com/bsv-blockchain/sha256d/util/bytesize"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const benchNamespace = "sha256d"

type benchMetrics struct {
	registry *prometheus.Registry
	duration prometheus.Histogram
	bytes    prometheus.Counter
}

// newBenchMetrics picks microsecond buckets for inputs that hash well below a millisecond.
func newBenchMetrics(size int) *benchMetrics {
	buckets := util.MetricsBucketsMilliSeconds
	if size <= 64*int(bytesize.KB) {
		buckets = util.MetricsBucketsMicroSeconds
	}

	m := &benchMetrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: benchNamespace,
				Subsystem: "bench",
				Name:      "sum_duration_seconds",
				Help:      "Duration of a single sha256d call",
				Buckets:   buckets,
			},
		),
		bytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: benchNamespace,
				Subsystem: "bench",
				Name:      "hashed_bytes_total",
				Help:      "Number of bytes hashed",
			},
		),
	}

	m.registry.MustRegister(m.duration, m.bytes)

	return m
}

type benchResult struct {
	Iterations uint64
	Bytes      float64
	Seconds    float64
}

// Throughput returns bytes per second over the time spent inside sha256d.
func (b benchResult) Throughput() float64 {
	if b.Seconds == 0 {
		return 0
	}

	return b.Bytes / b.Seconds
}

// result reads the totals back from the registry.
func (m *benchMetrics) result() (benchResult, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return benchResult{}, errors.NewProcessingError("error gathering bench metrics", err)
	}

	var res benchResult

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch family.GetType() {
			case dto.MetricType_HISTOGRAM:
				res.Iterations = metric.GetHistogram().GetSampleCount()
				res.Seconds = metric.GetHistogram().GetSampleSum()
			case dto.MetricType_COUNTER:
				res.Bytes = metric.GetCounter().GetValue()
			}
		}
	}

	return res, nil
}

func (r *runner) benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "measure sha256d throughput",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "size", Usage: "input size, e.g. 80B or 4MB", Value: r.settings.Bench.Size.String()},
			&cli.IntFlag{Name: "iterations", Aliases: []string{"n"}, Usage: "number of hashes per worker", Value: r.settings.Bench.Iterations},
			&cli.IntFlag{Name: "workers", Usage: "number of goroutines hashing the same input", Value: r.settings.Bench.Workers},
		},
		Action: r.bench,
	}
}

func (r *runner) bench(cCtx *cli.Context) error {
	size, err := bytesize.Parse(cCtx.String("size"))
	if err != nil {
		return err
	}

	if err = r.checkSize(size.Int()); err != nil {
		return err
	}

	iterations := cCtx.Int("iterations")
	if iterations <= 0 {
		return errors.NewInvalidArgumentError("iterations must be positive, got %d", iterations)
	}

	workers := cCtx.Int("workers")
	if workers <= 0 {
		return errors.NewInvalidArgumentError("workers must be positive, got %d", workers)
	}

	r.logger.Infof("[bench] hashing %s %d times on %d workers", size, iterations, workers)

	start := time.Now()

	res, err := runBench(cCtx.Context, size.Int(), iterations, workers)
	if err != nil {
		return err
	}

	wall := time.Since(start)

	_, err = fmt.Fprintf(stdout(cCtx), "%d x %s workers=%d in %s: %.2f MB/s, wall %.2f MB/s\n",
		res.Iterations,
		size,
		workers,
		time.Duration(res.Seconds*float64(time.Second)).Round(time.Microsecond),
		res.Throughput()/float64(bytesize.MB),
		res.Bytes/wall.Seconds()/float64(bytesize.MB),
	)

	return err
}

// runBench hashes one shared input iterations times on each worker. The input is only read, so the
// workers share it without copying.
func runBench(ctx context.Context, size, iterations, workers int) (benchResult, error) {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}

	m := newBenchMetrics(size)

	g, gCtx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				if err := gCtx.Err(); err != nil {
					return err
				}

				start := time.Now()
				_ = sha256d.Sum(data)

				m.duration.Observe(time.Since(start).Seconds())
				m.bytes.Add(float64(size))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return benchResult{}, errors.NewProcessingError("bench interrupted", err)
	}

	return m.result()
}
