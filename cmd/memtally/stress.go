package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dennisklein/memtally/internal/alloc"
	"github.com/dennisklein/memtally/internal/bytesize"
	"github.com/dennisklein/memtally/internal/logger"
	"github.com/dennisklein/memtally/internal/progress"
)

//nolint:govet // fieldalignment: readability preferred over optimization
type stressOptions struct {
	workers    int
	iterations int
	size       int
	hold       int
	budget     uint64
	progress   bool
}

// stressResult summarizes a run.
type stressResult struct {
	ops  int64
	peak uint64
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Allocate and release buffers concurrently through the tracking allocator",
		Long:  `Run workers that repeatedly allocate and release buffers through the process-wide tracking allocator, logging the live byte count before and after. Every worker releases what it allocated, so the count returns to its starting value.`,
		Args:  cobra.NoArgs,
		RunE:  runStress,
	}

	cmd.Flags().IntP("workers", "n", 4, "Number of concurrent workers")
	cmd.Flags().IntP("iterations", "i", 1000, "Allocate/release rounds per worker")
	cmd.Flags().IntP("size", "s", 4096, "Bytes per allocation")
	cmd.Flags().Int("hold", 1, "Buffers each worker holds before releasing them")
	cmd.Flags().Uint64("budget", 0, "Refuse allocations beyond this many live bytes (0 = unlimited)")
	cmd.Flags().Bool("progress", true, "Draw a progress bar on stderr")

	return cmd
}

func stressOptionsFromFlags(cmd *cobra.Command) (stressOptions, error) {
	var (
		opts stressOptions
		err  error
	)

	flags := cmd.Flags()

	if opts.workers, err = flags.GetInt("workers"); err != nil {
		return opts, fmt.Errorf("failed to get --workers flag: %w", err)
	}

	if opts.iterations, err = flags.GetInt("iterations"); err != nil {
		return opts, fmt.Errorf("failed to get --iterations flag: %w", err)
	}

	if opts.size, err = flags.GetInt("size"); err != nil {
		return opts, fmt.Errorf("failed to get --size flag: %w", err)
	}

	if opts.hold, err = flags.GetInt("hold"); err != nil {
		return opts, fmt.Errorf("failed to get --hold flag: %w", err)
	}

	if opts.budget, err = flags.GetUint64("budget"); err != nil {
		return opts, fmt.Errorf("failed to get --budget flag: %w", err)
	}

	if opts.progress, err = flags.GetBool("progress"); err != nil {
		return opts, fmt.Errorf("failed to get --progress flag: %w", err)
	}

	switch {
	case opts.workers < 1:
		return opts, fmt.Errorf("invalid --workers %d: must be at least 1", opts.workers)
	case opts.iterations < 0:
		return opts, fmt.Errorf("invalid --iterations %d: must not be negative", opts.iterations)
	case opts.size < 0:
		return opts, fmt.Errorf("invalid --size %d: must not be negative", opts.size)
	case opts.hold < 1:
		return opts, fmt.Errorf("invalid --hold %d: must be at least 1", opts.hold)
	}

	return opts, nil
}

func runStress(cmd *cobra.Command, _ []string) error {
	opts, err := stressOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	if _, err := setup(cmd); err != nil {
		return err
	}

	log := logger.WithTarget(logrus.StandardLogger(), "stress")

	var a alloc.Allocator = alloc.Global
	if opts.budget > 0 {
		a = alloc.NewLimited(alloc.Global, opts.budget)
	}

	var bar *progress.Bar
	if opts.progress {
		bar = progress.New(int64(opts.workers)*int64(opts.iterations), cmd.ErrOrStderr())
		bar.Info = func() string { return "MEM: " + alloc.Bytes().String() }
	}

	before := alloc.Load()

	log.WithFields(logrus.Fields{
		"workers":    opts.workers,
		"iterations": opts.iterations,
		"size":       bytesize.FromBytesDecimal(uint64(opts.size)).String(),
	}).Info("starting")

	res, err := stress(cmd.Context(), a, opts, bar)

	if bar != nil {
		bar.Finish()
	}

	entry := log.WithFields(logrus.Fields{
		"ops":  res.ops,
		"peak": bytesize.FromBytesDecimal(res.peak).String(),
	})

	if err != nil {
		entry.WithError(err).Error("stress run failed")
		return fmt.Errorf("stress run failed: %w", err)
	}

	after := alloc.Load()
	entry.Infof("finished, live bytes %d -> %d", before, after)

	if after != before {
		log.Warnf("live byte count drifted by %d", int64(after)-int64(before))
	}

	return nil
}

// stress runs opts.workers goroutines that each allocate opts.hold buffers
// and release them again, opts.iterations times. A worker releases
// everything it holds before returning, even on error.
func stress(ctx context.Context, a alloc.Allocator, opts stressOptions, bar *progress.Bar) (stressResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		ops  atomic.Int64
		peak atomic.Uint64
	)

	observe := func() {
		live := alloc.Load()
		for {
			p := peak.Load()
			if live <= p || peak.CompareAndSwap(p, live) {
				return
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	for range opts.workers {
		g.Go(func() error {
			held := make([][]byte, 0, opts.hold)

			defer func() {
				for _, b := range held {
					a.Free(b)
				}
			}()

			for range opts.iterations {
				if err := ctx.Err(); err != nil {
					return err
				}

				for range opts.hold {
					b, err := a.Alloc(opts.size)
					if err != nil {
						return err
					}

					if len(b) > 0 {
						b[0] = 1
					}

					held = append(held, b)
				}

				observe()

				for _, b := range held {
					a.Free(b)
				}

				held = held[:0]

				ops.Add(1)

				if bar != nil {
					bar.Add(1)
				}
			}

			return nil
		})
	}

	err := g.Wait()

	return stressResult{ops: ops.Load(), peak: peak.Load()}, err
}
