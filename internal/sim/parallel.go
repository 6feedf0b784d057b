package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job describes one independent run of a sweep. Build must return a
// simulator over a fresh environment: environments are never shared between
// jobs.
type Job struct {
	Name   string
	Build  func() (*Simulator, error)
	Config Config
}

// Sweep runs the jobs concurrently, at most limit at a time (no limit when
// limit <= 0), and returns their results in job order. The first failure
// cancels the jobs that have not finished.
func Sweep(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			s, err := job.Build()
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			res, err := s.Run(ctx, job.Config)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
