package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

const defaultStaleIngestAfter = 30 * time.Minute

type staleIngestSweeper interface {
	SweepStale(ctx context.Context, cutoff time.Time) (int, error)
}

type StaleIngestJobParams struct {
	Logger     *logger.Logger
	Sweeper    staleIngestSweeper
	StaleAfter time.Duration
}

// NewStaleIngestJob fails ingests that never reached an order within StaleAfter.
func NewStaleIngestJob(params StaleIngestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("ingest sweeper required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleIngestAfter
	}
	return &staleIngestJob{
		logg:       params.Logger,
		sweeper:    params.Sweeper,
		staleAfter: staleAfter,
		now:        time.Now,
	}, nil
}

type staleIngestJob struct {
	logg       *logger.Logger
	sweeper    staleIngestSweeper
	staleAfter time.Duration
	now        func() time.Time
}

func (j *staleIngestJob) Name() string { return "stale-ingest-sweep" }

func (j *staleIngestJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	swept, err := j.sweeper.SweepStale(ctx, cutoff)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":      cutoff,
		"stale_after": j.staleAfter.String(),
		"swept":       swept,
	})
	if err != nil {
		return fmt.Errorf("stale ingest sweep: %w", err)
	}
	if swept > 0 {
		j.logg.Warn(logCtx, "stale ingests marked failed")
		return nil
	}
	j.logg.Debug(logCtx, "no stale ingests")
	return nil
}
