package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

type fakeSweeper struct {
	cutoff time.Time
	swept  int
	err    error
}

func (f *fakeSweeper) SweepStale(_ context.Context, cutoff time.Time) (int, error) {
	f.cutoff = cutoff
	return f.swept, f.err
}

func newStaleIngestJob(t *testing.T, sweeper *fakeSweeper, after time.Duration) *staleIngestJob {
	t.Helper()
	job, err := NewStaleIngestJob(StaleIngestJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Sweeper:    sweeper,
		StaleAfter: after,
	})
	require.NoError(t, err)
	return job.(*staleIngestJob)
}

func TestStaleIngestJobComputesCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sweeper := &fakeSweeper{swept: 2}
	job := newStaleIngestJob(t, sweeper, 45*time.Minute)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, now.Add(-45*time.Minute), sweeper.cutoff)
}

func TestStaleIngestJobDefaultsWindow(t *testing.T) {
	job := newStaleIngestJob(t, &fakeSweeper{}, 0)
	assert.Equal(t, defaultStaleIngestAfter, job.staleAfter)
}

func TestStaleIngestJobPropagatesError(t *testing.T) {
	job := newStaleIngestJob(t, &fakeSweeper{swept: 1, err: errors.New("row locked")}, time.Minute)
	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row locked")
}

func TestNewStaleIngestJobRequiresSweeper(t *testing.T) {
	_, err := NewStaleIngestJob(StaleIngestJobParams{Logger: logger.New(logger.Options{Output: io.Discard})})
	assert.Error(t, err)
}
