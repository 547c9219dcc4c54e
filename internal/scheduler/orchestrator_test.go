package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/backfill"
)

type fakeTracked struct {
	ids []string
	err error
}

func (f fakeTracked) ExternalIDsForSeason(context.Context, string, string) ([]string, error) {
	return f.ids, f.err
}

type fakeQueue struct {
	reqs  []backfill.Request
	limit int
}

func (f *fakeQueue) Enqueue(_ context.Context, req backfill.Request) (*backfill.Job, error) {
	if f.limit > 0 && len(f.reqs) == f.limit {
		return nil, backfill.ErrQueueFull
	}
	f.reqs = append(f.reqs, req)
	return &backfill.Job{JobID: "job"}, nil
}

func TestTriggerRefresh(t *testing.T) {
	q := &fakeQueue{}
	o := NewOrchestrator(fakeTracked{ids: []string{"201939", "bogus", "2544"}}, q, &Config{CurrentSeason: "2024-25", RefreshHour: 3})

	n, err := o.TriggerRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []backfill.Request{
		{PlayerID: 201939, Season: "2024-25"},
		{PlayerID: 2544, Season: "2024-25"},
	}, q.reqs)
	assert.Equal(t, 2, o.GetStatus()["last_queued"])
	assert.Contains(t, o.GetStatus(), "last_run")
}

func TestTriggerRefreshStopsOnFullQueue(t *testing.T) {
	q := &fakeQueue{limit: 1}
	o := NewOrchestrator(fakeTracked{ids: []string{"1", "2", "3"}}, q, nil)

	n, err := o.TriggerRefresh(context.Background())
	require.ErrorIs(t, err, backfill.ErrQueueFull)
	assert.Equal(t, 1, n)
}

func TestTriggerRefreshListError(t *testing.T) {
	o := NewOrchestrator(fakeTracked{err: errors.New("db down")}, &fakeQueue{}, nil)
	_, err := o.TriggerRefresh(context.Background())
	require.ErrorContains(t, err, "db down")
}

func TestNextRun(t *testing.T) {
	o := NewOrchestrator(fakeTracked{}, &fakeQueue{}, &Config{RefreshHour: 3})

	o.now = func() time.Time { return time.Date(2025, 1, 10, 1, 30, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC), o.NextRun())

	o.now = func() time.Time { return time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2025, 1, 11, 3, 0, 0, 0, time.UTC), o.NextRun())
}

func TestStartDisabledReturns(t *testing.T) {
	o := NewOrchestrator(fakeTracked{}, &fakeQueue{}, &Config{EnableRefresh: false})
	done := make(chan struct{})
	go func() {
		o.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return")
	}
}
