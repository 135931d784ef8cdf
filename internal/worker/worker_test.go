package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fakeSheets struct {
	calls  int
	sheets []string
	err    error
}

func (f *fakeSheets) ReplaceSheet(ctx context.Context, sheetTitle string, header []string, rows [][]interface{}) error {
	f.calls++
	f.sheets = append(f.sheets, sheetTitle)
	return f.err
}

func newTestWorker(t *testing.T, sheets *fakeSheets, rdb *redis.Client, retry RetryPolicy) *SheetsWorker {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewSheetsWorker(sheets, rdb, retry, &logger)
}

func TestProcessTaskSuccess(t *testing.T) {
	sheets := &fakeSheets{}
	w := newTestWorker(t, sheets, nil, RetryPolicy{})

	ctx := context.Background()
	if err := w.EnqueueSnapshot(ctx, "ParkingSpots", []string{"ID"}, [][]interface{}{{"a"}, {"b"}}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	task, ok := w.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	w.processTask(ctx, task)

	if sheets.calls != 1 {
		t.Fatalf("expected one replace call, got %d", sheets.calls)
	}
	if sheets.sheets[0] != "ParkingSpots" {
		t.Fatalf("unexpected sheet: %s", sheets.sheets[0])
	}
}

func TestProcessTaskRetriesThenDeadLetters(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sheets := &fakeSheets{err: errors.New("boom")}
	w := newTestWorker(t, sheets, rdb, RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})

	ctx := context.Background()
	w.processTask(ctx, SnapshotTask{Sheet: "ServiceRequests", Header: []string{"ID"}})

	if sheets.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", sheets.calls)
	}
	if n, err := rdb.LLen(ctx, w.deadLetterKey).Result(); err != nil || n != 1 {
		t.Fatalf("expected 1 deadletter entry, got %d (err=%v)", n, err)
	}
}

func TestEnqueuePrefersRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	w := newTestWorker(t, &fakeSheets{}, rdb, RetryPolicy{})

	ctx := context.Background()
	w.EnqueueSnapshot(ctx, "ParkingSpots", []string{"ID"}, nil)

	if n, err := rdb.LLen(ctx, w.redisQueueKey).Result(); err != nil || n != 1 {
		t.Fatalf("expected 1 queued task in redis, got %d (err=%v)", n, err)
	}
	if _, ok := w.tryLocalQueue(); ok {
		t.Fatalf("local queue should be empty when redis accepts the task")
	}

	task, ok := w.tryRedis(ctx)
	if !ok {
		t.Fatalf("expected task from redis")
	}
	if task.Sheet != "ParkingSpots" {
		t.Fatalf("unexpected sheet: %s", task.Sheet)
	}
}

func TestEnqueueFallsBackToMemoryQueue(t *testing.T) {
	w := newTestWorker(t, &fakeSheets{}, nil, RetryPolicy{})

	if err := w.EnqueueSnapshot(context.Background(), "ParkingSpots", []string{"ID"}, nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if _, ok := w.tryLocalQueue(); !ok {
		t.Fatalf("expected task in local queue without redis")
	}
}

func TestEnqueueReportsDropOnFullQueue(t *testing.T) {
	w := newTestWorker(t, &fakeSheets{}, nil, RetryPolicy{})

	ctx := context.Background()
	for i := 0; i < cap(w.queue); i++ {
		if err := w.EnqueueSnapshot(ctx, "ParkingSpots", []string{"ID"}, nil); err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}
	if err := w.EnqueueSnapshot(ctx, "ParkingSpots", []string{"ID"}, nil); err == nil {
		t.Fatalf("expected an error when the queue is full")
	}
}

func TestRetryPolicyNextDelay(t *testing.T) {
	p := RetryPolicy{MaxRetries: 5, InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second},
		{0, time.Second},
	}
	for _, tc := range cases {
		if got := p.NextDelay(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %v, got %v", tc.attempt, tc.want, got)
		}
	}
}
