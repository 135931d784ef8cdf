package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"helpme/internal/domain"
	"helpme/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SnapshotTask is one queued spreadsheet rewrite. Snapshots are full
// replacements, so redelivery and reordering are harmless; the newest write
// for a sheet always lands last or gets overwritten by a later task.
type SnapshotTask struct {
	Sheet      string          `json:"sheet"`
	Header     []string        `json:"header"`
	Rows       [][]interface{} `json:"rows"`
	RetryCount int             `json:"retry_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SheetsWorker ships listing snapshots to the spreadsheet mirror off the
// request path. Tasks go through redis when available so a restart does not
// lose queued work; the in-memory channel is the fallback.
type SheetsWorker struct {
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan SnapshotTask
	redisQueueKey string
	deadLetterKey string
	idleInterval  time.Duration
	logger        *zerolog.Logger
}

func NewSheetsWorker(sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SheetsWorker{
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan SnapshotTask, models.WorkerQueueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		idleInterval:  2 * time.Second,
		logger:        logger,
	}
}

var _ domain.SyncWorker = (*SheetsWorker)(nil)

// EnqueueSnapshot schedules a sheet rewrite. It never blocks the caller: a
// full in-memory queue drops the snapshot, since the next mutation enqueues
// a fresh one anyway. A drop is reported but safe to ignore.
func (w *SheetsWorker) EnqueueSnapshot(ctx context.Context, sheet string, header []string, rows [][]interface{}) error {
	task := SnapshotTask{
		Sheet:     sheet,
		Header:    header,
		Rows:      rows,
		CreatedAt: time.Now(),
	}

	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Str("sheet", sheet).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		w.logger.Warn().Str("sheet", sheet).Msg("snapshot queue full, dropping snapshot")
		return errors.New("snapshot queue full")
	}
}

// Start runs the main loop until ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	defer w.logger.Info().Msg("sheets worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case t := <-w.queue:
			w.processTask(ctx, t)
		case <-time.After(w.idleInterval):
		}
	}
}

func (w *SheetsWorker) tryLocalQueue() (SnapshotTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return SnapshotTask{}, false
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (SnapshotTask, bool) {
	if w.redis == nil {
		return SnapshotTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, redis.Nil) {
			return SnapshotTask{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return SnapshotTask{}, false
	}
	if len(res) != 2 {
		return SnapshotTask{}, false
	}
	var task SnapshotTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis task")
		return SnapshotTask{}, false
	}
	return task, true
}

// processTask replaces one sheet, retrying with backoff. Exhausted tasks go
// to the dead letter list for operator inspection.
func (w *SheetsWorker) processTask(ctx context.Context, task SnapshotTask) {
	attempt := task.RetryCount
	for {
		err := w.sheets.ReplaceSheet(ctx, task.Sheet, task.Header, task.Rows)
		if err == nil {
			w.logger.Debug().Str("sheet", task.Sheet).Int("rows", len(task.Rows)).Msg("sheet mirrored")
			return
		}

		attempt++
		if attempt >= w.retryPolicy.MaxRetries {
			w.logger.Error().Err(err).Str("sheet", task.Sheet).Int("attempts", attempt).Msg("snapshot delivery failed")
			task.RetryCount = attempt
			w.pushDeadLetter(ctx, task)
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().Err(err).Str("sheet", task.Sheet).Dur("retry_in", delay).Msg("snapshot delivery retry")
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (w *SheetsWorker) pushRedis(ctx context.Context, task SnapshotTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task SnapshotTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Str("sheet", task.Sheet).Msg("encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Str("sheet", task.Sheet).Msg("deadletter push failed")
	}
}
