package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/config"
	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeScan = "scan:workspace"

	// scans for the same root enqueued within this window collapse into one
	scanUniqueWindow = time.Minute
)

// ScanTask asks for a discovery scan of a studio root
type ScanTask struct {
	Root   string `json:"root"`   // empty means settings.root_path
	Reason string `json:"reason"` // cron, watch, manual
}

// ScanProcessor runs one scan task
type ScanProcessor func(context.Context, *ScanTask) error

// TaskQueue defines the interface for background scan processing
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *ScanTask) error
	// IsAsync returns true if queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalTaskQueue TaskQueue
	taskQueueOnce   sync.Once
)

// InitTaskQueue initializes the global task queue based on config
func InitTaskQueue(cfg *config.Config, processor ScanProcessor) TaskQueue {
	taskQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err == nil {
				logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalTaskQueue = queue
				return
			}
			logger.Warnf("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
		} else {
			logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
		}
		q := NewSyncQueue()
		q.SetProcessor(processor)
		globalTaskQueue = q
	})
	return globalTaskQueue
}

// GetTaskQueue returns the global task queue instance
func GetTaskQueue() TaskQueue {
	return globalTaskQueue
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := redisClientOpt(cfg)

	client := asynq.NewClient(redisOpt)

	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func redisClientOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Enqueue adds a scan task to the async queue
func (q *AsyncQueue) Enqueue(task *ScanTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeScan, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Unique(scanUniqueWindow),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Debug().Str("root", task.Root).Msg("[AsyncQueue] scan already queued")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Task enqueued: id=%s, queue=%s", info.ID, info.Queue)
	return nil
}

// IsAsync returns true for async queue
func (q *AsyncQueue) IsAsync() bool {
	return true
}

// Close closes the async queue client
func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements TaskQueue in-process (no Redis)
type SyncQueue struct {
	processor ScanProcessor
	wg        sync.WaitGroup
}

// NewSyncQueue creates a new synchronous queue
func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function to process tasks
func (q *SyncQueue) SetProcessor(processor ScanProcessor) {
	q.processor = processor
}

// Enqueue runs the task in its own goroutine so callers never block
func (q *SyncQueue) Enqueue(task *ScanTask) error {
	if q.processor == nil {
		logger.Warnf("[SyncQueue] Warning: no processor set, task will be dropped")
		return nil
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := q.processor(context.Background(), task); err != nil {
			logger.Warnf("[SyncQueue] Task processing failed: %v", err)
		}
	}()

	return nil
}

// IsAsync returns false for sync queue
func (q *SyncQueue) IsAsync() bool {
	return false
}

// Close waits for running tasks to finish
func (q *SyncQueue) Close() error {
	q.wg.Wait()
	return nil
}
