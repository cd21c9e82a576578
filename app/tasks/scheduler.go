package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/cfg"
	"github.com/goplai/activity-scout/app/database"
	"github.com/goplai/activity-scout/app/fetch"
	"github.com/goplai/activity-scout/app/pipeline"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache  *catalog.ConfigCache
	localityRepo database.LocalityRepository
	activityRepo database.ActivityRepository
	runner       *pipeline.Runner
	client       *fetch.Client
	guard        *fetch.Guard
	interval     time.Duration
	workerCount  int
	maxSources   int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface
}

func NewScheduler(configCache *catalog.ConfigCache, localityRepo database.LocalityRepository,
	activityRepo database.ActivityRepository, runner *pipeline.Runner,
	client *fetch.Client, guard *fetch.Guard) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		configCache:  configCache,
		localityRepo: localityRepo,
		activityRepo: activityRepo,
		runner:       runner,
		client:       client,
		guard:        guard,
		interval:     time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:  cfg.WorkerCount,
		maxSources:   cfg.MaxSourcesPerRun,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

// Stop cancels the scheduler context and waits for the workers. The queue
// is never closed: retry goroutines may still attempt an enqueue after
// shutdown and must get an error, not a send on a closed channel.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	configs := s.configCache.GetConfigs()
	if len(configs) == 0 {
		slog.Debug("No locality configurations found")
		return
	}

	slog.Debug("Processing locality configurations", "count", len(configs))

	for _, config := range configs {
		syncTask := NewSyncLocalityTask(config.Name, config, s.localityRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncLocalityTask", "locality", config.Name, "error", err)
			continue
		}

		if !config.Settings.Enabled {
			slog.Debug("Locality disabled, skipping CollectLocalityTask", "locality", config.Name)
			continue
		}

		collectTask := NewCollectLocalityTask(config.Name, config, s.runner, s.localityRepo, s.maxSources)
		if err := s.EnqueueTask(collectTask); err != nil {
			slog.Warn("Failed to enqueue CollectLocalityTask", "locality", config.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	configs := s.configCache.GetEnabledConfigs()
	if len(configs) == 0 {
		slog.Debug("No enabled locality configurations found")
		return
	}

	slog.Debug("Checking enabled localities for due collections", "count", len(configs))

	now := time.Now().UTC()
	for _, config := range configs {
		locality, err := s.localityRepo.GetLocality(config.Name)
		if err != nil {
			slog.Warn("Failed to get locality from database, skipping", "locality", config.Name, "error", err)
			continue
		}
		if locality == nil {
			slog.Warn("Locality not found in database, skipping", "locality", config.Name)
			continue
		}

		if locality.NextCollectAt != nil && locality.NextCollectAt.After(now) {
			slog.Debug("Locality not due for collection yet", "locality", config.Name, "next_collect_at", locality.NextCollectAt)
			continue
		}

		collectTask := NewCollectLocalityTask(config.Name, config, s.runner, s.localityRepo, s.maxSources)
		if err := s.EnqueueTask(collectTask); err != nil {
			slog.Warn("Failed to enqueue CollectLocalityTask", "locality", config.Name, "error", err)
		}
	}

	enrichTask := NewEnrichDescriptionsTask(s.client, s.guard, s.activityRepo)
	if err := s.EnqueueTask(enrichTask); err != nil {
		slog.Warn("Failed to enqueue EnrichDescriptionsTask", "error", err)
	}

	purgeTask := NewPurgeExpiredTask(s.activityRepo)
	if err := s.EnqueueTask(purgeTask); err != nil {
		slog.Warn("Failed to enqueue PurgeExpiredTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 10*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "locality", task.GetLocalityName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
