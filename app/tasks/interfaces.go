package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The main application starts the scheduler once; the API
// server enqueues ad-hoc collection tasks through it.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
