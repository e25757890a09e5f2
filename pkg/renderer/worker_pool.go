package renderer

import (
	"runtime"
	"sync"
	"time"
)

// Task is one unit of parallel work: a photon batch or a tile
type Task struct {
	ID  int // Index of the task within its phase, for deterministic ordering
	Run func() error
}

// TaskResult contains the result from running a task
type TaskResult struct {
	TaskID   int
	Duration time.Duration
	Error    error
}

// WorkerPool runs the tasks of each render phase in parallel
type WorkerPool struct {
	taskQueue   chan Task
	resultQueue chan TaskResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// Worker handles individual tasks
type Worker struct {
	ID          int
	taskQueue   chan Task
	resultQueue chan TaskResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// queueSize is the largest number of tasks submitted in one phase.
func NewWorkerPool(numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	queueSize = max(queueSize, numWorkers)

	wp := &WorkerPool{
		taskQueue:   make(chan Task, queueSize),
		resultQueue: make(chan TaskResult, queueSize),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers; calling it again has no effect
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for _, worker := range wp.workers {
			wp.wg.Add(1)
			go worker.run(&wp.wg)
		}
	})
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// SubmitTask submits a task to the worker pool
func (wp *WorkerPool) SubmitTask(task Task) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed task result
func (wp *WorkerPool) GetResult() (TaskResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RunAll runs every task and waits for all of them. It returns the results indexed by
// task position and the first error reported, if any.
func (wp *WorkerPool) RunAll(tasks []Task) ([]TaskResult, error) {
	wp.Start()

	go func() {
		for i, task := range tasks {
			task.ID = i
			wp.SubmitTask(task)
		}
	}()

	results := make([]TaskResult, len(tasks))
	var firstErr error
	for range tasks {
		result, ok := wp.GetResult()
		if !ok {
			return results, ErrPoolClosed
		}
		results[result.TaskID] = result
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
	}

	return results, firstErr
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		start := time.Now()
		err := task.Run()

		w.resultQueue <- TaskResult{
			TaskID:   task.ID,
			Duration: time.Since(start),
			Error:    err,
		}
	}
}
