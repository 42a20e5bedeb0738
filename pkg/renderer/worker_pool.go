package renderer

import (
	"image"
	"runtime"
	"sync"
)

// FrameTask asks a worker to render one frame of an animation
type FrameTask struct {
	Index int     // Position of the frame in the sequence
	Angle float64 // Absolute spin of the subjects, in radians
}

// FrameResult contains the result from rendering a frame
type FrameResult struct {
	Index int
	Image *image.RGBA // Owned by the receiver
	Stats RenderStats
	Err   error
}

// FrameRenderer renders the frame for an absolute spin angle. Each worker
// owns its own renderer, so implementations need not be safe for concurrent use.
type FrameRenderer func(angle float64) (*image.RGBA, RenderStats, error)

// WorkerPool renders animation frames in parallel
type WorkerPool struct {
	taskQueue   chan FrameTask
	resultQueue chan FrameResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual frame rendering tasks
type Worker struct {
	ID          int
	render      FrameRenderer
	taskQueue   chan FrameTask
	resultQueue chan FrameResult
}

// NewWorkerPool creates a pool sized for maxTasks frames. newRenderer is
// called once per worker; numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(newRenderer func() (FrameRenderer, error), maxTasks, numWorkers int) (*WorkerPool, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if maxTasks > 0 && numWorkers > maxTasks {
		numWorkers = maxTasks
	}

	wp := &WorkerPool{
		taskQueue:   make(chan FrameTask, maxTasks),
		resultQueue: make(chan FrameResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		render, err := newRenderer()
		if err != nil {
			return nil, err
		}
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			render:      render,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}
	return wp, nil
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue and waits for in-flight frames. Results that
// were not yet read stay available to GetResult.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a frame task to the worker pool
func (wp *WorkerPool) SubmitTask(task FrameTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed frame, in completion order
func (wp *WorkerPool) GetResult() (FrameResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		img, stats, err := w.render(task.Angle)
		w.resultQueue <- FrameResult{
			Index: task.Index,
			Image: img,
			Stats: stats,
			Err:   err,
		}
	}
}
