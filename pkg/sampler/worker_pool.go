package sampler

import (
	"math"
	"runtime"
	"sync"

	"github.com/df07/go-quadric-raycast/pkg/core"
	"github.com/df07/go-quadric-raycast/pkg/quadric"
)

// castTask is a contiguous range of directions
type castTask struct {
	TaskID int
	Start  int
	End    int
}

// castResult holds the points found for one task, in direction order
type castResult struct {
	TaskID int
	Points []core.Vec3
	Stats  CastStats
}

// workerPool casts direction ranges against one surface in parallel
type workerPool struct {
	taskQueue   chan castTask
	resultQueue chan castResult
	numWorkers  int
	wg          sync.WaitGroup

	surface     quadric.Surface
	origin      core.Vec3
	dirs        []core.Vec3
	maxDistance float64
}

func newWorkerPool(surface quadric.Surface, origin core.Vec3, dirs []core.Vec3, maxDistance float64, numWorkers, numTasks int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &workerPool{
		taskQueue:   make(chan castTask, numTasks),
		resultQueue: make(chan castResult, numTasks),
		numWorkers:  numWorkers,
		surface:     surface,
		origin:      origin,
		dirs:        dirs,
		maxDistance: maxDistance,
	}
}

// Start begins all workers
func (wp *workerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop closes the task queue, waits for workers and closes the results
func (wp *workerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a direction range
func (wp *workerPool) SubmitTask(task castTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed task
func (wp *workerPool) GetResult() (castResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

func (wp *workerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.resultQueue <- wp.cast(task)
	}
}

// cast intersects every direction in the task range. The surface is
// immutable, so workers share it without locking.
func (wp *workerPool) cast(task castTask) castResult {
	result := castResult{TaskID: task.TaskID}
	for _, dir := range wp.dirs[task.Start:task.End] {
		result.Stats.Rays++
		roots := wp.surface.Intersect(wp.origin, dir)
		if len(roots) == 0 {
			result.Stats.Misses++
			continue
		}

		ray := core.NewRay(wp.origin, dir)
		for _, t := range roots {
			result.Stats.Roots++
			switch {
			case !core.IsFinite(t):
				result.Stats.NonFinite++
			case math.Abs(t) >= wp.maxDistance:
				result.Stats.TooFar++
			default:
				result.Stats.Kept++
				result.Points = append(result.Points, ray.At(t))
			}
		}
	}
	return result
}
