package sampler

import (
	"time"

	"github.com/df07/go-quadric-raycast/pkg/core"
	"github.com/df07/go-quadric-raycast/pkg/quadric"
)

const (
	defaultMaxDistance = 100.0
	defaultChunkSize   = 256
)

// Config controls a Caster. Zero values select defaults.
type Config struct {
	MaxDistance float64 // keep roots with |t| < MaxDistance (default 100, also for NaN)
	NumWorkers  int     // worker goroutines (default runtime.NumCPU())
	ChunkSize   int     // directions per task (default 256)
}

// Caster casts bundles of rays against one surface
type Caster struct {
	surface quadric.Surface
	config  Config
}

// NewCaster creates a caster for surface, filling in config defaults
func NewCaster(surface quadric.Surface, config Config) *Caster {
	if !(config.MaxDistance > 0) {
		config.MaxDistance = defaultMaxDistance
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = defaultChunkSize
	}
	return &Caster{surface: surface, config: config}
}

// Config returns the effective configuration
func (c *Caster) Config() Config {
	return c.config
}

// Cast intersects origin + t·dir for every direction and returns the points
// for finite roots with |t| < MaxDistance. Points keep the order of dirs, and
// within a direction the order of the surface's roots, regardless of the
// number of workers.
func (c *Caster) Cast(origin core.Vec3, dirs []core.Vec3) ([]core.Vec3, CastStats) {
	startTime := time.Now()
	logger := core.Logger()

	numTasks := (len(dirs) + c.config.ChunkSize - 1) / c.config.ChunkSize
	if numTasks == 0 {
		return nil, CastStats{}
	}

	pool := newWorkerPool(c.surface, origin, dirs, c.config.MaxDistance, c.config.NumWorkers, numTasks)
	logger.Debug("starting cast",
		"rays", len(dirs), "tasks", numTasks, "workers", pool.numWorkers, "chunk", c.config.ChunkSize)

	pool.Start()
	for i := 0; i < numTasks; i++ {
		start := i * c.config.ChunkSize
		pool.SubmitTask(castTask{
			TaskID: i,
			Start:  start,
			End:    min(start+c.config.ChunkSize, len(dirs)),
		})
	}

	chunks := make([][]core.Vec3, numTasks)
	var stats CastStats
	for i := 0; i < numTasks; i++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		chunks[result.TaskID] = result.Points
		stats.add(result.Stats)
	}
	pool.Stop()

	points := make([]core.Vec3, 0, stats.Kept)
	for _, chunk := range chunks {
		points = append(points, chunk...)
	}

	if stats.NonFinite > 0 {
		logger.Warn("discarded non-finite roots", "count", stats.NonFinite)
	}
	logger.Info("cast finished",
		"rays", stats.Rays, "points", stats.Kept, "misses", stats.Misses,
		"too_far", stats.TooFar, "elapsed", time.Since(startTime))

	return points, stats
}
