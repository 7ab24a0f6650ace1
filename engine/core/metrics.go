package core

import "sync"

// GenerationPhase identifies one timed stage of a full rebuild.
type GenerationPhase uint8

const (
	PhaseFieldFill GenerationPhase = iota
	PhaseMeshing
	PhaseWelding
	PhaseExport
	phaseCount
)

type MetricsState struct {
	PhaseMS [phaseCount]float64

	CubesVisited     uint64
	TrianglesEmitted uint64
	VerticesWelded   uint64
	Generations      uint32
}

var onceMetrics sync.Once
var metricsMu sync.Mutex
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{}
	})
	return nil
}

// MetricsPhase records the duration of one phase. Durations accumulate
// until MetricsReset, so watch-mode rebuilds report per-run numbers.
func MetricsPhase(phase GenerationPhase, ms float64) {
	MetricsInitialize()
	metricsMu.Lock()
	metricsState.PhaseMS[phase] += ms
	metricsMu.Unlock()
}

func MetricsCount(cubes, triangles, welded uint64) {
	MetricsInitialize()
	metricsMu.Lock()
	metricsState.CubesVisited += cubes
	metricsState.TrianglesEmitted += triangles
	metricsState.VerticesWelded += welded
	metricsMu.Unlock()
}

func MetricsReset() {
	MetricsInitialize()
	metricsMu.Lock()
	g := metricsState.Generations
	*metricsState = MetricsState{Generations: g + 1}
	metricsMu.Unlock()
}

func MetricsSnapshot() MetricsState {
	MetricsInitialize()
	metricsMu.Lock()
	defer metricsMu.Unlock()
	return *metricsState
}
