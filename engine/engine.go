package engine

import (
	"fmt"

	"github.com/spaghettifunk/cubemarch/engine/config"
	"github.com/spaghettifunk/cubemarch/engine/core"
	"github.com/spaghettifunk/cubemarch/engine/export"
	"github.com/spaghettifunk/cubemarch/engine/volume"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Engine owns one grid and regenerates it: once in one-shot mode, or on
// every config change in watch mode.
type Engine struct {
	currentStage Stage
	configPath   string
	watchMode    bool

	cfg     *config.GenerationConfig
	grid    *volume.ChunkGrid
	watcher *config.Watcher

	regenCh chan struct{}
	quitCh  chan struct{}
}

func New(configPath string, watchMode bool) (*Engine, error) {
	return &Engine{
		currentStage: EngineStageUninitialized,
		configPath:   configPath,
		watchMode:    watchMode,
		regenCh:      make(chan struct{}, 1),
		quitCh:       make(chan struct{}),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if !core.EventInitialize() {
		return fmt.Errorf("event system failed to initialize")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	if err := e.loadConfig(); err != nil {
		return err
	}

	if e.watchMode {
		watcher, err := config.NewWatcher(e.configPath)
		if err != nil {
			return fmt.Errorf("creating config watcher: %w", err)
		}
		e.watcher = watcher
		core.EventRegister(core.EVENT_CODE_CONFIG_CHANGED, e, e.onConfigChanged)
		if err := e.watcher.Start(); err != nil {
			return fmt.Errorf("starting config watcher: %w", err)
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) loadConfig() error {
	var cfg *config.GenerationConfig
	var err error
	if e.configPath != "" {
		cfg, err = config.Load(e.configPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	grid, err := volume.NewChunkGrid(cfg.GridParams(), cfg.BuildSampler())
	if err != nil {
		return err
	}

	// A previous grid exists when a config edit triggered a reload.
	if e.grid != nil {
		e.grid.Release()
	}
	e.cfg = cfg
	e.grid = grid
	return nil
}

func (e *Engine) onConfigChanged(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogInfo("config changed: %s", data.Data.C[0])
	select {
	case e.regenCh <- struct{}{}:
	default:
		// A regeneration is already pending; coalesce.
	}
	return false
}

// Run generates once, then in watch mode keeps regenerating on config
// changes until Shutdown.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning

	if err := e.generate(); err != nil {
		return err
	}
	if !e.watchMode {
		return nil
	}

	core.LogInfo("watching %s for changes", e.configPath)
	for {
		select {
		case <-e.quitCh:
			return nil
		case <-e.regenCh:
			// Reload so parameter edits take effect, then rebuild in full.
			if err := e.loadConfig(); err != nil {
				core.LogError("config reload failed, keeping previous parameters: %s", err.Error())
				continue
			}
			if err := e.generate(); err != nil {
				core.LogError("regeneration failed: %s", err.Error())
			}
		}
	}
}

func (e *Engine) generate() error {
	core.MetricsReset()
	clock := core.NewClock()

	if err := e.grid.Generate(); err != nil {
		return err
	}

	clock.Start()
	if path := e.cfg.Output.OBJPath; path != "" {
		if err := export.WriteOBJFile(path, e.grid); err != nil {
			return err
		}
		core.LogInfo("wrote %s", path)
	}
	if dir := e.cfg.Output.PreviewDir; dir != "" {
		f := e.grid.Field()
		layers := []int{f.SizeY / 4, f.SizeY / 2, (3 * f.SizeY) / 4}
		if err := export.WriteSlicePreviews(dir, f, e.cfg.IsoLevel, layers, e.cfg.Output.PreviewSize); err != nil {
			return err
		}
		core.LogInfo("wrote previews to %s", dir)
	}
	clock.Update()
	core.MetricsPhase(core.PhaseExport, clock.ElapsedMS())

	m := core.MetricsSnapshot()
	core.LogDebug("phases ms: fill=%.1f mesh=%.1f weld=%.1f export=%.1f cubes=%d tris=%d welded=%d",
		m.PhaseMS[core.PhaseFieldFill], m.PhaseMS[core.PhaseMeshing], m.PhaseMS[core.PhaseWelding],
		m.PhaseMS[core.PhaseExport], m.CubesVisited, m.TrianglesEmitted, m.VerticesWelded)
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	close(e.quitCh)
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogError(err.Error())
		}
		core.EventUnregister(core.EVENT_CODE_CONFIG_CHANGED, e)
	}
	if e.grid != nil {
		e.grid.Release()
	}
	return core.EventShutdown()
}
