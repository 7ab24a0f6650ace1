package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/cubemarch/engine/core"
)

// JobTask is one unit of generation work, typically a single chunk's
// mesh-and-weld pass.
type JobTask struct {
	Name       string
	OnStart    func() error
	OnComplete func()
	OnFailure  func(error)
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan batchedTask
	wg         sync.WaitGroup
}

type batchedTask struct {
	task  JobTask
	batch *sync.WaitGroup
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan batchedTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				// Run the job and handle potential errors
				err := job.task.OnStart()
				if err != nil {
					core.LogError("job %s failed: %s", job.task.Name, err.Error())
					if job.task.OnFailure != nil {
						job.task.OnFailure(err)
					}
				} else {
					if job.task.OnComplete != nil {
						job.task.OnComplete()
					}
				}
				if job.batch != nil {
					job.batch.Done()
				}
			}
		}()
	}
}

/**
 * @brief Shuts the job system down.
 */
func (js *JobSystem) Shutdown() error {
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution.
 */
func (js *JobSystem) Submit(jt JobTask) {
	js.jobQueue <- batchedTask{task: jt}
}

// RunBatch submits all tasks and blocks until every one has finished.
// Generation uses this as the barrier between per-chunk meshing and the
// aggregation that follows.
func (js *JobSystem) RunBatch(tasks []JobTask) {
	var batch sync.WaitGroup
	batch.Add(len(tasks))
	for _, jt := range tasks {
		js.jobQueue <- batchedTask{task: jt, batch: &batch}
	}
	batch.Wait()
}
