package workers

import (
	"github.com/openregistro/person-data-service/internal/importjob/model"
	"github.com/openregistro/person-data-service/internal/system/config"
	"github.com/openregistro/person-data-service/internal/system/constants"
	"github.com/openregistro/person-data-service/internal/system/log"
)

var importQueue chan model.ImportTask

// ImportTaskHandler processes one queued import job end to end.
type ImportTaskHandler func(task model.ImportTask)

// StartImportWorkers creates the bounded task queue and starts the worker
// pool. Each job is consumed by exactly one worker, so job state has a
// single writer for its whole run.
func StartImportWorkers(handler ImportTaskHandler) {

	cfg := config.GetPDSRuntime().Config.Import

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = constants.DefaultImportWorkerCount
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = constants.DefaultImportQueueSize
	}

	importQueue = make(chan model.ImportTask, queueSize)

	for i := 0; i < workerCount; i++ {
		go func() {
			for task := range importQueue {
				handler(task)
			}
		}()
	}

	log.GetLogger().Info("Import worker pool started",
		log.Int("workers", workerCount), log.Int("queue_size", queueSize))
}

// EnqueueImportTask hands a submitted job to the pool. A full queue blocks
// the caller; the buffer bounds how much submitted work can pile up.
func EnqueueImportTask(task model.ImportTask) {

	if importQueue != nil {
		importQueue <- task
	}
}
