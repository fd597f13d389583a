/*
 * Copyright (c) 2025, OpenRegistro (https://www.openregistro.cl).
 *
 * OpenRegistro licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	dictmodel "github.com/openregistro/person-data-service/internal/dictionary/model"
	dictprovider "github.com/openregistro/person-data-service/internal/dictionary/provider"
	historymodel "github.com/openregistro/person-data-service/internal/history/model"
	historyprovider "github.com/openregistro/person-data-service/internal/history/provider"
	"github.com/openregistro/person-data-service/internal/importjob/model"
	"github.com/openregistro/person-data-service/internal/importjob/store"
	personmodel "github.com/openregistro/person-data-service/internal/person/model"
	"github.com/openregistro/person-data-service/internal/system/config"
	"github.com/openregistro/person-data-service/internal/system/constants"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
	"github.com/openregistro/person-data-service/internal/system/workers"
)

type ImportServiceInterface interface {
	Submit(rows []model.RawRow, actor string) (*model.ImportJob, error)
	GetImportJob(jobId string) (*model.ImportJob, error)
	ExecuteImportJob(task model.ImportTask)
}

// JobStore is the persistence surface of the job lifecycle.
type JobStore interface {
	Insert(job model.ImportJob) error
	Get(jobId string) (*model.ImportJob, error)
	MarkProcessing(jobId string) error
	UpdateProgress(jobId string, processedRows int, summary model.ImportSummary,
		failures []model.RowFailure) error
	MarkCompleted(jobId string, processedRows int, summary model.ImportSummary,
		failures []model.RowFailure) error
	MarkFailed(jobId string, reason string, processedRows int,
		summary model.ImportSummary, failures []model.RowFailure) error
}

// HistoryRecorder records audit entries without blocking row processing.
type HistoryRecorder interface {
	AppendAsync(entry historymodel.HistoryEntry)
}

// TaskQueue hands submitted jobs to the worker pool.
type TaskQueue interface {
	Enqueue(task model.ImportTask)
}

// DictionarySource provides the column dictionary snapshot taken at
// submission time.
type DictionarySource interface {
	GetDictionarySnapshot() (dictmodel.ColumnDictionary, error)
}

type dbJobStore struct{}

func (dbJobStore) Insert(job model.ImportJob) error { return store.InsertImportJob(job) }

func (dbJobStore) Get(jobId string) (*model.ImportJob, error) { return store.GetImportJob(jobId) }

func (dbJobStore) MarkProcessing(jobId string) error { return store.MarkJobProcessing(jobId) }

func (dbJobStore) UpdateProgress(jobId string, processedRows int, summary model.ImportSummary,
	failures []model.RowFailure) error {

	return store.UpdateJobProgress(jobId, processedRows, summary, failures)
}

func (dbJobStore) MarkCompleted(jobId string, processedRows int, summary model.ImportSummary,
	failures []model.RowFailure) error {

	return store.MarkJobCompleted(jobId, processedRows, summary, failures)
}

func (dbJobStore) MarkFailed(jobId string, reason string, processedRows int,
	summary model.ImportSummary, failures []model.RowFailure) error {

	return store.MarkJobFailed(jobId, reason, processedRows, summary, failures)
}

type workerQueue struct{}

func (workerQueue) Enqueue(task model.ImportTask) { workers.EnqueueImportTask(task) }

// ImportService is the default implementation of the ImportServiceInterface.
type ImportService struct {
	jobs          JobStore
	repository    RecordRepository
	history       HistoryRecorder
	queue         TaskQueue
	dictionary    DictionarySource
	progressBatch int
}

// GetImportService creates an import service wired to the production stores
// and worker pool.
func GetImportService() ImportServiceInterface {

	batch := config.GetPDSRuntime().Config.Import.ProgressBatchSize
	if batch <= 0 {
		batch = constants.DefaultProgressBatchSize
	}
	return NewImportService(dbJobStore{}, StoreRepository{},
		historyprovider.NewHistoryProvider().GetHistoryService(), workerQueue{},
		dictprovider.NewDictionaryProvider().GetDictionaryService(), batch)
}

// NewImportService creates an import service with explicit collaborators.
func NewImportService(jobs JobStore, repository RecordRepository, history HistoryRecorder,
	queue TaskQueue, dictionary DictionarySource, progressBatch int) *ImportService {

	if progressBatch <= 0 {
		progressBatch = constants.DefaultProgressBatchSize
	}
	return &ImportService{
		jobs:          jobs,
		repository:    repository,
		history:       history,
		queue:         queue,
		dictionary:    dictionary,
		progressBatch: progressBatch,
	}
}

// Submit registers a new import job and queues it for processing. The job is
// persisted in the pending state before it is queued, so its id can be
// polled the moment this call returns. The dictionary is snapshotted here;
// column edits made while the job waits in the queue do not affect it.
func (s *ImportService) Submit(rows []model.RawRow, actor string) (*model.ImportJob, error) {

	if len(rows) == 0 {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.EMPTY_IMPORT.Code,
			Message:     errors2.EMPTY_IMPORT.Message,
			Description: "Import contains no rows",
		}, http.StatusBadRequest)
	}

	dictionary, err := s.dictionary.GetDictionarySnapshot()
	if err != nil {
		return nil, err
	}

	job := model.ImportJob{
		JobId:     uuid.New().String(),
		Status:    constants.JobStatusPending,
		TotalRows: len(rows),
		CreatedBy: actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Insert(job); err != nil {
		return nil, err
	}

	s.queue.Enqueue(model.ImportTask{
		JobId:      job.JobId,
		Rows:       rows,
		Dictionary: dictionary,
		Actor:      actor,
	})
	return &job, nil
}

// GetImportJob retrieves the current snapshot of a job.
func (s *ImportService) GetImportJob(jobId string) (*model.ImportJob, error) {

	job, err := s.jobs.Get(jobId)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.IMPORT_JOB_NOT_FOUND.Code,
			Message:     errors2.IMPORT_JOB_NOT_FOUND.Message,
			Description: fmt.Sprintf("No import job exists with id %s", jobId),
		}, http.StatusNotFound)
	}
	return job, nil
}

// ExecuteImportJob runs one queued job to a terminal state. It is invoked by
// exactly one worker per job, which keeps the job row single-writer. Row
// failures never abort the batch; only repository faults that undermine the
// whole run move the job to failed, and rows committed before that point
// remain committed.
func (s *ImportService) ExecuteImportJob(task model.ImportTask) {

	logger := log.GetLogger()

	if err := s.jobs.MarkProcessing(task.JobId); err != nil {
		logger.Error("Failed to mark import job processing", log.Error(err),
			log.String("job_id", task.JobId))
		// Best effort: surface a terminal state instead of leaving the job
		// pending forever. A job already in a terminal state is untouched.
		reason := fmt.Sprintf("failed to claim job for processing: %v", err)
		if err := s.jobs.MarkFailed(task.JobId, reason, 0, model.ImportSummary{}, nil); err != nil {
			logger.Error("Failed to mark unclaimable import job failed", log.Error(err),
				log.String("job_id", task.JobId))
		}
		return
	}

	reconciler := NewReconciler(task.Dictionary, s.repository)

	var summary model.ImportSummary
	var failures []model.RowFailure
	processed := 0

	for i, row := range task.Rows {
		rowNumber := i + 1

		outcome, err := reconciler.ReconcileRow(rowNumber, row)
		if err != nil {
			reason := fmt.Sprintf("row %d: %v", rowNumber, err)
			logger.Error("Import job failed", log.Error(err), log.String("job_id", task.JobId))
			if err := s.jobs.MarkFailed(task.JobId, reason, processed, summary, failures); err != nil {
				logger.Error("Failed to mark import job failed", log.Error(err),
					log.String("job_id", task.JobId))
			}
			return
		}

		switch outcome.Classification {
		case constants.RowNew, constants.RowUpdated:
			outcome = s.commitRow(task, outcome)
		}

		switch outcome.Classification {
		case constants.RowNew:
			summary.New++
		case constants.RowUpdated:
			summary.Updated++
		case constants.RowUnchanged:
			summary.Unchanged++
		case constants.RowInvalid:
			summary.Invalid++
			failures = append(failures, model.RowFailure{
				RowNumber: outcome.RowNumber,
				Errors:    outcome.Errors,
			})
		}
		processed++

		if processed%s.progressBatch == 0 {
			if err := s.jobs.UpdateProgress(task.JobId, processed, summary, failures); err != nil {
				logger.Warn("Failed to persist import job progress", log.Error(err),
					log.String("job_id", task.JobId))
			}
		}
	}

	if err := s.jobs.MarkCompleted(task.JobId, processed, summary, failures); err != nil {
		logger.Error("Failed to mark import job completed", log.Error(err),
			log.String("job_id", task.JobId))
		return
	}

	s.history.AppendAsync(historymodel.HistoryEntry{
		Action:    constants.HistoryActionBulkImport,
		ActorId:   task.Actor,
		SubjectId: task.JobId,
		JobId:     task.JobId,
		AfterSnapshot: map[string]interface{}{
			"total_rows": processed,
			"new":        summary.New,
			"updated":    summary.Updated,
			"unchanged":  summary.Unchanged,
			"invalid":    summary.Invalid,
		},
	})

	logger.Audit(log.AuditEvent{
		InitiatorID:   task.Actor,
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      task.JobId,
		TargetType:    log.TargetTypeImportJob,
		ActionID:      log.ActionCompleteImport,
	})
}

// commitRow upserts a new or updated row and records its audit entry. A
// commit failure demotes the row to invalid; the batch carries on.
func (s *ImportService) commitRow(task model.ImportTask, outcome model.RowOutcome) model.RowOutcome {

	committed, err := s.repository.Upsert(personmodel.PersonRecord{
		IdentityKey: outcome.IdentityKey,
		Fields:      outcome.Fields,
		UpdatedBy:   task.Actor,
	})
	if err != nil {
		log.GetLogger().Warn("Failed to commit import row", log.Error(err),
			log.String("job_id", task.JobId), log.Int("row", outcome.RowNumber))
		outcome.Classification = constants.RowInvalid
		outcome.Errors = append(outcome.Errors, model.RowError{
			Message: fmt.Sprintf("failed to commit row: %v", err),
		})
		return outcome
	}

	action := constants.HistoryActionCreate
	entry := historymodel.HistoryEntry{
		ActorId:       task.Actor,
		SubjectId:     outcome.IdentityKey,
		AfterSnapshot: committed.Fields,
		JobId:         task.JobId,
	}
	if outcome.Classification == constants.RowUpdated {
		action = constants.HistoryActionUpdate
		entry.BeforeSnapshot = outcome.Previous
	}
	entry.Action = action
	s.history.AppendAsync(entry)

	return outcome
}
