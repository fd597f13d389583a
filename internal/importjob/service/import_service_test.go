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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dictmodel "github.com/openregistro/person-data-service/internal/dictionary/model"
	historymodel "github.com/openregistro/person-data-service/internal/history/model"
	"github.com/openregistro/person-data-service/internal/importjob/model"
	personmodel "github.com/openregistro/person-data-service/internal/person/model"
	"github.com/openregistro/person-data-service/internal/system/constants"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
)

// fakeJobStore mimics the guarded status transitions of the SQL store.
type fakeJobStore struct {
	jobs          map[string]*model.ImportJob
	progressCalls int
	claimErr      error
}

func newFakeJobStore() *fakeJobStore {

	return &fakeJobStore{jobs: make(map[string]*model.ImportJob)}
}

func (f *fakeJobStore) Insert(job model.ImportJob) error {

	copied := job
	f.jobs[job.JobId] = &copied
	return nil
}

func (f *fakeJobStore) Get(jobId string) (*model.ImportJob, error) {

	job, ok := f.jobs[jobId]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobStore) MarkProcessing(jobId string) error {

	if f.claimErr != nil {
		return f.claimErr
	}
	job, ok := f.jobs[jobId]
	if !ok || job.Status != constants.JobStatusPending {
		return fmt.Errorf("import job %s is not pending", jobId)
	}
	job.Status = constants.JobStatusProcessing
	return nil
}

func (f *fakeJobStore) UpdateProgress(jobId string, processedRows int,
	summary model.ImportSummary, failures []model.RowFailure) error {

	job, ok := f.jobs[jobId]
	if !ok || job.Status != constants.JobStatusProcessing {
		return nil
	}
	job.ProcessedRows = processedRows
	job.Summary = summary
	job.RowFailures = failures
	f.progressCalls++
	return nil
}

func (f *fakeJobStore) MarkCompleted(jobId string, processedRows int,
	summary model.ImportSummary, failures []model.RowFailure) error {

	job, ok := f.jobs[jobId]
	if !ok || job.Status != constants.JobStatusProcessing {
		return nil
	}
	job.Status = constants.JobStatusCompleted
	job.ProcessedRows = processedRows
	job.Summary = summary
	job.RowFailures = failures
	return nil
}

func (f *fakeJobStore) MarkFailed(jobId string, reason string, processedRows int,
	summary model.ImportSummary, failures []model.RowFailure) error {

	job, ok := f.jobs[jobId]
	if !ok || (job.Status != constants.JobStatusPending && job.Status != constants.JobStatusProcessing) {
		return nil
	}
	job.Status = constants.JobStatusFailed
	job.FailureReason = reason
	job.ProcessedRows = processedRows
	job.Summary = summary
	job.RowFailures = failures
	return nil
}

type fakeHistory struct {
	entries []historymodel.HistoryEntry
}

func (f *fakeHistory) AppendAsync(entry historymodel.HistoryEntry) {

	f.entries = append(f.entries, entry)
}

type fakeQueue struct {
	tasks []model.ImportTask
}

func (f *fakeQueue) Enqueue(task model.ImportTask) {

	f.tasks = append(f.tasks, task)
}

// fakeDictionarySource returns whatever dictionary it currently holds, the
// way the dictionary service reflects the latest column edits.
type fakeDictionarySource struct {
	dictionary dictmodel.ColumnDictionary
	err        error
}

func (f *fakeDictionarySource) GetDictionarySnapshot() (dictmodel.ColumnDictionary, error) {

	return f.dictionary, f.err
}

func newFakeDictionarySource() *fakeDictionarySource {

	return &fakeDictionarySource{dictionary: personDictionary()}
}

func pendingJob(store *fakeJobStore, jobId string, totalRows int) {

	store.jobs[jobId] = &model.ImportJob{
		JobId:     jobId,
		Status:    constants.JobStatusPending,
		TotalRows: totalRows,
		CreatedBy: "tester",
	}
}

func TestSubmit_EmptyImportRejected(t *testing.T) {

	svc := NewImportService(newFakeJobStore(), newFakeRepository(), &fakeHistory{}, &fakeQueue{},
		newFakeDictionarySource(), 10)

	_, err := svc.Submit(nil, "tester")
	require.Error(t, err)

	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.EMPTY_IMPORT.Code, clientErr.Code)
}

func TestExecuteImportJob_CompletesWithSummary(t *testing.T) {

	jobs := newFakeJobStore()
	repo := newFakeRepository()
	history := &fakeHistory{}

	// Ana exists with an older name; Carla matches her stored record exactly.
	repo.records["12345678-5"] = personmodel.PersonRecord{
		IdentityKey: "12345678-5",
		Fields: map[string]interface{}{
			"rut":    "12345678-5",
			"nombre": "Ana",
			"email":  "ana@example.cl",
		},
	}
	repo.records["11111111-1"] = personmodel.PersonRecord{
		IdentityKey: "11111111-1",
		Fields: map[string]interface{}{
			"rut":    "11111111-1",
			"nombre": "Carla",
		},
	}

	pendingJob(jobs, "job-1", 4)
	svc := NewImportService(jobs, repo, history, &fakeQueue{}, newFakeDictionarySource(), 10)

	svc.ExecuteImportJob(model.ImportTask{
		JobId:      "job-1",
		Dictionary: personDictionary(),
		Actor:      "tester",
		Rows: []model.RawRow{
			{"rut": "12345678-5", "nombre": "Ana M.", "email": "ana@example.cl"},
			{"rut": "1000005-K", "nombre": "Diego"},
			{"rut": "11111111-1", "nombre": "Carla"},
			{"rut": "12345678-5", "nombre": "", "email": "broken"},
		},
	})

	job := jobs.jobs["job-1"]
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	assert.Equal(t, 4, job.ProcessedRows)
	assert.Equal(t, model.ImportSummary{New: 1, Updated: 1, Unchanged: 1, Invalid: 1}, job.Summary)

	require.Len(t, job.RowFailures, 1)
	assert.Equal(t, 4, job.RowFailures[0].RowNumber)
	assert.Len(t, job.RowFailures[0].Errors, 2)

	// One update, one create, one bulk-import summary.
	require.Len(t, history.entries, 3)
	assert.Equal(t, constants.HistoryActionUpdate, history.entries[0].Action)
	assert.Equal(t, "Ana", history.entries[0].BeforeSnapshot["nombre"])
	assert.Equal(t, constants.HistoryActionCreate, history.entries[1].Action)
	assert.Equal(t, constants.HistoryActionBulkImport, history.entries[2].Action)
	assert.Equal(t, "job-1", history.entries[2].JobId)

	assert.Equal(t, "Ana M.", repo.records["12345678-5"].Fields["nombre"])
	assert.Equal(t, "Diego", repo.records["1000005-K"].Fields["nombre"])
}

func TestExecuteImportJob_CommitErrorReclassifiesRow(t *testing.T) {

	jobs := newFakeJobStore()
	repo := newFakeRepository()
	repo.upsertErr["12345678-5"] = fmt.Errorf("deadlock detected")

	pendingJob(jobs, "job-2", 2)
	svc := NewImportService(jobs, repo, &fakeHistory{}, &fakeQueue{}, newFakeDictionarySource(), 10)

	svc.ExecuteImportJob(model.ImportTask{
		JobId:      "job-2",
		Dictionary: personDictionary(),
		Actor:      "tester",
		Rows: []model.RawRow{
			{"rut": "12345678-5", "nombre": "Ana"},
			{"rut": "1000005-K", "nombre": "Diego"},
		},
	})

	job := jobs.jobs["job-2"]
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	assert.Equal(t, model.ImportSummary{New: 1, Invalid: 1}, job.Summary)

	require.Len(t, job.RowFailures, 1)
	assert.Equal(t, 1, job.RowFailures[0].RowNumber)
	assert.Contains(t, job.RowFailures[0].Errors[0].Message, "failed to commit row")
}

func TestExecuteImportJob_SystemicFailure(t *testing.T) {

	jobs := newFakeJobStore()
	repo := newFakeRepository()
	repo.failOnFindCall = 2

	pendingJob(jobs, "job-3", 3)
	svc := NewImportService(jobs, repo, &fakeHistory{}, &fakeQueue{}, newFakeDictionarySource(), 10)

	svc.ExecuteImportJob(model.ImportTask{
		JobId:      "job-3",
		Dictionary: personDictionary(),
		Actor:      "tester",
		Rows: []model.RawRow{
			{"rut": "12345678-5", "nombre": "Ana"},
			{"rut": "1000005-K", "nombre": "Diego"},
			{"rut": "11111111-1", "nombre": "Carla"},
		},
	})

	job := jobs.jobs["job-3"]
	assert.Equal(t, constants.JobStatusFailed, job.Status)
	assert.Contains(t, job.FailureReason, "row 2")
	assert.Equal(t, 1, job.ProcessedRows)
	assert.Equal(t, 1, job.Summary.New)

	// The row committed before the fault stands.
	_, ok := repo.records["12345678-5"]
	assert.True(t, ok)
}

func TestExecuteImportJob_TerminalJobNotReprocessed(t *testing.T) {

	jobs := newFakeJobStore()
	jobs.jobs["job-4"] = &model.ImportJob{
		JobId:  "job-4",
		Status: constants.JobStatusCompleted,
	}
	repo := newFakeRepository()
	history := &fakeHistory{}
	svc := NewImportService(jobs, repo, history, &fakeQueue{}, newFakeDictionarySource(), 10)

	svc.ExecuteImportJob(model.ImportTask{
		JobId:      "job-4",
		Dictionary: personDictionary(),
		Actor:      "tester",
		Rows:       []model.RawRow{{"rut": "12345678-5", "nombre": "Ana"}},
	})

	assert.Equal(t, constants.JobStatusCompleted, jobs.jobs["job-4"].Status)
	assert.Empty(t, repo.upsertSeen)
	assert.Empty(t, history.entries)
}

func TestExecuteImportJob_ProgressIsPersistedInBatches(t *testing.T) {

	jobs := newFakeJobStore()
	repo := newFakeRepository()

	rows := make([]model.RawRow, 0, 5)
	for _, rut := range []string{"12345678-5", "1000005-K", "11111111-1", "22222222-2", "7654321-6"} {
		rows = append(rows, model.RawRow{"rut": rut, "nombre": "Persona"})
	}

	pendingJob(jobs, "job-5", len(rows))
	svc := NewImportService(jobs, repo, &fakeHistory{}, &fakeQueue{}, newFakeDictionarySource(), 2)

	svc.ExecuteImportJob(model.ImportTask{
		JobId:      "job-5",
		Dictionary: personDictionary(),
		Actor:      "tester",
		Rows:       rows,
	})

	assert.Equal(t, 2, jobs.progressCalls)
	assert.Equal(t, constants.JobStatusCompleted, jobs.jobs["job-5"].Status)
	assert.Equal(t, 5, jobs.jobs["job-5"].ProcessedRows)
}

// Column edits made after submission must not reach a queued job; the task
// carries the dictionary as it stood when the job was accepted.
func TestSubmit_QueuedTaskCarriesSubmissionTimeDictionary(t *testing.T) {

	jobs := newFakeJobStore()
	queue := &fakeQueue{}
	source := newFakeDictionarySource()
	svc := NewImportService(jobs, newFakeRepository(), &fakeHistory{}, queue, source, 10)

	job, err := svc.Submit([]model.RawRow{
		{"rut": "12345678-5", "nombre": "Ana"},
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusPending, jobs.jobs[job.JobId].Status)

	// A required column lands while the job waits in the queue. Under the
	// grown dictionary the submitted row would be invalid.
	grown := personDictionary()
	grown.Columns = append(grown.Columns, dictmodel.ColumnDefinition{
		Name:     "telefono",
		Type:     constants.StringDataType,
		Required: true,
	})
	source.dictionary = grown

	require.Len(t, queue.tasks, 1)
	task := queue.tasks[0]
	assert.Equal(t, job.JobId, task.JobId)
	require.Len(t, task.Dictionary.Columns, 3)

	svc.ExecuteImportJob(task)

	processed := jobs.jobs[job.JobId]
	assert.Equal(t, constants.JobStatusCompleted, processed.Status)
	assert.Equal(t, model.ImportSummary{New: 1}, processed.Summary)
	assert.Empty(t, processed.RowFailures)
}

func TestSubmit_DictionarySnapshotFailure(t *testing.T) {

	jobs := newFakeJobStore()
	queue := &fakeQueue{}
	source := &fakeDictionarySource{err: fmt.Errorf("connection refused")}
	svc := NewImportService(jobs, newFakeRepository(), &fakeHistory{}, queue, source, 10)

	_, err := svc.Submit([]model.RawRow{{"rut": "12345678-5"}}, "tester")
	require.Error(t, err)

	assert.Empty(t, jobs.jobs)
	assert.Empty(t, queue.tasks)
}

// A job whose claim fails for reasons other than a terminal status must not
// stay pending forever; pollers need a terminal state to observe.
func TestExecuteImportJob_ClaimFailureMarksJobFailed(t *testing.T) {

	jobs := newFakeJobStore()
	jobs.claimErr = fmt.Errorf("connection refused")
	repo := newFakeRepository()

	pendingJob(jobs, "job-6", 1)
	svc := NewImportService(jobs, repo, &fakeHistory{}, &fakeQueue{}, newFakeDictionarySource(), 10)

	svc.ExecuteImportJob(model.ImportTask{
		JobId:      "job-6",
		Dictionary: personDictionary(),
		Actor:      "tester",
		Rows:       []model.RawRow{{"rut": "12345678-5", "nombre": "Ana"}},
	})

	job := jobs.jobs["job-6"]
	assert.Equal(t, constants.JobStatusFailed, job.Status)
	assert.Contains(t, job.FailureReason, "failed to claim job")
	assert.Empty(t, repo.upsertSeen)
}

func TestGetImportJob_NotFound(t *testing.T) {

	svc := NewImportService(newFakeJobStore(), newFakeRepository(), &fakeHistory{}, &fakeQueue{},
		newFakeDictionarySource(), 10)

	_, err := svc.GetImportJob("missing")
	require.Error(t, err)

	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.IMPORT_JOB_NOT_FOUND.Code, clientErr.Code)
}
