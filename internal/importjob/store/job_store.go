package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/openregistro/person-data-service/internal/importjob/model"
	"github.com/openregistro/person-data-service/internal/system/database/provider"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
)

// scanJobRow maps one result row onto an ImportJob.
func scanJobRow(row map[string]interface{}) (model.ImportJob, error) {

	var job model.ImportJob

	job.JobId = row["job_id"].(string)
	job.Status = row["status"].(string)
	if v, ok := row["total_rows"].(int64); ok {
		job.TotalRows = int(v)
	}
	if v, ok := row["processed_rows"].(int64); ok {
		job.ProcessedRows = int(v)
	}
	job.CreatedBy = row["created_by"].(string)
	if v, ok := row["created_at"].(time.Time); ok {
		job.CreatedAt = v
	}
	if v, ok := row["completed_at"].(time.Time); ok {
		job.CompletedAt = &v
	}
	if v, ok := row["failure_reason"].(string); ok {
		job.FailureReason = v
	}

	if summaryJSON, ok := row["summary"].([]byte); ok && len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &job.Summary); err != nil {
			return model.ImportJob{}, unmarshalError("import summary", err)
		}
	}
	if failuresJSON, ok := row["row_failures"].([]byte); ok && len(failuresJSON) > 0 {
		if err := json.Unmarshal(failuresJSON, &job.RowFailures); err != nil {
			return model.ImportJob{}, unmarshalError("row failures", err)
		}
	}
	return job, nil
}

// InsertImportJob persists a freshly submitted job in the pending state.
func InsertImportJob(job model.ImportJob) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for inserting an import job"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_IMPORT_JOB.Code,
			Message:     errors2.ADD_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	summaryJSON, failuresJSON, err := marshalJobState(job)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO import_jobs (job_id, status, total_rows, processed_rows, summary,
			row_failures, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW());`

	_, err = dbClient.ExecuteQuery(query, job.JobId, job.Status, job.TotalRows,
		job.ProcessedRows, summaryJSON, failuresJSON, job.CreatedBy)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to insert import job: %s", job.JobId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_IMPORT_JOB.Code,
			Message:     errors2.ADD_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// GetImportJob retrieves a job by id, or nil when no job exists.
func GetImportJob(jobId string) (*model.ImportJob, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching an import job"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_IMPORT_JOB.Code,
			Message:     errors2.GET_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		SELECT job_id, status, total_rows, processed_rows, summary, row_failures,
			created_by, created_at, completed_at, failure_reason
		FROM import_jobs
		WHERE job_id = $1;`

	rows, err := dbClient.ExecuteQuery(query, jobId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch import job: %s", jobId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_IMPORT_JOB.Code,
			Message:     errors2.GET_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	job, err := scanJobRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkJobProcessing claims a pending job for processing. Claiming a job in
// any other state is an error; terminal states are absorbing and a job is
// only ever processed once.
func MarkJobProcessing(jobId string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for claiming an import job"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_IMPORT_JOB.Code,
			Message:     errors2.UPDATE_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		UPDATE import_jobs
		SET status = 'processing'
		WHERE job_id = $1 AND status = 'pending'
		RETURNING job_id;`

	rows, err := dbClient.ExecuteQuery(query, jobId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to claim import job: %s", jobId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_IMPORT_JOB.Code,
			Message:     errors2.UPDATE_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_IMPORT_JOB.Code,
			Message:     errors2.UPDATE_IMPORT_JOB.Message,
			Description: fmt.Sprintf("Import job %s is not pending", jobId),
		}, nil)
	}
	return nil
}

// UpdateJobProgress persists the running counters of a processing job so
// status polls observe forward progress.
func UpdateJobProgress(jobId string, processedRows int, summary model.ImportSummary,
	failures []model.RowFailure) error {

	summaryJSON, failuresJSON, err := marshalJobState(model.ImportJob{
		Summary:     summary,
		RowFailures: failures,
	})
	if err != nil {
		return err
	}

	query := `
		UPDATE import_jobs
		SET processed_rows = $2, summary = $3, row_failures = $4
		WHERE job_id = $1 AND status = 'processing';`

	return executeJobUpdate(jobId, query, jobId, processedRows, summaryJSON, failuresJSON)
}

// MarkJobCompleted moves a processing job to the completed terminal state
// with its final counters.
func MarkJobCompleted(jobId string, processedRows int, summary model.ImportSummary,
	failures []model.RowFailure) error {

	summaryJSON, failuresJSON, err := marshalJobState(model.ImportJob{
		Summary:     summary,
		RowFailures: failures,
	})
	if err != nil {
		return err
	}

	query := `
		UPDATE import_jobs
		SET status = 'completed', processed_rows = $2, summary = $3, row_failures = $4,
			completed_at = NOW()
		WHERE job_id = $1 AND status = 'processing';`

	return executeJobUpdate(jobId, query, jobId, processedRows, summaryJSON, failuresJSON)
}

// MarkJobFailed moves a job to the failed terminal state keeping whatever
// partial counters were reached. Pending jobs can fail too, for example when
// a worker cannot claim one; terminal states stay untouched.
func MarkJobFailed(jobId string, reason string, processedRows int,
	summary model.ImportSummary, failures []model.RowFailure) error {

	summaryJSON, failuresJSON, err := marshalJobState(model.ImportJob{
		Summary:     summary,
		RowFailures: failures,
	})
	if err != nil {
		return err
	}

	query := `
		UPDATE import_jobs
		SET status = 'failed', failure_reason = $2, processed_rows = $3, summary = $4,
			row_failures = $5, completed_at = NOW()
		WHERE job_id = $1 AND status IN ('pending', 'processing');`

	return executeJobUpdate(jobId, query, jobId, reason, processedRows, summaryJSON, failuresJSON)
}

func executeJobUpdate(jobId, query string, args ...interface{}) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for updating an import job"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_IMPORT_JOB.Code,
			Message:     errors2.UPDATE_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	if _, err := dbClient.ExecuteQuery(query, args...); err != nil {
		errorMsg := fmt.Sprintf("Failed to update import job: %s", jobId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_IMPORT_JOB.Code,
			Message:     errors2.UPDATE_IMPORT_JOB.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

func marshalJobState(job model.ImportJob) ([]byte, []byte, error) {

	summaryJSON, err := json.Marshal(job.Summary)
	if err != nil {
		return nil, nil, marshalError("import summary", err)
	}

	failures := job.RowFailures
	if failures == nil {
		failures = []model.RowFailure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return nil, nil, marshalError("row failures", err)
	}
	return summaryJSON, failuresJSON, nil
}

func marshalError(what string, err error) error {

	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.MARSHAL_JSON.Code,
		Message:     errors2.MARSHAL_JSON.Message,
		Description: fmt.Sprintf("Failed to marshal %s", what),
	}, err)
}

func unmarshalError(what string, err error) error {

	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.UNMARSHAL_JSON.Code,
		Message:     errors2.UNMARSHAL_JSON.Message,
		Description: fmt.Sprintf("Failed to unmarshal %s", what),
	}, err)
}
