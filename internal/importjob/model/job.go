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

package model

import (
	"time"

	dictmodel "github.com/openregistro/person-data-service/internal/dictionary/model"
)

// ImportSummary counts the reconciliation outcome of every processed row.
type ImportSummary struct {
	New       int `json:"new"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Invalid   int `json:"invalid"`
}

// RowFailure carries the errors of one invalid row so callers can see why
// the row was rejected without re-submitting the file.
type RowFailure struct {
	RowNumber int        `json:"row_number"`
	Errors    []RowError `json:"errors"`
}

// ImportJob is the persisted state of one bulk import.
type ImportJob struct {
	JobId         string        `json:"job_id"`
	Status        string        `json:"status"`
	TotalRows     int           `json:"total_rows"`
	ProcessedRows int           `json:"processed_rows"`
	Summary       ImportSummary `json:"summary"`
	RowFailures   []RowFailure  `json:"row_failures,omitempty"`
	CreatedBy     string        `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
}

// ImportTask is one unit of work handed to the import worker pool. The
// dictionary snapshot is taken at submission time so mid-flight dictionary
// edits cannot change how queued rows are validated.
type ImportTask struct {
	JobId      string
	Rows       []RawRow
	Dictionary dictmodel.ColumnDictionary
	Actor      string
}
