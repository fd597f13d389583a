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

package constants

// ApiBasePath is the base path for all registered services.
const ApiBasePath = "/api/v1"

// Import worker defaults, used when the deployment config leaves them unset.
const (
	DefaultImportWorkerCount = 4
	DefaultImportQueueSize   = 64
	DefaultProgressBatchSize = 50
)

// Column data types supported by the dictionary.
const (
	StringDataType   = "string"
	NumberDataType   = "number"
	BooleanDataType  = "boolean"
	DateDataType     = "date"
	EmailDataType    = "email"
	PhoneDataType    = "phone"
	SelectDataType   = "select"
	IdentityDataType = "identity"
)

// AllowedColumnTypes is the closed set of dictionary column types.
var AllowedColumnTypes = map[string]bool{
	StringDataType:   true,
	NumberDataType:   true,
	BooleanDataType:  true,
	DateDataType:     true,
	EmailDataType:    true,
	PhoneDataType:    true,
	SelectDataType:   true,
	IdentityDataType: true,
}

// Validation kinds carried by a column definition.
const (
	ValidationNone           = "none"
	ValidationRegex          = "regex"
	ValidationEnumeratedList = "enumeratedList"
	ValidationIdentity       = "identity"
)

// AllowedValidationKinds is the closed set of validation kinds.
var AllowedValidationKinds = map[string]bool{
	ValidationNone:           true,
	ValidationRegex:          true,
	ValidationEnumeratedList: true,
	ValidationIdentity:       true,
}

// Import job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Row classifications produced by the reconciliation engine.
const (
	RowNew       = "new"
	RowUpdated   = "updated"
	RowUnchanged = "unchanged"
	RowInvalid   = "invalid"
)

// History actions.
const (
	HistoryActionCreate     = "create"
	HistoryActionUpdate     = "update"
	HistoryActionDelete     = "delete"
	HistoryActionBulkImport = "bulk-import"
)
