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
	"reflect"

	dictmodel "github.com/openregistro/person-data-service/internal/dictionary/model"
	dictservice "github.com/openregistro/person-data-service/internal/dictionary/service"
	"github.com/openregistro/person-data-service/internal/importjob/model"
	personmodel "github.com/openregistro/person-data-service/internal/person/model"
	personstore "github.com/openregistro/person-data-service/internal/person/store"
	"github.com/openregistro/person-data-service/internal/system/constants"
)

// RecordRepository is the slice of the person store the reconciler needs.
// Import processing goes through this interface so row matching and commits
// can be exercised against in-memory fakes.
type RecordRepository interface {
	FindByIdentity(identityKey string) (*personmodel.PersonRecord, error)
	Upsert(record personmodel.PersonRecord) (*personmodel.PersonRecord, error)
}

// StoreRepository is the production RecordRepository backed by the person store.
type StoreRepository struct{}

func (StoreRepository) FindByIdentity(identityKey string) (*personmodel.PersonRecord, error) {

	return personstore.FindByIdentity(identityKey)
}

func (StoreRepository) Upsert(record personmodel.PersonRecord) (*personmodel.PersonRecord, error) {

	return personstore.UpsertPersonRecord(record)
}

// Reconciler classifies uploaded rows against the repository using a fixed
// dictionary snapshot. It holds no per-row state; each row is judged
// independently against the repository as it stands when the row is reached.
type Reconciler struct {
	dictionary dictmodel.ColumnDictionary
	repository RecordRepository
}

// NewReconciler creates a reconciler over the given dictionary snapshot.
func NewReconciler(dictionary dictmodel.ColumnDictionary, repository RecordRepository) *Reconciler {

	return &Reconciler{dictionary: dictionary, repository: repository}
}

// ReconcileRow validates one row against every dictionary column and matches
// it against the repository. Validation is exhaustive: all failing columns
// are reported together, never just the first. The returned error is reserved
// for repository faults; validation failures land in the outcome instead.
func (rc *Reconciler) ReconcileRow(rowNumber int, row model.RawRow) (model.RowOutcome, error) {

	outcome := model.RowOutcome{RowNumber: rowNumber}

	fields := make(map[string]interface{})
	var identityKey string

	for _, col := range rc.dictionary.Columns {
		normalized, err := dictservice.ValidateField(row[col.Name], col)
		if err != nil {
			outcome.Errors = append(outcome.Errors, model.RowError{
				Column:  col.Name,
				Message: err.Error(),
			})
			continue
		}
		if normalized == nil {
			continue
		}
		fields[col.Name] = normalized
		if col.Type == constants.IdentityDataType {
			identityKey = normalized.(string)
		}
	}

	if rc.dictionary.IdentityColumn() == nil {
		outcome.Errors = append(outcome.Errors, model.RowError{
			Message: "dictionary defines no identity column",
		})
	}

	// Without a usable identity there is nothing to match against.
	if identityKey == "" {
		outcome.Classification = constants.RowInvalid
		return outcome, nil
	}
	outcome.IdentityKey = identityKey
	outcome.Fields = fields

	existing, err := rc.repository.FindByIdentity(identityKey)
	if err != nil {
		return outcome, fmt.Errorf("repository lookup for row %d: %w", rowNumber, err)
	}

	if len(outcome.Errors) > 0 {
		outcome.Classification = constants.RowInvalid
		return outcome, nil
	}

	if existing == nil {
		outcome.Classification = constants.RowNew
		return outcome, nil
	}

	outcome.Previous = existing.Fields
	outcome.Diffs = rc.diffFields(existing.Fields, fields)
	if len(outcome.Diffs) == 0 {
		outcome.Classification = constants.RowUnchanged
		return outcome, nil
	}

	outcome.Classification = constants.RowUpdated
	// Stored fields from columns no longer in the dictionary are outside the
	// diff scope and must survive the wholesale upsert.
	for name, value := range existing.Fields {
		if !rc.dictionaryColumn(name) {
			outcome.Fields[name] = value
		}
	}
	return outcome, nil
}

func (rc *Reconciler) dictionaryColumn(name string) bool {

	for i := range rc.dictionary.Columns {
		if rc.dictionary.Columns[i].Name == name {
			return true
		}
	}
	return false
}

// diffFields compares normalized values column by column over the dictionary.
// A dictionary column present on one side but absent on the other counts as
// a change; stored fields outside the dictionary are never diffed.
func (rc *Reconciler) diffFields(existing, incoming map[string]interface{}) map[string]model.FieldDiff {

	diffs := make(map[string]model.FieldDiff)

	for _, col := range rc.dictionary.Columns {
		oldValue, hadOld := existing[col.Name]
		newValue, hasNew := incoming[col.Name]
		if !hadOld && !hasNew {
			continue
		}
		if hadOld != hasNew || !valuesEqual(oldValue, newValue) {
			diffs[col.Name] = model.FieldDiff{Old: oldValue, New: newValue}
		}
	}
	return diffs
}

// valuesEqual compares normalized values. Stored fields come back from JSONB
// with all numbers as float64, so numeric comparison crosses that boundary.
func valuesEqual(a, b interface{}) bool {

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {

	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
