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
	"strings"

	dictprovider "github.com/openregistro/person-data-service/internal/dictionary/provider"
	dictservice "github.com/openregistro/person-data-service/internal/dictionary/service"
	historymodel "github.com/openregistro/person-data-service/internal/history/model"
	historyprovider "github.com/openregistro/person-data-service/internal/history/provider"
	"github.com/openregistro/person-data-service/internal/person/model"
	"github.com/openregistro/person-data-service/internal/person/store"
	"github.com/openregistro/person-data-service/internal/rut"
	"github.com/openregistro/person-data-service/internal/system/constants"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
)

type PersonServiceInterface interface {
	GetPerson(identity string) (*model.PersonRecord, error)
	ListPersons(limit, offset int) ([]model.PersonRecord, error)
	CreatePerson(raw map[string]string, actor string) (*model.PersonRecord, error)
	UpdatePerson(identity string, raw map[string]string, actor string) (*model.PersonRecord, error)
	DeletePerson(identity string, actor string) error
}

// PersonService is the default implementation of the PersonServiceInterface.
type PersonService struct{}

// GetPersonService creates a new instance of PersonService.
func GetPersonService() PersonServiceInterface {

	return &PersonService{}
}

// GetPerson retrieves a person record by identity number in any accepted
// presentation format.
func (s *PersonService) GetPerson(identity string) (*model.PersonRecord, error) {

	key, err := normalizeIdentity(identity)
	if err != nil {
		return nil, err
	}

	record, err := store.FindByIdentity(key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, personNotFoundError(key)
	}
	return record, nil
}

// ListPersons lists person records.
func (s *PersonService) ListPersons(limit, offset int) ([]model.PersonRecord, error) {

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return store.GetPersonRecords(limit, offset)
}

// CreatePerson validates the raw values against the current dictionary and
// inserts a new person record.
func (s *PersonService) CreatePerson(raw map[string]string, actor string) (*model.PersonRecord, error) {

	key, fields, err := validateAgainstDictionary(raw)
	if err != nil {
		return nil, err
	}

	existing, err := store.FindByIdentity(key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.ADD_PERSON.Code,
			Message:     errors2.ADD_PERSON.Message,
			Description: fmt.Sprintf("Person record already exists for identity %s", key),
		}, http.StatusConflict)
	}

	committed, err := store.UpsertPersonRecord(model.PersonRecord{
		IdentityKey: key,
		Fields:      fields,
		UpdatedBy:   actor,
	})
	if err != nil {
		return nil, err
	}

	historyService := historyprovider.NewHistoryProvider().GetHistoryService()
	historyService.AppendAsync(historymodel.HistoryEntry{
		Action:        constants.HistoryActionCreate,
		ActorId:       actor,
		SubjectId:     key,
		AfterSnapshot: committed.Fields,
	})
	return committed, nil
}

// UpdatePerson validates the raw values and updates an existing record.
func (s *PersonService) UpdatePerson(identity string, raw map[string]string, actor string) (*model.PersonRecord, error) {

	key, err := normalizeIdentity(identity)
	if err != nil {
		return nil, err
	}

	existing, err := store.FindByIdentity(key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, personNotFoundError(key)
	}

	newKey, fields, err := validateAgainstDictionary(raw)
	if err != nil {
		return nil, err
	}
	if newKey != key {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_PERSON.Code,
			Message:     errors2.UPDATE_PERSON.Message,
			Description: "Identity number of a person record cannot be changed",
		}, http.StatusBadRequest)
	}

	committed, err := store.UpsertPersonRecord(model.PersonRecord{
		IdentityKey: key,
		Fields:      fields,
		UpdatedBy:   actor,
	})
	if err != nil {
		return nil, err
	}

	historyService := historyprovider.NewHistoryProvider().GetHistoryService()
	historyService.AppendAsync(historymodel.HistoryEntry{
		Action:         constants.HistoryActionUpdate,
		ActorId:        actor,
		SubjectId:      key,
		BeforeSnapshot: existing.Fields,
		AfterSnapshot:  committed.Fields,
	})
	return committed, nil
}

// DeletePerson removes a person record and records the deletion.
func (s *PersonService) DeletePerson(identity string, actor string) error {

	key, err := normalizeIdentity(identity)
	if err != nil {
		return err
	}

	existing, err := store.FindByIdentity(key)
	if err != nil {
		return err
	}
	if existing == nil {
		return personNotFoundError(key)
	}

	if err := store.DeletePersonRecord(key); err != nil {
		return err
	}

	historyService := historyprovider.NewHistoryProvider().GetHistoryService()
	historyService.AppendAsync(historymodel.HistoryEntry{
		Action:         constants.HistoryActionDelete,
		ActorId:        actor,
		SubjectId:      key,
		BeforeSnapshot: existing.Fields,
	})
	return nil
}

// validateAgainstDictionary validates every dictionary column of the raw
// value set and returns the canonical identity key plus the normalized
// field map. Validation is exhaustive; all failures are reported together.
func validateAgainstDictionary(raw map[string]string) (string, map[string]interface{}, error) {

	dictService := dictprovider.NewDictionaryProvider().GetDictionaryService()
	dictionary, err := dictService.GetDictionarySnapshot()
	if err != nil {
		return "", nil, err
	}

	fields := make(map[string]interface{})
	var identityKey string
	var failures []string

	for _, col := range dictionary.Columns {
		normalized, err := dictservice.ValidateField(raw[col.Name], col)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", col.Name, err))
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

	if len(failures) > 0 {
		return "", nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: strings.Join(failures, "; "),
		}, http.StatusBadRequest)
	}
	if identityKey == "" {
		return "", nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_IDENTITY.Code,
			Message:     errors2.INVALID_IDENTITY.Message,
			Description: "No identity column value could be resolved",
		}, http.StatusBadRequest)
	}
	return identityKey, fields, nil
}

func normalizeIdentity(identity string) (string, error) {

	key, err := rut.Validate(identity)
	if err != nil {
		return "", errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_IDENTITY.Code,
			Message:     errors2.INVALID_IDENTITY.Message,
			Description: err.Error(),
		}, http.StatusBadRequest)
	}
	return key, nil
}

func personNotFoundError(key string) error {

	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.PERSON_NOT_FOUND.Code,
		Message:     errors2.PERSON_NOT_FOUND.Message,
		Description: fmt.Sprintf("No person record exists for identity %s", key),
	}, http.StatusNotFound)
}
