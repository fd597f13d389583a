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

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/openregistro/person-data-service/internal/person/provider"
	"github.com/openregistro/person-data-service/internal/system/authn"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
	"github.com/openregistro/person-data-service/internal/system/utils"
)

type PersonHandler struct{}

func NewPersonHandler() *PersonHandler {

	return &PersonHandler{}
}

// GetPerson handles retrieving a single person record by identity number.
func (ph *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request, identity string) {

	if _, err := authn.ValidateRequestAndGetActor(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	personService := provider.NewPersonProvider().GetPersonService()
	record, err := personService.GetPerson(identity)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, record)
}

// ListPersons handles listing person records with limit/offset paging.
func (ph *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {

	if _, err := authn.ValidateRequestAndGetActor(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	personService := provider.NewPersonProvider().GetPersonService()
	records, err := personService.ListPersons(limit, offset)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, records)
}

// AddPerson handles creating a new person record from raw field values.
func (ph *PersonHandler) AddPerson(w http.ResponseWriter, r *http.Request) {

	actor, err := authn.ValidateRequestAndGetActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var raw map[string]string
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "person record"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	personService := provider.NewPersonProvider().GetPersonService()
	record, err := personService.CreatePerson(raw, actor)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   actor,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      record.IdentityKey,
		TargetType:    log.TargetTypePerson,
		ActionID:      log.ActionAddPerson,
	})

	utils.WriteJSONResponse(w, http.StatusCreated, record)
}

// UpdatePerson handles replacing the field values of an existing record.
func (ph *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request, identity string) {

	actor, err := authn.ValidateRequestAndGetActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var raw map[string]string
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "person record"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	personService := provider.NewPersonProvider().GetPersonService()
	record, err := personService.UpdatePerson(identity, raw, actor)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   actor,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      record.IdentityKey,
		TargetType:    log.TargetTypePerson,
		ActionID:      log.ActionUpdatePerson,
	})

	utils.WriteJSONResponse(w, http.StatusOK, record)
}

// DeletePerson handles removing a person record.
func (ph *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request, identity string) {

	actor, err := authn.ValidateRequestAndGetActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	personService := provider.NewPersonProvider().GetPersonService()
	if err := personService.DeletePerson(identity, actor); err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   actor,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      identity,
		TargetType:    log.TargetTypePerson,
		ActionID:      log.ActionDeletePerson,
	})

	w.WriteHeader(http.StatusNoContent)
}
