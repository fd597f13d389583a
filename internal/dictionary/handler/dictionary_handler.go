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

	"github.com/openregistro/person-data-service/internal/dictionary/model"
	"github.com/openregistro/person-data-service/internal/dictionary/provider"
	"github.com/openregistro/person-data-service/internal/system/authn"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
	"github.com/openregistro/person-data-service/internal/system/utils"
)

type DictionaryHandler struct{}

func NewDictionaryHandler() *DictionaryHandler {

	return &DictionaryHandler{}
}

// GetColumns handles listing all column definitions.
func (dh *DictionaryHandler) GetColumns(w http.ResponseWriter, r *http.Request) {

	if _, err := authn.ValidateRequestAndGetActor(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	dictService := provider.NewDictionaryProvider().GetDictionaryService()
	columns, err := dictService.GetColumnDefinitions()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, columns)
}

// AddColumn handles adding a new column definition.
func (dh *DictionaryHandler) AddColumn(w http.ResponseWriter, r *http.Request) {

	actor, err := authn.ValidateRequestAndGetActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var col model.ColumnDefinition
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&col); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "column definition"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	dictService := provider.NewDictionaryProvider().GetDictionaryService()
	if err := dictService.AddColumnDefinition(col); err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   actor,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      col.Name,
		TargetType:    log.TargetTypeColumn,
		ActionID:      log.ActionAddColumn,
	})

	utils.WriteJSONResponse(w, http.StatusCreated, col)
}

// UpdateColumn handles updating an existing column definition.
func (dh *DictionaryHandler) UpdateColumn(w http.ResponseWriter, r *http.Request, name string) {

	actor, err := authn.ValidateRequestAndGetActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var col model.ColumnDefinition
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&col); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "column definition"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	// The path segment wins over whatever the body carries; names are immutable.
	col.Name = name

	dictService := provider.NewDictionaryProvider().GetDictionaryService()
	if err := dictService.UpdateColumnDefinition(col); err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   actor,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      col.Name,
		TargetType:    log.TargetTypeColumn,
		ActionID:      log.ActionUpdateColumn,
	})

	utils.WriteJSONResponse(w, http.StatusOK, col)
}

// DeleteColumn handles deleting a column definition.
func (dh *DictionaryHandler) DeleteColumn(w http.ResponseWriter, r *http.Request, name string) {

	actor, err := authn.ValidateRequestAndGetActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	dictService := provider.NewDictionaryProvider().GetDictionaryService()
	if err := dictService.DeleteColumnDefinition(name); err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   actor,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      name,
		TargetType:    log.TargetTypeColumn,
		ActionID:      log.ActionDeleteColumn,
	})

	w.WriteHeader(http.StatusNoContent)
}
