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

	"github.com/openregistro/person-data-service/internal/importjob/model"
	"github.com/openregistro/person-data-service/internal/importjob/provider"
	"github.com/openregistro/person-data-service/internal/system/authn"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
	"github.com/openregistro/person-data-service/internal/system/utils"
)

type ImportHandler struct{}

func NewImportHandler() *ImportHandler {

	return &ImportHandler{}
}

// importRequest is the POST body of a bulk import submission.
type importRequest struct {
	Rows []model.RawRow `json:"rows"`
}

// SubmitImport handles submitting a batch of rows for asynchronous
// reconciliation. It answers 202 with the pending job; processing happens
// on the worker pool.
func (ih *ImportHandler) SubmitImport(w http.ResponseWriter, r *http.Request) {

	actor, err := authn.ValidateRequestAndGetActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var request importRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "import request"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	importService := provider.NewImportProvider().GetImportService()
	job, err := importService.Submit(request.Rows, actor)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   actor,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      job.JobId,
		TargetType:    log.TargetTypeImportJob,
		ActionID:      log.ActionSubmitImport,
	})

	utils.WriteJSONResponse(w, http.StatusAccepted, job)
}

// GetImportJob handles polling the status of a submitted job.
func (ih *ImportHandler) GetImportJob(w http.ResponseWriter, r *http.Request, jobId string) {

	if _, err := authn.ValidateRequestAndGetActor(r); err != nil {
		utils.HandleError(w, err)
		return
	}

	importService := provider.NewImportProvider().GetImportService()
	job, err := importService.GetImportJob(jobId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, job)
}
