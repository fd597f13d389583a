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

package services

import (
	"fmt"
	"net/http"

	"github.com/openregistro/person-data-service/internal/importjob/handler"
)

type ImportService struct {
	importHandler *handler.ImportHandler
}

func NewImportService(mux *http.ServeMux, apiBasePath string) *ImportService {

	instance := &ImportService{
		importHandler: handler.NewImportHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *ImportService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("POST %s/imports", apiBasePath), s.importHandler.SubmitImport)
	mux.HandleFunc(fmt.Sprintf("GET %s/imports/{jobId}", apiBasePath),
		func(w http.ResponseWriter, r *http.Request) {
			s.importHandler.GetImportJob(w, r, r.PathValue("jobId"))
		})
}
