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

	"github.com/openregistro/person-data-service/internal/dictionary/handler"
)

type ColumnService struct {
	columnHandler *handler.DictionaryHandler
}

func NewColumnService(mux *http.ServeMux, apiBasePath string) *ColumnService {

	instance := &ColumnService{
		columnHandler: handler.NewDictionaryHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *ColumnService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("GET %s/columns", apiBasePath), s.columnHandler.GetColumns)
	mux.HandleFunc(fmt.Sprintf("POST %s/columns", apiBasePath), s.columnHandler.AddColumn)
	mux.HandleFunc(fmt.Sprintf("PUT %s/columns/{name}", apiBasePath),
		func(w http.ResponseWriter, r *http.Request) {
			s.columnHandler.UpdateColumn(w, r, r.PathValue("name"))
		})
	mux.HandleFunc(fmt.Sprintf("DELETE %s/columns/{name}", apiBasePath),
		func(w http.ResponseWriter, r *http.Request) {
			s.columnHandler.DeleteColumn(w, r, r.PathValue("name"))
		})
}
