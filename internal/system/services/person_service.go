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

	"github.com/openregistro/person-data-service/internal/person/handler"
)

type PersonService struct {
	personHandler *handler.PersonHandler
}

func NewPersonService(mux *http.ServeMux, apiBasePath string) *PersonService {

	instance := &PersonService{
		personHandler: handler.NewPersonHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *PersonService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("GET %s/persons", apiBasePath), s.personHandler.ListPersons)
	mux.HandleFunc(fmt.Sprintf("POST %s/persons", apiBasePath), s.personHandler.AddPerson)
	mux.HandleFunc(fmt.Sprintf("GET %s/persons/{identity}", apiBasePath),
		func(w http.ResponseWriter, r *http.Request) {
			s.personHandler.GetPerson(w, r, r.PathValue("identity"))
		})
	mux.HandleFunc(fmt.Sprintf("PUT %s/persons/{identity}", apiBasePath),
		func(w http.ResponseWriter, r *http.Request) {
			s.personHandler.UpdatePerson(w, r, r.PathValue("identity"))
		})
	mux.HandleFunc(fmt.Sprintf("DELETE %s/persons/{identity}", apiBasePath),
		func(w http.ResponseWriter, r *http.Request) {
			s.personHandler.DeletePerson(w, r, r.PathValue("identity"))
		})
}
