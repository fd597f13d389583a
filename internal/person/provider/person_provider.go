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

package provider

import (
	"github.com/openregistro/person-data-service/internal/person/service"
)

// PersonProviderInterface defines the interface for the person provider.
type PersonProviderInterface interface {
	GetPersonService() service.PersonServiceInterface
}

// PersonProvider is the default implementation of the PersonProviderInterface.
type PersonProvider struct{}

// NewPersonProvider creates a new instance of PersonProvider.
func NewPersonProvider() PersonProviderInterface {

	return &PersonProvider{}
}

// GetPersonService returns the person service instance.
func (pp *PersonProvider) GetPersonService() service.PersonServiceInterface {

	return service.GetPersonService()
}
