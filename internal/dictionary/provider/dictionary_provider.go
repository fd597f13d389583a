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
	"github.com/openregistro/person-data-service/internal/dictionary/service"
)

// DictionaryProviderInterface defines the interface for the dictionary provider.
type DictionaryProviderInterface interface {
	GetDictionaryService() service.DictionaryServiceInterface
}

// DictionaryProvider is the default implementation of the DictionaryProviderInterface.
type DictionaryProvider struct{}

// NewDictionaryProvider creates a new instance of DictionaryProvider.
func NewDictionaryProvider() DictionaryProviderInterface {

	return &DictionaryProvider{}
}

// GetDictionaryService returns the dictionary service instance.
func (dp *DictionaryProvider) GetDictionaryService() service.DictionaryServiceInterface {

	return service.GetDictionaryService()
}
