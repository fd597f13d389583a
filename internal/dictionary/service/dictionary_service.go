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
	"regexp"

	"github.com/openregistro/person-data-service/internal/dictionary/model"
	colstr "github.com/openregistro/person-data-service/internal/dictionary/store"
	"github.com/openregistro/person-data-service/internal/system/constants"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
)

type DictionaryServiceInterface interface {
	GetDictionarySnapshot() (model.ColumnDictionary, error)
	GetColumnDefinitions() ([]model.ColumnDefinition, error)
	AddColumnDefinition(col model.ColumnDefinition) error
	UpdateColumnDefinition(col model.ColumnDefinition) error
	DeleteColumnDefinition(name string) error
}

// DictionaryService is the default implementation of the DictionaryServiceInterface.
type DictionaryService struct{}

// GetDictionaryService creates a new instance of DictionaryService.
func GetDictionaryService() DictionaryServiceInterface {

	return &DictionaryService{}
}

// GetDictionarySnapshot loads the full column dictionary once. Callers hold
// the returned snapshot for the duration of an import job; it is never
// re-fetched mid-job.
func (s *DictionaryService) GetDictionarySnapshot() (model.ColumnDictionary, error) {

	columns, err := colstr.GetColumnDefinitions()
	if err != nil {
		return model.ColumnDictionary{}, err
	}
	return model.ColumnDictionary{Columns: columns}, nil
}

// GetColumnDefinitions returns every column definition in display order.
func (s *DictionaryService) GetColumnDefinitions() ([]model.ColumnDefinition, error) {

	return colstr.GetColumnDefinitions()
}

// AddColumnDefinition validates and persists a new column definition.
func (s *DictionaryService) AddColumnDefinition(col model.ColumnDefinition) error {

	if err := validateColumnDefinition(col); err != nil {
		return err
	}

	existing, err := colstr.GetColumnDefinitionByName(col.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.COLUMN_ALREADY_EXISTS.Code,
			Message:     errors2.COLUMN_ALREADY_EXISTS.Message,
			Description: fmt.Sprintf("Column '%s' already exists", col.Name),
		}, http.StatusConflict)
	}

	return colstr.InsertColumnDefinition(col)
}

// UpdateColumnDefinition validates and updates an existing column definition.
// Changing the type of a column with existing data requires re-validating
// historical records; that governance step sits outside this service.
func (s *DictionaryService) UpdateColumnDefinition(col model.ColumnDefinition) error {

	if err := validateColumnDefinition(col); err != nil {
		return err
	}

	existing, err := colstr.GetColumnDefinitionByName(col.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		return columnNotFoundError(col.Name)
	}

	return colstr.UpdateColumnDefinition(col)
}

// DeleteColumnDefinition removes a column definition by name.
func (s *DictionaryService) DeleteColumnDefinition(name string) error {

	existing, err := colstr.GetColumnDefinitionByName(name)
	if err != nil {
		return err
	}
	if existing == nil {
		return columnNotFoundError(name)
	}

	return colstr.DeleteColumnDefinition(name)
}

// validateColumnDefinition enforces the closed set of column types and the
// type/kind combinations a definition may carry.
func validateColumnDefinition(col model.ColumnDefinition) error {

	if col.Name == "" {
		return invalidColumnError("Column name is required")
	}
	if !constants.AllowedColumnTypes[col.Type] {
		return invalidColumnError(fmt.Sprintf("Invalid column type: %s", col.Type))
	}
	if col.ValidationKind == "" {
		col.ValidationKind = constants.ValidationNone
	}
	if !constants.AllowedValidationKinds[col.ValidationKind] {
		return invalidColumnError(fmt.Sprintf("Invalid validation kind: %s", col.ValidationKind))
	}

	switch col.Type {
	case constants.IdentityDataType:
		if col.ValidationKind != constants.ValidationIdentity {
			return invalidColumnError("Identity columns must use the identity validation kind")
		}
	case constants.SelectDataType:
		if col.ValidationKind != constants.ValidationEnumeratedList {
			return invalidColumnError("Select columns must use the enumeratedList validation kind")
		}
		if len(DecodeAllowedValues(col.ValidationRule)) == 0 {
			return invalidColumnError("Select columns require a non-empty list of allowed values")
		}
	}

	if col.ValidationKind == constants.ValidationRegex {
		if _, err := regexp.Compile(col.ValidationRule); err != nil {
			return invalidColumnError(fmt.Sprintf("Invalid validation pattern: %v", err))
		}
	}

	if col.MinLength != nil && col.MaxLength != nil && *col.MinLength > *col.MaxLength {
		return invalidColumnError("min_length cannot exceed max_length")
	}
	if col.MinValue != nil && col.MaxValue != nil && *col.MinValue > *col.MaxValue {
		return invalidColumnError("min_value cannot exceed max_value")
	}
	return nil
}

func invalidColumnError(description string) error {

	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_COLUMN_DEFINITION.Code,
		Message:     errors2.INVALID_COLUMN_DEFINITION.Message,
		Description: description,
	}, http.StatusBadRequest)
}

func columnNotFoundError(name string) error {

	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.COLUMN_NOT_FOUND.Code,
		Message:     errors2.COLUMN_NOT_FOUND.Message,
		Description: fmt.Sprintf("Column '%s' does not exist", name),
	}, http.StatusNotFound)
}
