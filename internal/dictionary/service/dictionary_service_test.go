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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openregistro/person-data-service/internal/dictionary/model"
	"github.com/openregistro/person-data-service/internal/system/constants"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
)

func assertInvalidColumn(t *testing.T, err error) {

	t.Helper()
	require.Error(t, err)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.INVALID_COLUMN_DEFINITION.Code, clientErr.Code)
}

func TestValidateColumnDefinition_Valid(t *testing.T) {

	cases := []model.ColumnDefinition{
		{Name: "nombre", Type: constants.StringDataType},
		{Name: "edad", Type: constants.NumberDataType, MinValue: floatPtr(0), MaxValue: floatPtr(120)},
		{Name: "rut", Type: constants.IdentityDataType, ValidationKind: constants.ValidationIdentity},
		{
			Name:           "region",
			Type:           constants.SelectDataType,
			ValidationKind: constants.ValidationEnumeratedList,
			ValidationRule: `["RM", "V"]`,
		},
		{
			Name:           "codigo",
			Type:           constants.StringDataType,
			ValidationKind: constants.ValidationRegex,
			ValidationRule: `^[A-Z]+$`,
		},
	}

	for _, col := range cases {
		assert.NoError(t, validateColumnDefinition(col), "column %s", col.Name)
	}
}

func TestValidateColumnDefinition_MissingName(t *testing.T) {

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Type: constants.StringDataType,
	}))
}

func TestValidateColumnDefinition_UnknownType(t *testing.T) {

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Name: "misterio",
		Type: "uuid",
	}))
}

func TestValidateColumnDefinition_IdentityRequiresIdentityKind(t *testing.T) {

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Name: "rut",
		Type: constants.IdentityDataType,
	}))
}

func TestValidateColumnDefinition_SelectRequiresValues(t *testing.T) {

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Name:           "region",
		Type:           constants.SelectDataType,
		ValidationKind: constants.ValidationEnumeratedList,
		ValidationRule: "",
	}))

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Name: "region",
		Type: constants.SelectDataType,
	}))
}

func TestValidateColumnDefinition_BadRegex(t *testing.T) {

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Name:           "codigo",
		Type:           constants.StringDataType,
		ValidationKind: constants.ValidationRegex,
		ValidationRule: `[unclosed`,
	}))
}

func TestValidateColumnDefinition_BoundOrdering(t *testing.T) {

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Name:      "nombre",
		Type:      constants.StringDataType,
		MinLength: intPtr(10),
		MaxLength: intPtr(3),
	}))

	assertInvalidColumn(t, validateColumnDefinition(model.ColumnDefinition{
		Name:     "edad",
		Type:     constants.NumberDataType,
		MinValue: floatPtr(100),
		MaxValue: floatPtr(1),
	}))
}
