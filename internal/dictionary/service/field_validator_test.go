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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openregistro/person-data-service/internal/dictionary/model"
	"github.com/openregistro/person-data-service/internal/system/constants"
	"github.com/openregistro/person-data-service/internal/system/log"
)

func TestMain(m *testing.M) {

	_ = log.Init("error")
	os.Exit(m.Run())
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestValidateField_EmptyValues(t *testing.T) {

	optional := model.ColumnDefinition{Name: "apodo", Type: constants.StringDataType}
	value, err := ValidateField("   ", optional)
	require.NoError(t, err)
	assert.Nil(t, value)

	required := model.ColumnDefinition{Name: "nombre", Type: constants.StringDataType, Required: true}
	_, err = ValidateField("", required)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field")
}

func TestValidateField_DefaultSubstitution(t *testing.T) {

	col := model.ColumnDefinition{
		Name:         "pais",
		Type:         constants.StringDataType,
		Required:     true,
		DefaultValue: "Chile",
	}

	value, err := ValidateField("", col)
	require.NoError(t, err)
	assert.Equal(t, "Chile", value)

	// An explicit value wins over the default.
	value, err = ValidateField("Argentina", col)
	require.NoError(t, err)
	assert.Equal(t, "Argentina", value)
}

func TestValidateField_Number(t *testing.T) {

	col := model.ColumnDefinition{
		Name:     "edad",
		Type:     constants.NumberDataType,
		MinValue: floatPtr(0),
		MaxValue: floatPtr(120),
	}

	value, err := ValidateField("42", col)
	require.NoError(t, err)
	assert.Equal(t, 42.0, value)

	value, err = ValidateField("3.14", col)
	require.NoError(t, err)
	assert.Equal(t, 3.14, value)

	_, err = ValidateField("cuarenta", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")

	_, err = ValidateField("-1", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below the minimum")

	_, err = ValidateField("130", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "above the maximum")
}

func TestValidateField_Boolean(t *testing.T) {

	col := model.ColumnDefinition{Name: "activo", Type: constants.BooleanDataType}

	for _, raw := range []string{"true", "1", "sí", "si", "yes", "SI", "Yes"} {
		value, err := ValidateField(raw, col)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, true, value, "raw %q", raw)
	}
	for _, raw := range []string{"false", "0", "no", "NO"} {
		value, err := ValidateField(raw, col)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, false, value, "raw %q", raw)
	}

	_, err := ValidateField("maybe", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a recognized boolean")
}

func TestValidateField_DateNormalization(t *testing.T) {

	col := model.ColumnDefinition{Name: "fecha_nacimiento", Type: constants.DateDataType}

	for _, raw := range []string{"1990-05-17", "17-05-1990", "17/05/1990", "1990/05/17"} {
		value, err := ValidateField(raw, col)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, "1990-05-17", value, "raw %q", raw)
	}

	_, err := ValidateField("31/02/1990", col)
	require.Error(t, err)

	_, err = ValidateField("mañana", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid calendar date")
}

func TestValidateField_Email(t *testing.T) {

	col := model.ColumnDefinition{Name: "email", Type: constants.EmailDataType}

	value, err := ValidateField("ana.soto@example.cl", col)
	require.NoError(t, err)
	assert.Equal(t, "ana.soto@example.cl", value)

	for _, raw := range []string{"not-an-email", "a@b", "@example.cl", "ana soto@example.cl"} {
		_, err := ValidateField(raw, col)
		require.Error(t, err, "raw %q", raw)
	}
}

func TestValidateField_Phone(t *testing.T) {

	col := model.ColumnDefinition{Name: "telefono", Type: constants.PhoneDataType}

	value, err := ValidateField("+56 9 1234 5678", col)
	require.NoError(t, err)
	assert.Equal(t, "+56912345678", value)

	value, err = ValidateField("(2) 2345-6789", col)
	require.NoError(t, err)
	assert.Equal(t, "223456789", value)

	_, err = ValidateField("123456", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 7 and 15 digits")

	_, err = ValidateField("+56 9 abcd 5678", col)
	require.Error(t, err)
}

func TestValidateField_Select(t *testing.T) {

	col := model.ColumnDefinition{
		Name:           "region",
		Type:           constants.SelectDataType,
		ValidationKind: constants.ValidationEnumeratedList,
		ValidationRule: `["RM", "V", "VIII"]`,
	}

	value, err := ValidateField("RM", col)
	require.NoError(t, err)
	assert.Equal(t, "RM", value)

	_, err = ValidateField("XV", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RM, V, VIII")
}

func TestValidateField_SelectLegacyCommaRule(t *testing.T) {

	col := model.ColumnDefinition{
		Name:           "estado_civil",
		Type:           constants.SelectDataType,
		ValidationKind: constants.ValidationEnumeratedList,
		ValidationRule: "soltero, casado, viudo",
	}

	value, err := ValidateField("casado", col)
	require.NoError(t, err)
	assert.Equal(t, "casado", value)
}

func TestValidateField_Identity(t *testing.T) {

	col := model.ColumnDefinition{
		Name:           "rut",
		Type:           constants.IdentityDataType,
		ValidationKind: constants.ValidationIdentity,
	}

	value, err := ValidateField("12.345.678-5", col)
	require.NoError(t, err)
	assert.Equal(t, "12345678-5", value)

	_, err = ValidateField("12.345.678-0", col)
	require.Error(t, err)
}

func TestValidateField_StringRules(t *testing.T) {

	col := model.ColumnDefinition{
		Name:      "nombre",
		Type:      constants.StringDataType,
		MinLength: intPtr(3),
		MaxLength: intPtr(10),
	}

	value, err := ValidateField("Ana", col)
	require.NoError(t, err)
	assert.Equal(t, "Ana", value)

	_, err = ValidateField("Al", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")

	_, err = ValidateField("Maximiliano", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 10 characters")
}

func TestValidateField_StringRegex(t *testing.T) {

	col := model.ColumnDefinition{
		Name:           "codigo",
		Type:           constants.StringDataType,
		ValidationKind: constants.ValidationRegex,
		ValidationRule: `^[A-Z]{3}-\d{4}$`,
	}

	value, err := ValidateField("ABC-1234", col)
	require.NoError(t, err)
	assert.Equal(t, "ABC-1234", value)

	_, err = ValidateField("abc-1234", col)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match the pattern")
}

func TestDecodeAllowedValues(t *testing.T) {

	assert.Equal(t, []string{"a", "b"}, DecodeAllowedValues(`["a","b"]`))
	assert.Equal(t, []string{"a", "b"}, DecodeAllowedValues("a, b"))
	assert.Nil(t, DecodeAllowedValues(""))
	assert.Nil(t, DecodeAllowedValues("   "))
}
