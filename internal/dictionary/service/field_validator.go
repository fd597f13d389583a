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
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openregistro/person-data-service/internal/dictionary/model"
	"github.com/openregistro/person-data-service/internal/rut"
	"github.com/openregistro/person-data-service/internal/system/constants"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Date layouts accepted on input. Values are always normalized to ISO.
	dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02"}

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// Boolean vocabulary recognized on import.
var booleanValues = map[string]bool{
	"true": true, "1": true, "sí": true, "si": true, "yes": true,
	"false": false, "0": false, "no": false,
}

// ValidateField validates and normalizes one raw cell value against one
// column definition. It is a pure function; the first failing rule for a
// cell reports the single error returned.
//
// Normalized representations are: float64 for number, bool for boolean, an
// ISO calendar date string for date, and strings for everything else. Empty
// values succeed with nil unless the column is required.
func ValidateField(raw string, col model.ColumnDefinition) (interface{}, error) {

	value := strings.TrimSpace(raw)
	if value == "" && col.DefaultValue != "" {
		value = col.DefaultValue
	}
	if value == "" {
		if col.Required {
			return nil, fmt.Errorf("missing required field")
		}
		return nil, nil
	}

	switch col.Type {
	case constants.NumberDataType:
		return validateNumber(value, col)
	case constants.BooleanDataType:
		return validateBoolean(value)
	case constants.DateDataType:
		return validateDate(value)
	case constants.EmailDataType:
		return validateEmail(value)
	case constants.PhoneDataType:
		return validatePhone(value)
	case constants.SelectDataType:
		return validateSelect(value, col)
	case constants.IdentityDataType:
		canonical, err := rut.Validate(value)
		if err != nil {
			return nil, err
		}
		return canonical, nil
	default:
		return validateString(value, col)
	}
}

func validateNumber(value string, col model.ColumnDefinition) (interface{}, error) {

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("value %q is not a number", value)
	}
	if col.MinValue != nil && parsed < *col.MinValue {
		return nil, fmt.Errorf("value %v is below the minimum %v", parsed, *col.MinValue)
	}
	if col.MaxValue != nil && parsed > *col.MaxValue {
		return nil, fmt.Errorf("value %v is above the maximum %v", parsed, *col.MaxValue)
	}
	return parsed, nil
}

func validateBoolean(value string) (interface{}, error) {

	normalized, ok := booleanValues[strings.ToLower(value)]
	if !ok {
		return nil, fmt.Errorf("value %q is not a recognized boolean", value)
	}
	return normalized, nil
}

func validateDate(value string) (interface{}, error) {

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}
	return nil, fmt.Errorf("value %q is not a valid calendar date", value)
}

func validateEmail(value string) (interface{}, error) {

	if !emailPattern.MatchString(value) {
		return nil, fmt.Errorf("value %q is not a valid email address", value)
	}
	return value, nil
}

func validatePhone(value string) (interface{}, error) {

	digits := value
	prefix := ""
	if strings.HasPrefix(digits, "+") {
		prefix = "+"
		digits = digits[1:]
	}
	digits = phoneSeparators.Replace(digits)
	if len(digits) < 7 || len(digits) > 15 {
		return nil, fmt.Errorf("phone number must have between 7 and 15 digits")
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("value %q is not a valid phone number", value)
		}
	}
	return prefix + digits, nil
}

func validateSelect(value string, col model.ColumnDefinition) (interface{}, error) {

	allowed := DecodeAllowedValues(col.ValidationRule)
	for _, candidate := range allowed {
		if candidate == value {
			return value, nil
		}
	}
	return nil, fmt.Errorf("value %q is not one of the allowed values: %s",
		value, strings.Join(allowed, ", "))
}

func validateString(value string, col model.ColumnDefinition) (interface{}, error) {

	if col.MinLength != nil && len(value) < *col.MinLength {
		return nil, fmt.Errorf("value must have at least %d characters", *col.MinLength)
	}
	if col.MaxLength != nil && len(value) > *col.MaxLength {
		return nil, fmt.Errorf("value must have at most %d characters", *col.MaxLength)
	}
	if col.ValidationKind == constants.ValidationRegex && col.ValidationRule != "" {
		pattern, err := regexp.Compile(col.ValidationRule)
		if err != nil {
			return nil, fmt.Errorf("column has an invalid validation pattern %q", col.ValidationRule)
		}
		if !pattern.MatchString(value) {
			return nil, fmt.Errorf("value %q does not match the pattern %q", value, col.ValidationRule)
		}
	}
	return value, nil
}

// DecodeAllowedValues decodes the enumerated list of a select column. The
// rule is stored as a JSON array, with a legacy fallback of comma-separated
// plain text.
func DecodeAllowedValues(rule string) []string {

	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil
	}

	var values []string
	if err := json.Unmarshal([]byte(trimmed), &values); err == nil {
		return values
	}

	// Legacy format: comma-separated plain text.
	parts := strings.Split(trimmed, ",")
	values = make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}
