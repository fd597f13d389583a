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

package model

import (
	"github.com/openregistro/person-data-service/internal/system/constants"
)

// ColumnDefinition describes one importable/editable field of a person
// record. Name is immutable once records reference it.
type ColumnDefinition struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Required       bool     `json:"required"`
	ValidationKind string   `json:"validation_kind"`
	ValidationRule string   `json:"validation_rule,omitempty"`
	MinLength      *int     `json:"min_length,omitempty"`
	MaxLength      *int     `json:"max_length,omitempty"`
	MinValue       *float64 `json:"min_value,omitempty"`
	MaxValue       *float64 `json:"max_value,omitempty"`
	DefaultValue   string   `json:"default_value,omitempty"`
	DisplayOrder   int      `json:"display_order"`
}

// ColumnDictionary is an ordered, immutable snapshot of column definitions.
// A snapshot is loaded once per import job so that concurrent dictionary
// edits never affect an in-flight batch.
type ColumnDictionary struct {
	Columns []ColumnDefinition
}

// IdentityColumn returns the first identity-typed column of the dictionary,
// or nil when the dictionary defines none.
func (d *ColumnDictionary) IdentityColumn() *ColumnDefinition {
	for i := range d.Columns {
		if d.Columns[i].Type == constants.IdentityDataType {
			return &d.Columns[i]
		}
	}
	return nil
}
