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

// RawRow is one uploaded row keyed by column name, values as received.
type RawRow map[string]string

// RowError is a single validation or commit failure of one column of a row.
// Column is empty for row-level failures.
type RowError struct {
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// FieldDiff records one changed column of a matched row.
type FieldDiff struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// RowOutcome is the reconciliation verdict for one row. Fields holds the
// normalized values ready to commit; Previous holds the matched record's
// values for rows classified as updated.
type RowOutcome struct {
	RowNumber      int                    `json:"row_number"`
	Classification string                 `json:"classification"`
	IdentityKey    string                 `json:"identity_key,omitempty"`
	Fields         map[string]interface{} `json:"-"`
	Previous       map[string]interface{} `json:"-"`
	Diffs          map[string]FieldDiff   `json:"diffs,omitempty"`
	Errors         []RowError             `json:"errors,omitempty"`
}
