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

import "time"

// HistoryEntry is one append-only audit record. Entries derived from a bulk
// import carry the owning job id.
type HistoryEntry struct {
	EntryId        string                 `json:"entry_id" bson:"entry_id"`
	Action         string                 `json:"action" bson:"action"`
	ActorId        string                 `json:"actor_id" bson:"actor_id"`
	Timestamp      time.Time              `json:"timestamp" bson:"timestamp"`
	SubjectId      string                 `json:"subject_id" bson:"subject_id"`
	BeforeSnapshot map[string]interface{} `json:"before_snapshot,omitempty" bson:"before_snapshot,omitempty"`
	AfterSnapshot  map[string]interface{} `json:"after_snapshot,omitempty" bson:"after_snapshot,omitempty"`
	JobId          string                 `json:"job_id,omitempty" bson:"job_id,omitempty"`
}
