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
	"time"

	"github.com/google/uuid"

	"github.com/openregistro/person-data-service/internal/history/model"
	"github.com/openregistro/person-data-service/internal/history/store"
	"github.com/openregistro/person-data-service/internal/system/log"
)

type HistoryServiceInterface interface {
	Append(entry model.HistoryEntry) error
	AppendAsync(entry model.HistoryEntry)
}

// HistoryService is the default implementation of the HistoryServiceInterface.
type HistoryService struct {
	persist func(entry model.HistoryEntry) error
}

// GetHistoryService creates a new instance of HistoryService.
func GetHistoryService() HistoryServiceInterface {

	return &HistoryService{persist: store.AppendHistoryEntry}
}

// Append persists a single history entry, assigning id and timestamp when
// the caller left them unset.
func (s *HistoryService) Append(entry model.HistoryEntry) error {

	if entry.EntryId == "" {
		entry.EntryId = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return s.persist(entry)
}

// AppendAsync records an entry without blocking the caller. The write is
// dispatched on its own goroutine; a stalled history store never holds up
// the operation that produced the entry. Failures are reported in the log.
func (s *HistoryService) AppendAsync(entry model.HistoryEntry) {

	go func() {
		if err := s.Append(entry); err != nil {
			log.GetLogger().Error("Failed to append history entry", log.Error(err),
				log.String("action", entry.Action), log.String("subject", entry.SubjectId))
		}
	}()
}
