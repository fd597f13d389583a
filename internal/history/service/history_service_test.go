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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openregistro/person-data-service/internal/history/model"
	"github.com/openregistro/person-data-service/internal/system/constants"
	"github.com/openregistro/person-data-service/internal/system/log"
)

func TestMain(m *testing.M) {

	_ = log.Init("error")
	os.Exit(m.Run())
}

func TestAppend_AssignsIdAndTimestamp(t *testing.T) {

	var recorded model.HistoryEntry
	svc := &HistoryService{persist: func(entry model.HistoryEntry) error {
		recorded = entry
		return nil
	}}

	err := svc.Append(model.HistoryEntry{
		Action:    constants.HistoryActionCreate,
		ActorId:   "tester",
		SubjectId: "12345678-5",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, recorded.EntryId)
	assert.False(t, recorded.Timestamp.IsZero())
	assert.Equal(t, constants.HistoryActionCreate, recorded.Action)
}

func TestAppend_KeepsCallerSuppliedIdAndTimestamp(t *testing.T) {

	var recorded model.HistoryEntry
	svc := &HistoryService{persist: func(entry model.HistoryEntry) error {
		recorded = entry
		return nil
	}}

	when := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	err := svc.Append(model.HistoryEntry{
		EntryId:   "fixed-id",
		Timestamp: when,
		Action:    constants.HistoryActionDelete,
	})
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", recorded.EntryId)
	assert.Equal(t, when, recorded.Timestamp)
}

// AppendAsync must return even while the store is stalled; the write lands
// once the store recovers.
func TestAppendAsync_DoesNotBlockOnStalledStore(t *testing.T) {

	release := make(chan struct{})
	var mu sync.Mutex
	var recorded []model.HistoryEntry

	svc := &HistoryService{persist: func(entry model.HistoryEntry) error {
		<-release
		mu.Lock()
		recorded = append(recorded, entry)
		mu.Unlock()
		return nil
	}}

	returned := make(chan struct{})
	go func() {
		svc.AppendAsync(model.HistoryEntry{
			Action:    constants.HistoryActionBulkImport,
			SubjectId: "job-1",
		})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("AppendAsync blocked on a stalled store")
	}

	close(release)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(recorded) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, constants.HistoryActionBulkImport, recorded[0].Action)
}
