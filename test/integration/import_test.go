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

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dictmodel "github.com/openregistro/person-data-service/internal/dictionary/model"
	dictservice "github.com/openregistro/person-data-service/internal/dictionary/service"
	importmodel "github.com/openregistro/person-data-service/internal/importjob/model"
	importservice "github.com/openregistro/person-data-service/internal/importjob/service"
	personservice "github.com/openregistro/person-data-service/internal/person/service"
	"github.com/openregistro/person-data-service/internal/system/constants"
)

func seedDictionary(t *testing.T) {

	t.Helper()
	dictSvc := dictservice.GetDictionaryService()

	columns := []dictmodel.ColumnDefinition{
		{
			Name:           "rut",
			Type:           constants.IdentityDataType,
			Required:       true,
			ValidationKind: constants.ValidationIdentity,
			DisplayOrder:   1,
		},
		{Name: "nombre", Type: constants.StringDataType, Required: true, DisplayOrder: 2},
		{Name: "email", Type: constants.EmailDataType, DisplayOrder: 3},
	}
	for _, col := range columns {
		err := dictSvc.AddColumnDefinition(col)
		if err != nil {
			// Already seeded by an earlier test.
			existing, getErr := dictSvc.GetColumnDefinitions()
			require.NoError(t, getErr)
			require.NotEmpty(t, existing)
			return
		}
	}
}

func Test_ImportFlow(t *testing.T) {

	requireIntegration(t)
	seedDictionary(t)

	importSvc := importservice.GetImportService()
	personSvc := personservice.GetPersonService()

	rows := []importmodel.RawRow{
		{"rut": "12.345.678-5", "nombre": "Ana", "email": "ana@example.cl"},
		{"rut": "12345678-5", "nombre": "Ana M.", "email": "ana@example.cl"},
		{"rut": "11111111-1", "nombre": "Bob", "email": "not-an-email"},
	}

	job, err := importSvc.Submit(rows, "integration-tester")
	require.NoError(t, err)
	require.Equal(t, constants.JobStatusPending, job.Status)
	require.Equal(t, 3, job.TotalRows)

	var final *importmodel.ImportJob
	require.Eventually(t, func() bool {
		current, err := importSvc.GetImportJob(job.JobId)
		if err != nil {
			return false
		}
		if current.Status != constants.JobStatusCompleted && current.Status != constants.JobStatusFailed {
			return false
		}
		final = current
		return true
	}, 30*time.Second, 200*time.Millisecond)

	require.Equal(t, constants.JobStatusCompleted, final.Status)
	assert.Equal(t, 3, final.ProcessedRows)
	assert.Equal(t, 1, final.Summary.New)
	assert.Equal(t, 1, final.Summary.Updated)
	assert.Equal(t, 1, final.Summary.Invalid)

	require.Len(t, final.RowFailures, 1)
	assert.Equal(t, 3, final.RowFailures[0].RowNumber)

	record, err := personSvc.GetPerson("12345678-5")
	require.NoError(t, err)
	assert.Equal(t, "Ana M.", record.Fields["nombre"])

	_, err = personSvc.GetPerson("11111111-1")
	require.Error(t, err)
}

func Test_ImportIdempotence(t *testing.T) {

	requireIntegration(t)
	seedDictionary(t)

	importSvc := importservice.GetImportService()

	rows := []importmodel.RawRow{
		{"rut": "7654321-6", "nombre": "Carla", "email": "carla@example.cl"},
	}

	runImport := func() *importmodel.ImportJob {
		job, err := importSvc.Submit(rows, "integration-tester")
		require.NoError(t, err)

		var final *importmodel.ImportJob
		require.Eventually(t, func() bool {
			current, err := importSvc.GetImportJob(job.JobId)
			if err != nil || current.CompletedAt == nil {
				return false
			}
			final = current
			return true
		}, 30*time.Second, 200*time.Millisecond)
		return final
	}

	first := runImport()
	require.Equal(t, constants.JobStatusCompleted, first.Status)
	assert.Equal(t, 1, first.Summary.New)

	second := runImport()
	require.Equal(t, constants.JobStatusCompleted, second.Status)
	assert.Equal(t, 1, second.Summary.Unchanged)
	assert.Zero(t, second.Summary.New)
	assert.Zero(t, second.Summary.Updated)
}

func Test_PersonCRUD(t *testing.T) {

	requireIntegration(t)
	seedDictionary(t)

	personSvc := personservice.GetPersonService()

	created, err := personSvc.CreatePerson(map[string]string{
		"rut":    "22.222.222-2",
		"nombre": "Diego",
		"email":  "diego@example.cl",
	}, "integration-tester")
	require.NoError(t, err)
	assert.Equal(t, "22222222-2", created.IdentityKey)

	// Identity formats are interchangeable on lookup.
	fetched, err := personSvc.GetPerson("22.222.222-2")
	require.NoError(t, err)
	assert.Equal(t, "Diego", fetched.Fields["nombre"])

	updated, err := personSvc.UpdatePerson("22222222-2", map[string]string{
		"rut":    "22222222-2",
		"nombre": "Diego A.",
		"email":  "diego@example.cl",
	}, "integration-tester")
	require.NoError(t, err)
	assert.Equal(t, "Diego A.", updated.Fields["nombre"])

	require.NoError(t, personSvc.DeletePerson("22222222-2", "integration-tester"))

	_, err = personSvc.GetPerson("22222222-2")
	require.Error(t, err)
}
