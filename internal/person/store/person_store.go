package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/openregistro/person-data-service/internal/person/model"
	"github.com/openregistro/person-data-service/internal/system/database/provider"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
)

// scanPersonRow maps one result row onto a PersonRecord. Fields are stored
// as JSONB and unmarshalled separately.
func scanPersonRow(row map[string]interface{}) (model.PersonRecord, error) {

	var record model.PersonRecord

	record.IdentityKey = row["identity_key"].(string)
	record.UpdatedBy = row["updated_by"].(string)
	if v, ok := row["created_at"].(time.Time); ok {
		record.CreatedAt = v
	}
	if v, ok := row["updated_at"].(time.Time); ok {
		record.UpdatedAt = v
	}

	fieldsJSON, _ := row["fields"].([]byte)
	if err := json.Unmarshal(fieldsJSON, &record.Fields); err != nil {
		errorMsg := "Failed to unmarshal person fields"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return model.PersonRecord{}, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: errorMsg,
		}, err)
	}
	return record, nil
}

// FindByIdentity retrieves a person record by its canonical identity key,
// or nil when no record exists.
func FindByIdentity(identityKey string) (*model.PersonRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching a person record"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PERSON.Code,
			Message:     errors2.GET_PERSON.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		SELECT identity_key, fields, created_at, updated_at, updated_by
		FROM person_records
		WHERE identity_key = $1;`

	rows, err := dbClient.ExecuteQuery(query, identityKey)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch person record: %s", identityKey)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PERSON.Code,
			Message:     errors2.GET_PERSON.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	record, err := scanPersonRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetPersonRecords lists person records ordered by identity key.
func GetPersonRecords(limit, offset int) ([]model.PersonRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for listing person records"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PERSON.Code,
			Message:     errors2.GET_PERSON.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		SELECT identity_key, fields, created_at, updated_at, updated_by
		FROM person_records
		ORDER BY identity_key
		LIMIT $1 OFFSET $2;`

	rows, err := dbClient.ExecuteQuery(query, limit, offset)
	if err != nil {
		errorMsg := "Failed to list person records"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PERSON.Code,
			Message:     errors2.GET_PERSON.Message,
			Description: errorMsg,
		}, err)
	}

	records := make([]model.PersonRecord, 0, len(rows))
	for _, row := range rows {
		record, err := scanPersonRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// UpsertPersonRecord inserts or updates a person record atomically on its
// identity key and returns the committed record.
func UpsertPersonRecord(record model.PersonRecord) (*model.PersonRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for upserting a person record"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_PERSON.Code,
			Message:     errors2.UPDATE_PERSON.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	fieldsJSON, err := json.Marshal(record.Fields)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARSHAL_JSON.Code,
			Message:     errors2.MARSHAL_JSON.Message,
			Description: "Failed to marshal person fields",
		}, err)
	}

	query := `
		INSERT INTO person_records (identity_key, fields, created_at, updated_at, updated_by)
		VALUES ($1, $2, NOW(), NOW(), $3)
		ON CONFLICT (identity_key) DO UPDATE
		SET fields = EXCLUDED.fields, updated_at = NOW(), updated_by = EXCLUDED.updated_by
		RETURNING identity_key, fields, created_at, updated_at, updated_by;`

	rows, err := dbClient.ExecuteQuery(query, record.IdentityKey, fieldsJSON, record.UpdatedBy)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to upsert person record: %s", record.IdentityKey)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_PERSON.Code,
			Message:     errors2.UPDATE_PERSON.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_PERSON.Code,
			Message:     errors2.UPDATE_PERSON.Message,
			Description: "Upsert returned no committed record",
		}, nil)
	}

	committed, err := scanPersonRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &committed, nil
}

// DeletePersonRecord removes a person record by identity key.
func DeletePersonRecord(identityKey string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for deleting a person record"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_PERSON.Code,
			Message:     errors2.DELETE_PERSON.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `DELETE FROM person_records WHERE identity_key = $1;`
	_, err = dbClient.ExecuteQuery(query, identityKey)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete person record: %s", identityKey)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_PERSON.Code,
			Message:     errors2.DELETE_PERSON.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}
