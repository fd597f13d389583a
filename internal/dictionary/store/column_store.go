package store

import (
	"fmt"

	"github.com/openregistro/person-data-service/internal/dictionary/model"
	"github.com/openregistro/person-data-service/internal/system/database/provider"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
)

// scanColumnRow maps one result row onto a ColumnDefinition.
func scanColumnRow(row map[string]interface{}) model.ColumnDefinition {

	col := model.ColumnDefinition{
		Name:           row["name"].(string),
		Type:           row["data_type"].(string),
		Required:       row["required"].(bool),
		ValidationKind: row["validation_kind"].(string),
	}
	if v, ok := row["validation_rule"].(string); ok {
		col.ValidationRule = v
	}
	if v, ok := row["min_length"].(int64); ok {
		length := int(v)
		col.MinLength = &length
	}
	if v, ok := row["max_length"].(int64); ok {
		length := int(v)
		col.MaxLength = &length
	}
	if v, ok := row["min_value"].(float64); ok {
		col.MinValue = &v
	}
	if v, ok := row["max_value"].(float64); ok {
		col.MaxValue = &v
	}
	if v, ok := row["default_value"].(string); ok {
		col.DefaultValue = v
	}
	if v, ok := row["display_order"].(int64); ok {
		col.DisplayOrder = int(v)
	}
	return col
}

// GetColumnDefinitions retrieves every column definition in display order.
func GetColumnDefinitions() ([]model.ColumnDefinition, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching column definitions"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_COLUMNS.Code,
			Message:     errors2.GET_COLUMNS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		SELECT name, data_type, required, validation_kind, validation_rule,
		       min_length, max_length, min_value, max_value, default_value, display_order
		FROM column_definitions
		ORDER BY display_order, name;`

	rows, err := dbClient.ExecuteQuery(query)
	if err != nil {
		errorMsg := "Failed to fetch column definitions"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_COLUMNS.Code,
			Message:     errors2.GET_COLUMNS.Message,
			Description: errorMsg,
		}, err)
	}

	columns := make([]model.ColumnDefinition, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, scanColumnRow(row))
	}
	return columns, nil
}

// GetColumnDefinitionByName retrieves a single column definition, or nil when
// it does not exist.
func GetColumnDefinitionByName(name string) (*model.ColumnDefinition, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching a column definition"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_COLUMNS.Code,
			Message:     errors2.GET_COLUMNS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		SELECT name, data_type, required, validation_kind, validation_rule,
		       min_length, max_length, min_value, max_value, default_value, display_order
		FROM column_definitions
		WHERE name = $1;`

	rows, err := dbClient.ExecuteQuery(query, name)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch column definition: %s", name)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_COLUMNS.Code,
			Message:     errors2.GET_COLUMNS.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := scanColumnRow(rows[0])
	return &col, nil
}

// InsertColumnDefinition inserts a new column definition.
func InsertColumnDefinition(col model.ColumnDefinition) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for adding a column definition"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_COLUMN.Code,
			Message:     errors2.ADD_COLUMN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		INSERT INTO column_definitions (
			name, data_type, required, validation_kind, validation_rule,
			min_length, max_length, min_value, max_value, default_value, display_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err = dbClient.ExecuteQuery(query,
		col.Name, col.Type, col.Required, col.ValidationKind, col.ValidationRule,
		col.MinLength, col.MaxLength, col.MinValue, col.MaxValue, col.DefaultValue, col.DisplayOrder)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to insert column definition: %s", col.Name)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_COLUMN.Code,
			Message:     errors2.ADD_COLUMN.Message,
			Description: errorMsg,
		}, err)
	}
	logger.Info("Column definition added successfully: " + col.Name)
	return nil
}

// UpdateColumnDefinition updates an existing column definition by name.
// The name itself is immutable.
func UpdateColumnDefinition(col model.ColumnDefinition) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for updating a column definition"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_COLUMN.Code,
			Message:     errors2.UPDATE_COLUMN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		UPDATE column_definitions
		SET data_type = $2, required = $3, validation_kind = $4, validation_rule = $5,
		    min_length = $6, max_length = $7, min_value = $8, max_value = $9,
		    default_value = $10, display_order = $11
		WHERE name = $1;`

	_, err = dbClient.ExecuteQuery(query,
		col.Name, col.Type, col.Required, col.ValidationKind, col.ValidationRule,
		col.MinLength, col.MaxLength, col.MinValue, col.MaxValue, col.DefaultValue, col.DisplayOrder)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update column definition: %s", col.Name)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_COLUMN.Code,
			Message:     errors2.UPDATE_COLUMN.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// DeleteColumnDefinition removes a column definition by name.
func DeleteColumnDefinition(name string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for deleting a column definition"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_COLUMN.Code,
			Message:     errors2.DELETE_COLUMN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `DELETE FROM column_definitions WHERE name = $1;`
	_, err = dbClient.ExecuteQuery(query, name)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete column definition: %s", name)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_COLUMN.Code,
			Message:     errors2.DELETE_COLUMN.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}
