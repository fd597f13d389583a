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

package errors

const errorPrefix = "PDS-"

var (
	// Server error codes

	ADD_PERSON = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while adding person record.",
	}

	GET_PERSON = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching person record.",
	}

	UPDATE_PERSON = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while updating person record.",
	}

	DELETE_PERSON = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while deleting person record.",
	}

	ADD_COLUMN = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while adding column definition.",
	}

	GET_COLUMNS = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching column definitions.",
	}

	UPDATE_COLUMN = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while updating column definition.",
	}

	DELETE_COLUMN = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while deleting column definition.",
	}

	ADD_IMPORT_JOB = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while creating import job.",
	}

	GET_IMPORT_JOB = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while fetching import job.",
	}

	UPDATE_IMPORT_JOB = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while updating import job.",
	}

	APPEND_HISTORY = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while appending history entry.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Unable to initialize database client.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while un-marshalling JSON.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid request payload.",
	}

	UNAUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized.",
		Description: "A valid bearer token is required to access this resource.",
	}

	PERSON_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Person record not found.",
	}

	COLUMN_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Column definition not found.",
	}

	COLUMN_ALREADY_EXISTS = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Column definition already exists.",
	}

	INVALID_COLUMN_DEFINITION = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Invalid column definition.",
	}

	IMPORT_JOB_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Import job not found.",
	}

	EMPTY_IMPORT = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Import submission contains no rows.",
	}

	INVALID_IDENTITY = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Invalid identity number.",
	}
)
