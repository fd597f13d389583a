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

package authn

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openregistro/person-data-service/internal/system/config"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
)

// ValidateRequestAndGetActor validates the Authorization: Bearer token from the
// HTTP request and returns the authenticated actor identity (the `sub` claim).
func ValidateRequestAndGetActor(r *http.Request) (string, error) {

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", unauthorizedError()
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := parseAndVerifyClaims(token)
	if err != nil {
		return "", unauthorizedError()
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		log.GetLogger().Debug("Token does not carry a sub claim.")
		return "", unauthorizedError()
	}
	return sub, nil
}

// parseAndVerifyClaims verifies the token signature against the configured
// shared secret and checks the expected audience.
func parseAndVerifyClaims(tokenString string) (jwt.MapClaims, error) {

	cfg := config.GetPDSRuntime().Config
	logger := log.GetLogger()

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Auth.JWTSecret), nil
	}, jwt.WithAudience(cfg.Auth.Audience))
	if err != nil {
		logger.Debug("Error occurred when validating the JWT token.", log.Error(err))
		return nil, err
	}
	if !parsed.Valid {
		logger.Debug("JWT token is not valid.")
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func unauthorizedError() error {

	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UNAUTHORIZED.Code,
		Message:     errors2.UNAUTHORIZED.Message,
		Description: errors2.UNAUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
