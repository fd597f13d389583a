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

// Package rut validates and formats the Chilean national identity number
// (RUT), a digit body plus a mod-11 check character, used as the natural
// key for person records.
package rut

import (
	"fmt"
	"strings"
)

// checkWeights is the cyclic multiplier sequence applied to the body digits
// from right to left.
var checkWeights = []int{2, 3, 4, 5, 6, 7}

// Validate checks the given raw identity string and returns its canonical
// form "BODY-CHECK" with an uppercase check character. Formatting characters
// (dots, hyphens, spaces) are ignored, so Validate(Format(x)) == Validate(x).
func Validate(raw string) (string, error) {

	stripped := strip(raw)
	if len(stripped) < 7 || len(stripped) > 9 {
		return "", fmt.Errorf("identity number must have between 7 and 9 characters, got %d", len(stripped))
	}

	body := stripped[:len(stripped)-1]
	check := stripped[len(stripped)-1]

	for _, c := range body {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("identity number body must contain only digits: %q", body)
		}
	}
	if check == 'k' {
		check = 'K'
	}
	if check != 'K' && (check < '0' || check > '9') {
		return "", fmt.Errorf("check character must be a digit or 'K', got %q", string(check))
	}

	expected := ExpectedCheckChar(body)
	if check != expected {
		return "", fmt.Errorf("invalid check character %q, expected %q", string(check), string(expected))
	}

	return fmt.Sprintf("%s-%c", body, check), nil
}

// ExpectedCheckChar computes the mod-11 check character for an all-digit body.
func ExpectedCheckChar(body string) byte {

	sum := 0
	for i := 0; i < len(body); i++ {
		digit := int(body[len(body)-1-i] - '0')
		sum += digit * checkWeights[i%len(checkWeights)]
	}

	switch remainder := sum % 11; remainder {
	case 0:
		return '0'
	case 1:
		return 'K'
	default:
		return byte('0' + 11 - remainder)
	}
}

// Format renders a canonical identity with thousands separators, e.g.
// "12345678-5" becomes "12.345.678-5". Presentation only; it never changes
// the validation outcome.
func Format(canonical string) string {

	parts := strings.SplitN(canonical, "-", 2)
	body := parts[0]

	var sb strings.Builder
	for i, c := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(c)
	}
	if len(parts) == 2 {
		sb.WriteByte('-')
		sb.WriteString(parts[1])
	}
	return sb.String()
}

// strip removes every non-alphanumeric character from the input.
func strip(raw string) string {

	var sb strings.Builder
	for _, c := range raw {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
