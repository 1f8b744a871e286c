/*
 * Copyright 2025 Livebook Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bigquery

import (
	"encoding/json"
	"fmt"
	"io"
)

// UnsupportedValueError is returned when a result cell carries a value the
// codec refuses to decode. Today this is only the non-finite FLOAT sentinels
// "NaN", "Infinity" and "-Infinity".
type UnsupportedValueError struct {
	// Value is the raw wire value that could not be decoded.
	Value string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("bigquery: unsupported value: %q", e.Value)
}

// RawResponse is returned when the server replies with a body that does not
// match the expected query-response shape, including service error payloads.
// The client does not interpret such bodies; they are passed through
// unmodified for the caller to inspect.
type RawResponse struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Body is the unmodified response body.
	Body json.RawMessage
}

func (e *RawResponse) Error() string {
	return fmt.Sprintf("bigquery: unexpected response (%d): %s", e.StatusCode, string(e.Body))
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
