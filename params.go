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
	"fmt"
	"math/big"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// timestampParamLayout is the wire form for TIMESTAMP parameter values: UTC,
// offset stripped, truncated to whole microseconds.
const timestampParamLayout = "2006-01-02 15:04:05.999999"

// bigNumericScale is the maximum number of fractional digits the service
// accepts for a BIGNUMERIC value.
const bigNumericScale = 38

// paramValue converts a native Go value into its wire value and type tag.
//
// Unrecognized kinds fall back to a STRING conversion rather than failing;
// the service reports a type mismatch if the fallback does not fit the query.
func paramValue(v any) (value any, typ string) {
	switch v := v.(type) {
	case time.Time:
		return v.UTC().Truncate(time.Microsecond).Format(timestampParamLayout), "TIMESTAMP"
	case civil.Date:
		return v.String(), "DATE"
	case civil.Time:
		return v.String(), "TIME"
	case civil.DateTime:
		// No trailing zone marker: DATETIME is a zone-less type.
		return v.String(), "DATETIME"
	case *big.Rat:
		return ratString(v), "BIGNUMERIC"
	case bool:
		return v, "BOOL"
	case float32:
		return float64(v), "FLOAT"
	case float64:
		return v, "FLOAT"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, "INTEGER"
	case string:
		return v, "STRING"
	default:
		return fmt.Sprint(v), "STRING"
	}
}

// ratString renders r as a plain decimal string. Trailing zeros carried by
// the input are not preserved; round-tripped decimals compare equal by
// numeric value, not by string form.
func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	s := strings.TrimRight(r.FloatString(bigNumericScale), "0")
	return strings.TrimSuffix(s, ".")
}

// positionalParameters encodes params into wire query parameters, one per ?
// placeholder in the SQL text, in positional order. The placeholder count is
// not validated locally; a mismatch is reported by the service.
func positionalParameters(params []any) []queryParameter {
	out := make([]queryParameter, 0, len(params))
	for _, p := range params {
		value, typ := paramValue(p)
		out = append(out, queryParameter{
			ParameterType:  queryParameterType{Type: typ},
			ParameterValue: queryParameterValue{Value: value},
		})
	}
	return out
}
