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
	"context"
	"fmt"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

const arrowFixture = `{
	"kind": "bigquery#queryResponse",
	"jobReference": {"jobId": "job_arrow"},
	"schema": {"fields": [
		{"name": "id", "type": "INTEGER", "mode": "REQUIRED"},
		{"name": "name", "type": "STRING"},
		{"name": "score", "type": "FLOAT"},
		{"name": "active", "type": "BOOLEAN"},
		{"name": "balance", "type": "BIGNUMERIC"},
		{"name": "born", "type": "DATE"},
		{"name": "seen", "type": "TIMESTAMP"},
		{"name": "tags", "type": "STRING", "mode": "REPEATED"},
		{"name": "address", "type": "RECORD", "fields": [
			{"name": "city", "type": "STRING"}
		]}
	]},
	"rows": [
		{"f": [
			{"v": "1"}, {"v": "Ale"}, {"v": "9.5"}, {"v": "true"}, {"v": "1.10"},
			{"v": "1990-04-05"}, {"v": "1700000000.5"},
			{"v": [{"v": "a"}, {"v": "b"}]},
			{"v": {"f": [{"v": "Kraków"}]}}
		]},
		{"f": [
			{"v": "2"}, {"v": null}, {"v": null}, {"v": "false"}, {"v": null},
			{"v": null}, {"v": null},
			{"v": []},
			{"v": null}
		]}
	],
	"totalRows": "2"
}`

func arrowFixtureResult(t *testing.T) *Result {
	t.Helper()
	res, err := decodeQueryResponse(200, []byte(arrowFixture))
	require.NoError(t, err)
	result, err := newResult(context.Background(), NewClient(&Config{ProjectID: "p"}), res, 100)
	require.NoError(t, err)
	return result
}

func TestArrowSchema(t *testing.T) {
	result := arrowFixtureResult(t)

	aschema, err := result.Schema.ArrowSchema()
	require.NoError(t, err)
	require.Equal(t, len(result.Columns), aschema.NumFields())

	require.Equal(t, arrow.PrimitiveTypes.Int64, aschema.Field(0).Type)
	require.False(t, aschema.Field(0).Nullable)
	require.Equal(t, arrow.BinaryTypes.String, aschema.Field(4).Type)
	require.Equal(t, arrow.FixedWidthTypes.Date32, aschema.Field(5).Type)
	require.Equal(t, arrow.FixedWidthTypes.Timestamp_us, aschema.Field(6).Type)
	require.Equal(t, arrow.ListOf(arrow.BinaryTypes.String), aschema.Field(7).Type)
	require.Equal(t, arrow.StructOf(arrow.Field{
		Name: "city", Type: arrow.BinaryTypes.String, Nullable: true,
	}), aschema.Field(8).Type)
}

func TestToArrowBatch(t *testing.T) {
	result := arrowFixtureResult(t)

	record, err := result.ToArrowBatch()
	require.NoError(t, err)
	defer record.Release()

	require.EqualValues(t, 2, record.NumRows())
	require.EqualValues(t, 9, record.NumCols())
	snaps.MatchSnapshot(t, fmt.Sprintf("%v", record))
}
