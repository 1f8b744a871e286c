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

package testkit

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	bigquery "github.com/livebook-dev/bigquery-sdk"
	"github.com/lucasepe/codename"
	"github.com/stretchr/testify/require"
)

type TestKit struct {
	t testing.TB

	client    *bigquery.Client
	datasetID string

	tables []string
}

func NewTestKit(t testing.TB) *TestKit {
	projectID := os.Getenv("BIGQUERY_PROJECT_ID")
	token := os.Getenv("BIGQUERY_TOKEN")
	if projectID == "" || token == "" {
		return nil
	}

	datasetID := os.Getenv("BIGQUERY_DATASET_ID")
	if datasetID == "" {
		datasetID = "bigquery_sdk_test"
	}

	return &TestKit{
		t: t,
		client: bigquery.NewClient(&bigquery.Config{
			Endpoint:    os.Getenv("BIGQUERY_ENDPOINT"),
			ProjectID:   projectID,
			TokenSource: bigquery.StaticTokenSource(token),
		}),
		datasetID: datasetID,
	}
}

func (tk *TestKit) Close() {
	ctx := context.Background()

	for _, table := range tk.tables {
		tk.Execute(ctx, fmt.Sprintf("DROP TABLE `%s.%s`", tk.datasetID, table))
	}
}

func (tk *TestKit) Client() *bigquery.Client {
	return tk.client
}

func (tk *TestKit) DatasetID() string {
	return tk.datasetID
}

// RandomName generates a random table name.
func (tk *TestKit) RandomName() string {
	rng, err := codename.DefaultRNG()
	require.NoError(tk.t, err)
	return strings.ReplaceAll(codename.Generate(rng, 10), "-", "_")
}

// NewTable creates a table with the given DDL and registers it for cleanup.
func (tk *TestKit) NewTable(ctx context.Context, tableName string, ddl string) {
	tk.Execute(ctx, ddl)
	tk.tables = append(tk.tables, tableName)
}

// Execute runs a statement and discards its rows.
func (tk *TestKit) Execute(ctx context.Context, sql string) {
	q := tk.client.Query(sql)
	_, err := q.Run(ctx)
	require.NoError(tk.t, err)
}

// Query runs a statement and returns its full result.
func (tk *TestKit) Query(ctx context.Context, sql string, params ...any) *bigquery.Result {
	q := tk.client.Query(sql)
	q.Parameters = params
	result, err := q.Run(ctx)
	require.NoError(tk.t, err)
	return result
}
