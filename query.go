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
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Query is a SQL query to run against the BigQuery service.
type Query struct {
	c *Client

	sql string

	// Parameters are bound positionally to the query's ? placeholders.
	Parameters []any
	// DefaultDatasetID overrides Config.DefaultDatasetID for this query.
	// An empty value sends no default dataset.
	DefaultDatasetID string
	// UseLegacySQL opts this query into the legacy SQL dialect.
	UseLegacySQL bool
	// MaxResults is the result page size for this query.
	MaxResults uint32
	// TimeoutMs is the server-side completion hint for this query.
	TimeoutMs uint32
	// Labels are attached to the query job.
	Labels map[string]string
}

// Query creates a new query with the given SQL text. Option fields are
// initialized from the client configuration and may be adjusted before Run.
func (c *Client) Query(sql string) *Query {
	return &Query{
		c:                c,
		sql:              sql,
		DefaultDatasetID: c.config.DefaultDatasetID,
		UseLegacySQL:     c.config.UseLegacySQL,
		MaxResults:       c.config.MaxResults,
		TimeoutMs:        c.config.TimeoutMs,
	}
}

// buildRequest resolves the query into the wire request body. It is a pure
// transform; the request ID is stamped separately at submit time.
func (q *Query) buildRequest() *queryRequest {
	req := &queryRequest{
		Query:        q.sql,
		UseLegacySQL: q.UseLegacySQL,
		MaxResults:   q.MaxResults,
		TimeoutMs:    q.TimeoutMs,
		Labels:       q.Labels,
	}
	if q.DefaultDatasetID != "" {
		req.DefaultDataset = &datasetReference{DatasetID: q.DefaultDatasetID}
	}
	if len(q.Parameters) > 0 {
		req.ParameterMode = parameterModePositional
		req.QueryParameters = positionalParameters(q.Parameters)
	}
	return req
}

// Run submits the query and returns the decoded first page wrapped in a
// Result. Rows beyond the first page are fetched lazily as the result's
// iterator is consumed, using ctx.
func (q *Query) Run(ctx context.Context) (*Result, error) {
	req := q.buildRequest()
	req.RequestID = uuid.NewString()

	res, err := q.c.postQuery(ctx, req)
	if err != nil {
		return nil, err
	}
	return newResult(ctx, q.c, res, q.MaxResults)
}

// DryRun validates the query without running it and returns the schema the
// query would produce.
func (q *Query) DryRun(ctx context.Context) (Schema, error) {
	req := q.buildRequest()
	req.DryRun = true

	res, err := q.c.postQuery(ctx, req)
	if err != nil {
		// Dry-run responses omit the job reference, so the strict first-page
		// shape check rejects them. Recover the schema from the raw body.
		var raw *RawResponse
		if !errors.As(err, &raw) || raw.StatusCode != 200 {
			return nil, err
		}
		var body struct {
			Kind   string      `json:"kind"`
			Schema *wireSchema `json:"schema"`
		}
		if jsonErr := json.Unmarshal(raw.Body, &body); jsonErr != nil {
			return nil, err
		}
		if body.Kind != queryResponseKind || body.Schema == nil {
			return nil, err
		}
		return schemaFromWire(body.Schema.Fields), nil
	}
	return schemaFromWire(res.Schema.Fields), nil
}
