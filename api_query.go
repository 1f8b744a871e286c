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
	"io"
	"net/url"
	"strconv"
)

// queryAPI defines the calls under /projects/{projectID}/queries.
type queryAPI interface {
	// postQuery submits a query and returns the decoded first result page.
	postQuery(ctx context.Context, req *queryRequest) (*queryResponse, error)
	// getQueryResults fetches one follow-up result page of a query job.
	getQueryResults(ctx context.Context, params *fetchPageParams) (*queryPage, error)
}

var _ queryAPI = (*Client)(nil)

// queryResponseKind tags a successful jobs.query response body.
const queryResponseKind = "bigquery#queryResponse"

const parameterModePositional = "POSITIONAL"

type queryRequest struct {
	// Query is the SQL text, with ? as the positional parameter marker.
	Query string `json:"query"`
	// DefaultDataset qualifies unqualified table references, when set.
	DefaultDataset *datasetReference `json:"defaultDataset,omitempty"`
	// UseLegacySQL is always sent explicitly; the service defaults it to true.
	UseLegacySQL bool `json:"useLegacySql"`
	// MaxResults caps the number of rows per result page.
	MaxResults uint32 `json:"maxResults"`
	// TimeoutMs is the server-side query-completion hint.
	TimeoutMs uint32 `json:"timeoutMs"`
	// DryRun validates the query and reports its schema without running it.
	DryRun bool `json:"dryRun,omitempty"`
	// Labels are attached to the query job.
	Labels map[string]string `json:"labels,omitempty"`
	// RequestID makes the submission idempotent on retries by the caller.
	RequestID string `json:"requestId,omitempty"`
	// ParameterMode is POSITIONAL whenever QueryParameters is non-empty.
	ParameterMode   string           `json:"parameterMode,omitempty"`
	QueryParameters []queryParameter `json:"queryParameters,omitempty"`
}

type datasetReference struct {
	DatasetID string `json:"datasetId"`
}

type queryParameter struct {
	ParameterType  queryParameterType  `json:"parameterType"`
	ParameterValue queryParameterValue `json:"parameterValue"`
}

type queryParameterType struct {
	Type string `json:"type"`
}

type queryParameterValue struct {
	Value any `json:"value"`
}

type jobReference struct {
	ProjectID string `json:"projectId,omitempty"`
	JobID     string `json:"jobId"`
}

type wireSchema struct {
	Fields []*wireFieldSchema `json:"fields"`
}

// wireRow is one result row: an ordered cell list aligned with the schema.
type wireRow struct {
	F []wireCell `json:"f"`
}

// wireCell is one schema-tagged cell value. V is a string for scalar types,
// a nested object for RECORD cells, a list for REPEATED cells, or null.
type wireCell struct {
	V any `json:"v"`
}

type queryResponse struct {
	Kind         string        `json:"kind"`
	JobReference *jobReference `json:"jobReference"`
	Schema       *wireSchema   `json:"schema"`
	Rows         []*wireRow    `json:"rows"`
	TotalRows    string        `json:"totalRows"`
	PageToken    string        `json:"pageToken"`
}

// queryPage is the wire form of a follow-up result page. Pages repeat neither
// the schema nor the job reference; rows are decoded with the first page's
// schema.
type queryPage struct {
	Rows      []*wireRow `json:"rows"`
	PageToken string     `json:"pageToken"`
}

type fetchPageParams struct {
	ProjectID  string
	JobID      string
	MaxResults uint32
	PageToken  string
}

// decodeQueryResponse recognizes a successful first result page. Any body not
// carrying the response-kind tag, a job ID, a schema and a total row count is
// not interpreted here; it is handed back unmodified as a *RawResponse.
func decodeQueryResponse(statusCode int, data []byte) (*queryResponse, error) {
	var res queryResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &RawResponse{StatusCode: statusCode, Body: data}
	}
	if res.Kind != queryResponseKind ||
		res.JobReference == nil || res.JobReference.JobID == "" ||
		res.Schema == nil || res.Schema.Fields == nil ||
		res.TotalRows == "" {
		return nil, &RawResponse{StatusCode: statusCode, Body: data}
	}
	return &res, nil
}

func (c *Client) postQuery(ctx context.Context, request *queryRequest) (*queryResponse, error) {
	u, err := url.Parse(c.config.Endpoint + "/projects/" + c.config.ProjectID + "/queries")
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	token, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	logger.WithField("project", c.config.ProjectID).Debug("submitting query")
	resp, err := c.http.Post(ctx, u, token, body)
	if err != nil {
		return nil, err
	}
	defer sneakyBodyClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeQueryResponse(resp.StatusCode, data)
}

func (c *Client) getQueryResults(ctx context.Context, params *fetchPageParams) (*queryPage, error) {
	u, err := url.Parse(c.config.Endpoint + "/projects/" + params.ProjectID + "/queries/" + params.JobID)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("maxResults", strconv.FormatUint(uint64(params.MaxResults), 10))
	q.Set("pageToken", params.PageToken)
	u.RawQuery = q.Encode()

	token, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	logger.WithField("job", params.JobID).Debug("fetching result page")
	resp, err := c.http.Get(ctx, u, token)
	if err != nil {
		return nil, err
	}
	defer sneakyBodyClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, &RawResponse{StatusCode: resp.StatusCode, Body: data}
	}
	var page queryPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, &RawResponse{StatusCode: resp.StatusCode, Body: data}
	}
	return &page, nil
}
