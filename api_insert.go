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
	"fmt"
	"io"
	"net/url"
)

// insertAPI defines the calls under /datasets/{datasetID}/tables/{tableID}.
type insertAPI interface {
	// insertAll streams a batch of rows into a table.
	insertAll(ctx context.Context, datasetID, tableID string, req *insertAllRequest) error
}

var _ insertAPI = (*Client)(nil)

type insertAllRequest struct {
	Rows []*insertRow `json:"rows"`
	// SkipInvalidRows asks the service to insert the valid rows of a batch
	// even if some rows are invalid.
	SkipInvalidRows bool `json:"skipInvalidRows,omitempty"`
	// IgnoreUnknownValues drops row values that do not match the table schema.
	IgnoreUnknownValues bool `json:"ignoreUnknownValues,omitempty"`
}

type insertRow struct {
	// InsertID deduplicates retried rows on a best-effort basis.
	InsertID string          `json:"insertId,omitempty"`
	JSON     json.RawMessage `json:"json"`
}

type insertAllResponse struct {
	InsertErrors []*insertRowErrors `json:"insertErrors"`
}

type insertRowErrors struct {
	Index  uint32        `json:"index"`
	Errors []*errorProto `json:"errors"`
}

type errorProto struct {
	Reason   string `json:"reason"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (c *Client) insertAll(ctx context.Context, datasetID, tableID string, request *insertAllRequest) error {
	u, err := url.Parse(c.config.Endpoint + "/projects/" + c.config.ProjectID +
		"/datasets/" + datasetID + "/tables/" + tableID + "/insertAll")
	if err != nil {
		return err
	}

	body, err := json.Marshal(request)
	if err != nil {
		return err
	}

	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	logger.WithField("table", tableID).Debug("streaming insert batch")
	resp, err := c.http.Post(ctx, u, token, body)
	if err != nil {
		return err
	}
	defer sneakyBodyClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return &RawResponse{StatusCode: resp.StatusCode, Body: data}
	}

	var respData insertAllResponse
	if err := json.Unmarshal(data, &respData); err != nil {
		return &RawResponse{StatusCode: resp.StatusCode, Body: data}
	}
	if len(respData.InsertErrors) > 0 {
		first := respData.InsertErrors[0]
		msg := "unknown reason"
		if len(first.Errors) > 0 {
			msg = first.Errors[0].Message
		}
		return fmt.Errorf("bigquery: %d rows failed to insert (row %d: %s)",
			len(respData.InsertErrors), first.Index, msg)
	}
	return nil
}
