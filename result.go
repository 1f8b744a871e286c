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
	"iter"
	"strconv"

	"google.golang.org/api/iterator"
)

// Result stores the outcome of a query: column metadata and a lazy sequence
// of rows spanning every result page.
type Result struct {
	// Columns are the result column names in schema order.
	Columns []string
	// JobID identifies the query job created by the service.
	JobID string
	// TotalRows is the total number of rows across all pages, as declared by
	// the first page.
	TotalRows uint64
	// Schema describes the result columns.
	Schema Schema

	it *RowIterator
}

func newResult(ctx context.Context, c *Client, res *queryResponse, maxResults uint32) (*Result, error) {
	total, err := strconv.ParseUint(res.TotalRows, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bigquery: malformed totalRows %q: %w", res.TotalRows, err)
	}
	schema := schemaFromWire(res.Schema.Fields)

	projectID := c.config.ProjectID
	if res.JobReference.ProjectID != "" {
		projectID = res.JobReference.ProjectID
	}

	return &Result{
		Columns:   schema.ColumnNames(),
		JobID:     res.JobReference.JobID,
		TotalRows: total,
		Schema:    schema,
		it: &RowIterator{
			ctx:        ctx,
			c:          c,
			schema:     schema,
			projectID:  projectID,
			jobID:      res.JobReference.JobID,
			maxResults: maxResults,
			rows:       res.Rows,
			pageToken:  res.PageToken,
		},
	}, nil
}

// Rows returns the row iterator. The sequence is forward-only and can be
// consumed once; re-reading the result requires running the query again.
func (r *Result) Rows() *RowIterator {
	return r.it
}

// ReadAll drains the remaining rows into memory.
func (r *Result) ReadAll() ([][]Value, error) {
	var rows [][]Value
	for {
		row, err := r.it.Next()
		if err == iterator.Done {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// RowIterator produces the rows of a query result across all pages.
//
// The iterator buffers the raw rows of the current page and decodes them one
// at a time, so a cell the codec rejects surfaces on the Next call that pulls
// that row, after earlier rows were already yielded. When the buffer runs out
// and the server reported a continuation token, the next page is fetched on
// demand; no network call happens before the consumer asks for those rows,
// and pages are fetched strictly one at a time, in order.
type RowIterator struct {
	ctx context.Context
	c   *Client

	schema     Schema
	projectID  string
	jobID      string
	maxResults uint32

	rows      []*wireRow
	pageToken string
}

// Next returns the next row. It returns iterator.Done when no rows remain.
func (it *RowIterator) Next() ([]Value, error) {
	for len(it.rows) == 0 {
		if it.pageToken == "" {
			return nil, iterator.Done
		}
		if err := it.fetchPage(); err != nil {
			return nil, err
		}
	}
	row := it.rows[0]
	it.rows = it.rows[1:]
	return decodeRow(row, it.schema)
}

// All returns the remaining rows as a range-over-func sequence. Iteration
// stops after yielding an error.
func (it *RowIterator) All() iter.Seq2[[]Value, error] {
	return func(yield func([]Value, error) bool) {
		for {
			row, err := it.Next()
			if err == iterator.Done {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

func (it *RowIterator) fetchPage() error {
	page, err := it.c.getQueryResults(it.ctx, &fetchPageParams{
		ProjectID:  it.projectID,
		JobID:      it.jobID,
		MaxResults: it.maxResults,
		PageToken:  it.pageToken,
	})
	if err != nil {
		return err
	}
	// Follow-up pages do not repeat the schema; rows keep decoding with the
	// schema from the first page.
	it.rows = page.Rows
	it.pageToken = page.PageToken
	return nil
}
