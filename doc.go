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

/*
Package bigquery provides a lightweight and easy-to-use client for running SQL
queries against the BigQuery REST service.

# Client

Use NewClient to create a client struct. This is the major entrance to
construct structs for interacting with the service:

	client := bigquery.NewClient(&bigquery.Config{
		ProjectID:   "my-project",
		TokenSource: bigquery.OAuth2TokenSource(creds.TokenSource),
	})

# Query Data

Create a Query and run it to get a result set. Rows decode into native values
(int64, float64, *big.Rat, bool, string, civil date/time types, time.Time) and
follow server-side pagination transparently as they are consumed:

	result, err := client.Query("SELECT id, name FROM users").Run(ctx)
	if err != nil {
		return err
	}
	for row, err := range result.Rows().All() {
		if err != nil {
			return err
		}
		fmt.Println(row)
	}

Positional parameters bind to ? markers in order:

	q := client.Query("SELECT * FROM events WHERE ts > ? AND kind = ?")
	q.Parameters = []any{time.Now().Add(-time.Hour), "login"}

# Stream Rows

Use an Inserter to write rows to a table via the streaming insert API:

	ins := client.Inserter("my_dataset", "events")
	ins.Start(ctx)
	defer ins.Close()

	done, errCh := ins.Send(map[string]any{"id": 1, "kind": "login"})
	<-done
	if err := <-errCh; err != nil {
		return err
	}
*/
package bigquery
