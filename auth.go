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

	"golang.org/x/oauth2"
)

// TokenSource supplies bearer tokens for requests sent to the BigQuery
// service. Token lifecycle (caching, refresh) is entirely the source's
// concern; the client asks for a token before every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a TokenSource that always yields the given token.
func StaticTokenSource(token string) TokenSource {
	return staticTokenSource(token)
}

type staticTokenSource string

func (s staticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// OAuth2TokenSource adapts an oauth2.TokenSource so that any standard OAuth2
// credential flow can authenticate this client.
func OAuth2TokenSource(ts oauth2.TokenSource) TokenSource {
	return &oauth2TokenSource{ts: ts}
}

type oauth2TokenSource struct {
	ts oauth2.TokenSource
}

func (s *oauth2TokenSource) Token(context.Context) (string, error) {
	t, err := s.ts.Token()
	if err != nil {
		return "", err
	}
	return t.AccessToken, nil
}
