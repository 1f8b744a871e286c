package bigquery

// Defaults applied by NewClient when the corresponding Config field is unset.
const (
	// DefaultEndpoint is the public BigQuery v2 REST endpoint.
	DefaultEndpoint = "https://bigquery.googleapis.com/bigquery/v2"
	// DefaultMaxResults is the default page size for query results.
	DefaultMaxResults = 10000
	// DefaultTimeoutMs is the default server-side completion hint, in milliseconds.
	DefaultTimeoutMs = 10000
)

// Config defines the configuration for the client.
type Config struct {
	// Endpoint is the URL of the BigQuery v2 REST service.
	Endpoint string
	// ProjectID is the Google Cloud project queries run under. Required.
	ProjectID string
	// DefaultDatasetID, when set, lets queries reference tables without a
	// dataset qualifier.
	DefaultDatasetID string
	// UseLegacySQL opts into the legacy SQL dialect. GoogleSQL is used otherwise.
	UseLegacySQL bool
	// MaxResults is the page size for query results.
	MaxResults uint32
	// TimeoutMs hints how long the server waits for query completion before
	// responding. It is not a client-side request deadline; use the request
	// context for that.
	TimeoutMs uint32
	// TokenSource supplies the bearer token attached to every request.
	TokenSource TokenSource
	// HTTPClient overrides the transport used to reach the service.
	HTTPClient HTTPClient
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Endpoint == "" {
		out.Endpoint = DefaultEndpoint
	}
	if out.MaxResults == 0 {
		out.MaxResults = DefaultMaxResults
	}
	if out.TimeoutMs == 0 {
		out.TimeoutMs = DefaultTimeoutMs
	}
	return &out
}
