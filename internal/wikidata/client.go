// Package wikidata provides the external data-access layer: entity search,
// per-item REST lookups, chunked label resolution, and batched SPARQL
// relation fetches against the Wikidata endpoints.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/oops"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/logger"
)

// labelBatchCeiling is the maximum number of ids the wbgetentities action
// accepts per call.
const labelBatchCeiling = 50

// Client talks to the Wikidata Action API, REST API, and Query Service.
// All configuration is threaded explicitly; there is no ambient state.
type Client struct {
	httpClient *http.Client

	// sparqlClient carries no global timeout: batched queries are bounded
	// by the configured sparql_timeout via context, which may exceed the
	// 30s budget of the per-item endpoints.
	sparqlClient *http.Client

	apiEndpoint    string
	restEndpoint   string
	sparqlEndpoint string
	sparqlTimeout  time.Duration
	userAgent      string
	log            *logger.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg *config.WikidataConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		sparqlClient:   &http.Client{},
		apiEndpoint:    cfg.APIEndpoint,
		restEndpoint:   cfg.RESTEndpoint,
		sparqlEndpoint: cfg.SPARQLEndpoint,
		sparqlTimeout:  cfg.SPARQLTimeoutDuration(),
		userAgent:      cfg.UserAgent,
		log:            log,
	}
}

// getJSON issues a GET request with the configured User-Agent and decodes
// the JSON response body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, accept string, out any) error {
	return c.getJSONWith(ctx, c.httpClient, endpoint, params, accept, out)
}

func (c *Client) getJSONWith(ctx context.Context, httpClient *http.Client, endpoint string, params url.Values, accept string, out any) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return oops.In("wikidata").With("url", endpoint).Wrapf(err, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return oops.In("wikidata").With("url", endpoint).Wrapf(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return oops.In("wikidata").
			With("url", endpoint, "status", resp.StatusCode).
			Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return oops.In("wikidata").With("url", endpoint).Wrapf(err, "decode response")
	}
	return nil
}

// restItemURL builds the REST API URL for a single item lookup.
func (c *Client) restItemURL(id string) string {
	return fmt.Sprintf("%s/entities/items/%s", c.restEndpoint, id)
}
