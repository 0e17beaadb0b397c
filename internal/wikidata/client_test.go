package wikidata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/logger"
)

// newTestClient points every endpoint of a Client at the given handler.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.WikidataConfig{
		UserAgent:      "conceptmap-test/1.0",
		APIEndpoint:    srv.URL + "/w/api.php",
		RESTEndpoint:   srv.URL + "/w/rest.php/wikibase/v1",
		SPARQLEndpoint: srv.URL + "/sparql",
		SPARQLTimeout:  5,
	}, logger.NewNop())
}
