package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// overfetchFactor is the per-source row budget requested from the query
// service. The service's row ordering is unspecified, so without a generous
// LIMIT a single maximally-connected source could consume the whole result
// budget and starve the other sources in the batch. The real per-source cap
// is enforced client-side.
const overfetchFactor = 100

// LevelResult is the outcome of one batched relation fetch: the accepted
// edges, the labels the query service resolved, the set of newly observed
// ids on the far end of those edges (targets for the forward fetch, sources
// for the reverse one), and a sitelinks count per far-end id.
type LevelResult struct {
	Edges     []graph.Edge
	Labels    map[string]string
	Targets   map[string]struct{}
	Sitelinks map[string]int
}

func newLevelResult() *LevelResult {
	return &LevelResult{
		Labels:    make(map[string]string),
		Targets:   make(map[string]struct{}),
		Sitelinks: make(map[string]int),
	}
}

// sparqlResponse mirrors the SPARQL JSON results format.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// FetchLevel retrieves, in one query, all outgoing item-valued relations of
// every source id together with labels and a target sitelinks count. At
// most limit edges are accepted per source, counted in row-arrival order.
// On timeout or transport failure the whole batch yields an error and the
// caller proceeds as if the level produced nothing.
func (c *Client) FetchLevel(ctx context.Context, sources []string, limit int) (*LevelResult, error) {
	if len(sources) == 0 {
		return newLevelResult(), nil
	}

	values := make([]string, len(sources))
	for i, id := range sources {
		values[i] = "wd:" + id
	}
	totalLimit := overfetchFactor * len(sources)

	query := fmt.Sprintf(`
SELECT ?source ?prop ?target ?sourceLabel ?propLabel ?targetLabel ?targetSitelinks
WHERE {
  VALUES ?source { %s }
  ?source ?wdt ?target .
  ?prop wikibase:directClaim ?wdt .
  OPTIONAL { ?target wikibase:sitelinks ?targetSitelinks . }
  FILTER(ISIRI(?target))
  FILTER(STRSTARTS(STR(?target), STR(wd:)))
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
LIMIT %d
`, strings.Join(values, " "), totalLimit)

	resp, err := c.sparqlQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	result := newLevelResult()
	perSourceCount := make(map[string]int)

	for _, binding := range resp.Results.Bindings {
		source := lastPathSegment(binding["source"].Value)
		property := lastPathSegment(binding["prop"].Value)
		target := lastPathSegment(binding["target"].Value)
		if source == "" || property == "" || target == "" {
			continue
		}

		// Enforce the per-source cap client-side; ties broken by the
		// order rows were returned.
		if perSourceCount[source] >= limit {
			continue
		}
		perSourceCount[source]++

		result.Edges = append(result.Edges, graph.Edge{Source: source, Property: property, Target: target})
		result.Targets[target] = struct{}{}
		result.Sitelinks[target] = bindingInt(binding, "targetSitelinks")

		result.Labels[source] = bindingLabel(binding, "sourceLabel", source)
		result.Labels[property] = bindingLabel(binding, "propLabel", property)
		result.Labels[target] = bindingLabel(binding, "targetLabel", target)
	}

	return result, nil
}

// FetchReverse answers "which sources point at these targets": the mirror of
// FetchLevel with the per-target cap enforced client-side. It serves the
// interactive single-node expansion only, never the BFS loop.
func (c *Client) FetchReverse(ctx context.Context, targets []string, limit int) (*LevelResult, error) {
	if len(targets) == 0 {
		return newLevelResult(), nil
	}

	values := make([]string, len(targets))
	for i, id := range targets {
		values[i] = "wd:" + id
	}
	totalLimit := overfetchFactor * len(targets)

	query := fmt.Sprintf(`
SELECT ?source ?prop ?target ?sourceLabel ?propLabel ?targetLabel ?sourceSitelinks
WHERE {
  VALUES ?target { %s }
  ?source ?wdt ?target .
  ?prop wikibase:directClaim ?wdt .
  OPTIONAL { ?source wikibase:sitelinks ?sourceSitelinks . }
  FILTER(ISIRI(?source))
  FILTER(STRSTARTS(STR(?source), STR(wd:)))
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
LIMIT %d
`, strings.Join(values, " "), totalLimit)

	resp, err := c.sparqlQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	result := newLevelResult()
	perTargetCount := make(map[string]int)

	for _, binding := range resp.Results.Bindings {
		source := lastPathSegment(binding["source"].Value)
		property := lastPathSegment(binding["prop"].Value)
		target := lastPathSegment(binding["target"].Value)
		if source == "" || property == "" || target == "" {
			continue
		}

		if perTargetCount[target] >= limit {
			continue
		}
		perTargetCount[target]++

		result.Edges = append(result.Edges, graph.Edge{Source: source, Property: property, Target: target})
		result.Targets[source] = struct{}{}
		result.Sitelinks[source] = bindingInt(binding, "sourceSitelinks")

		result.Labels[source] = bindingLabel(binding, "sourceLabel", source)
		result.Labels[property] = bindingLabel(binding, "propLabel", property)
		result.Labels[target] = bindingLabel(binding, "targetLabel", target)
	}

	return result, nil
}

// sparqlQuery sends one query to the query service, bounded by the
// configured timeout.
func (c *Client) sparqlQuery(ctx context.Context, query string) (*sparqlResponse, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.sparqlTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	var resp sparqlResponse
	if err := c.getJSONWith(queryCtx, c.sparqlClient, c.sparqlEndpoint, params, "application/sparql-results+json", &resp); err != nil {
		c.log.Warnw("sparql query failed", "timeout", c.sparqlTimeout, "error", err)
		return nil, err
	}
	return &resp, nil
}

// lastPathSegment reduces an entity URI to its id.
func lastPathSegment(uri string) string {
	if idx := strings.LastIndex(uri, "/"); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}

func bindingInt(binding map[string]struct {
	Value string `json:"value"`
}, key string) int {
	v, ok := binding[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v.Value)
	if err != nil {
		return 0
	}
	return n
}

func bindingLabel(binding map[string]struct {
	Value string `json:"value"`
}, key, fallback string) string {
	if v, ok := binding[key]; ok && v.Value != "" {
		return v.Value
	}
	return fallback
}
