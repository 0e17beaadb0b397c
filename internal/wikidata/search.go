package wikidata

import (
	"context"
	"net/url"
)

// Candidate is one ranked search result for a free-text term.
type Candidate struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// SearchEntities queries the wbsearchentities action and returns the ranked
// candidate list verbatim, up to the endpoint's own result limit. No local
// ranking or filtering is applied.
func (c *Client) SearchEntities(ctx context.Context, term string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", term)
	params.Set("language", "en")
	params.Set("format", "json")

	var result struct {
		Search []Candidate `json:"search"`
	}
	if err := c.getJSON(ctx, c.apiEndpoint, params, "", &result); err != nil {
		c.log.Warnw("entity search failed", "term", term, "error", err)
		return nil, err
	}
	return result.Search, nil
}
