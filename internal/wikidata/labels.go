package wikidata

import (
	"context"
	"net/url"
	"strings"
)

// ResolveLabels batch-resolves entity and property ids to English labels
// via the wbgetentities action, chunked to the endpoint's 50-id ceiling.
// Resolution is best-effort: a failed chunk logs a warning and contributes
// nothing, and ids with no label are absent from the returned map. Callers
// fall back to the id itself as display text.
func (c *Client) ResolveLabels(ctx context.Context, ids []string) map[string]string {
	mapping := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return mapping
	}

	for start := 0; start < len(ids); start += labelBatchCeiling {
		end := start + labelBatchCeiling
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		params := url.Values{}
		params.Set("action", "wbgetentities")
		params.Set("ids", strings.Join(batch, "|"))
		params.Set("props", "labels")
		params.Set("languages", "en")
		params.Set("format", "json")

		var result struct {
			Entities map[string]struct {
				Labels map[string]struct {
					Value string `json:"value"`
				} `json:"labels"`
			} `json:"entities"`
		}
		if err := c.getJSON(ctx, c.apiEndpoint, params, "", &result); err != nil {
			c.log.Warnw("label batch failed", "batchSize", len(batch), "error", err)
			continue
		}

		for id, info := range result.Entities {
			if label, ok := info.Labels["en"]; ok {
				mapping[id] = label.Value
			}
		}
	}

	return mapping
}
