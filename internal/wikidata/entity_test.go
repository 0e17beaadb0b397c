package wikidata

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adaDocument mimics the REST item endpoint response. Property order in the
// document is the order relation extraction must follow.
const adaDocument = `{
	"id": "Q7259",
	"statements": {
		"P31": [{"value": {"content": "Q5"}}],
		"P569": [{"value": {"content": {"time": "+1815-12-10T00:00:00Z"}}}],
		"P19": [{"value": {"content": "Q84"}}, {"value": {"content": "Q145"}}],
		"P106": [{"value": {"content": {"id": "Q82594"}}}],
		"P27": [{"value": {"content": "Q145"}}]
	},
	"sitelinks": {"enwiki": {}, "dewiki": {}, "frwiki": {}}
}`

func serveEntity(t *testing.T, doc string) *Client {
	t.Helper()
	return newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
}

func TestGetEntity(t *testing.T) {
	client := serveEntity(t, adaDocument)

	entity, err := client.GetEntity(context.Background(), "Q7259")
	require.NoError(t, err)

	assert.Equal(t, "Q7259", entity.ID)
	assert.Equal(t, 3, entity.Sitelinks)
	assert.Equal(t, 5, entity.Statements.Len())
}

func TestGetEntityTransportFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.GetEntity(context.Background(), "Q7259")
	assert.Error(t, err)
}

func TestRelationsOrderAndLimit(t *testing.T) {
	client := serveEntity(t, adaDocument)
	entity, err := client.GetEntity(context.Background(), "Q7259")
	require.NoError(t, err)

	// P569 carries a non-entity value and is skipped entirely; the rest
	// are kept in document order. Only the first statement of P19 counts.
	relations, ids := entity.Relations(10)
	require.Equal(t, []Relation{
		{Property: "P31", Target: "Q5"},
		{Property: "P19", Target: "Q84"},
		{Property: "P106", Target: "Q82594"},
		{Property: "P27", Target: "Q145"},
	}, relations)

	for _, id := range []string{"P31", "Q5", "P19", "Q84", "P106", "Q82594", "P27", "Q145"} {
		assert.Contains(t, ids, id)
	}
	assert.NotContains(t, ids, "P569")
}

func TestRelationsCap(t *testing.T) {
	client := serveEntity(t, adaDocument)
	entity, err := client.GetEntity(context.Background(), "Q7259")
	require.NoError(t, err)

	relations, _ := entity.Relations(3)
	require.Len(t, relations, 3)
	assert.Equal(t, []Relation{
		{Property: "P31", Target: "Q5"},
		{Property: "P19", Target: "Q84"},
		{Property: "P106", Target: "Q82594"},
	}, relations)
}

func TestStatementTargetID(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantID  string
		wantOK  bool
	}{
		{name: "bare entity id", content: `"Q42"`, wantID: "Q42", wantOK: true},
		{name: "structured value with id", content: `{"id": "Q42"}`, wantID: "Q42", wantOK: true},
		{name: "plain string", content: `"some text"`, wantOK: false},
		{name: "property-like string", content: `"P31"`, wantOK: false},
		{name: "object missing id", content: `{"time": "+1815"}`, wantOK: false},
		{name: "number", content: `42`, wantOK: false},
		{name: "empty", content: ``, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Statement
			if tt.content != "" {
				s.Value.Content = json.RawMessage(tt.content)
			}
			id, ok := s.TargetID()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestParseStatementsEmpty(t *testing.T) {
	client := serveEntity(t, `{"id": "Q1", "statements": {}, "sitelinks": {}}`)
	entity, err := client.GetEntity(context.Background(), "Q1")
	require.NoError(t, err)

	relations, ids := entity.Relations(20)
	assert.Empty(t, relations)
	assert.Empty(t, ids)
}
