package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"syscall"
	"testing"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/graph"
	"github.com/conceptmap/conceptmap/internal/logger"
	"github.com/conceptmap/conceptmap/internal/output"
	"github.com/conceptmap/conceptmap/internal/quiz"
	"github.com/conceptmap/conceptmap/internal/wikidata"
)

type fakeGraphClient struct {
	candidates []wikidata.Candidate
	searchErr  error

	entities  map[string]*wikidata.Entity
	entityErr error

	labels map[string]string

	forward    *wikidata.LevelResult
	forwardErr error
	reverse    *wikidata.LevelResult
	reverseErr error

	forwardCalls [][]string
	reverseCalls [][]string
}

func (f *fakeGraphClient) SearchEntities(_ context.Context, _ string) ([]wikidata.Candidate, error) {
	return f.candidates, f.searchErr
}

func (f *fakeGraphClient) GetEntity(_ context.Context, id string) (*wikidata.Entity, error) {
	if f.entityErr != nil {
		return nil, f.entityErr
	}
	entity, ok := f.entities[id]
	if !ok {
		return nil, fmt.Errorf("no entity %s", id)
	}
	return entity, nil
}

func (f *fakeGraphClient) ResolveLabels(_ context.Context, ids []string) map[string]string {
	resolved := make(map[string]string)
	for _, id := range ids {
		if label, ok := f.labels[id]; ok {
			resolved[id] = label
		}
	}
	return resolved
}

func (f *fakeGraphClient) FetchLevel(_ context.Context, sources []string, _ int) (*wikidata.LevelResult, error) {
	f.forwardCalls = append(f.forwardCalls, sources)
	return f.forward, f.forwardErr
}

func (f *fakeGraphClient) FetchReverse(_ context.Context, targets []string, _ int) (*wikidata.LevelResult, error) {
	f.reverseCalls = append(f.reverseCalls, targets)
	return f.reverse, f.reverseErr
}

type fakeQuizService struct {
	response  string
	err       error
	models    []string
	modelsErr error

	lastFormat string
}

func (f *fakeQuizService) Generate(_ context.Context, _ []quiz.Triple, format string, _ []string, _ string) (string, error) {
	f.lastFormat = format
	return f.response, f.err
}

func (f *fakeQuizService) Models(_ context.Context) ([]string, error) {
	return f.models, f.modelsErr
}

func newTestServer(client *fakeGraphClient, quizService *fakeQuizService) *Server {
	return New(config.DefaultConfig(), client, quizService, logger.NewNop())
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// testEntity builds an entity whose statements reference the given targets,
// one statement group per property.
func testEntity(id string, sitelinks int, rels ...[2]string) *wikidata.Entity {
	statements := orderedmap.NewOrderedMap[string, []wikidata.Statement]()
	for _, rel := range rels {
		var st wikidata.Statement
		st.Value.Content = json.RawMessage(strconv.Quote(rel[1]))
		statements.Set(rel[0], []wikidata.Statement{st})
	}
	return &wikidata.Entity{ID: id, Statements: statements, Sitelinks: sitelinks}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSearch(t *testing.T) {
	client := &fakeGraphClient{candidates: []wikidata.Candidate{
		{ID: "Q7259", Label: "Ada Lovelace", Description: "English mathematician"},
		{ID: "Q16338", Label: "", Description: "crater"},
	}}
	srv := newTestServer(client, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/search", map[string]string{"term": "ada lovelace"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []searchResult `json:"results"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Ada Lovelace", body.Results[0].Label)
	assert.Equal(t, "No Label", body.Results[1].Label)
}

func TestSearchEmptyTerm(t *testing.T) {
	srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/search", map[string]string{"term": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No search term provided")
}

func TestSearchUpstreamFailureDegradesToEmpty(t *testing.T) {
	client := &fakeGraphClient{searchErr: errors.New("api down")}
	srv := newTestServer(client, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/search", map[string]string{"term": "ada"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestTraverse(t *testing.T) {
	client := &fakeGraphClient{
		entities: map[string]*wikidata.Entity{
			"Q7259": testEntity("Q7259", 3, [2]string{"P31", "Q5"}, [2]string{"P19", "Q84"}),
		},
		labels: map[string]string{
			"Q5":  "human",
			"P31": "instance of",
			"P19": "place of birth",
		},
	}
	srv := newTestServer(client, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/traverse", map[string]string{"qid": "Q7259", "label": "Ada Lovelace"})
	require.Equal(t, http.StatusOK, rec.Code)

	var g output.Graph
	decodeBody(t, rec, &g)
	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)

	root := g.Nodes[0].Data
	assert.Equal(t, "Q7259", root.ID)
	assert.Equal(t, "Ada Lovelace", root.Label)
	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, 3, root.Sitelinks)

	assert.Equal(t, "human", g.Nodes[1].Data.Label)
	assert.Equal(t, 1, g.Nodes[1].Data.Depth)
	// Unresolved target label falls back to the id.
	assert.Equal(t, "Q84", g.Nodes[2].Data.Label)

	assert.Equal(t, "instance of", g.Edges[0].Data.Label)
	assert.Equal(t, "P31", g.Edges[0].Data.Property)
}

func TestTraverseMissingQID(t *testing.T) {
	srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/traverse", map[string]string{"qid": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No QID provided")
}

func TestTraverseFetchFailure(t *testing.T) {
	client := &fakeGraphClient{entityErr: errors.New("rest down")}
	srv := newTestServer(client, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/traverse", map[string]string{"qid": "Q7259"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not retrieve entity Q7259")
}

func TestExpandMergesForwardAndReverse(t *testing.T) {
	client := &fakeGraphClient{
		forward: &wikidata.LevelResult{
			Edges:     []graph.Edge{{Source: "Q84", Property: "P17", Target: "Q145"}},
			Labels:    map[string]string{"Q145": "United Kingdom", "P17": "country"},
			Targets:   map[string]struct{}{"Q145": {}},
			Sitelinks: map[string]int{"Q145": 321},
		},
		reverse: &wikidata.LevelResult{
			Edges:     []graph.Edge{{Source: "Q7259", Property: "P19", Target: "Q84"}},
			Labels:    map[string]string{"Q7259": "Ada Lovelace", "P19": "place of birth"},
			Targets:   map[string]struct{}{"Q7259": {}},
			Sitelinks: map[string]int{"Q7259": 3},
		},
	}
	srv := newTestServer(client, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/expand", map[string]string{"qid": "Q84"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, [][]string{{"Q84"}}, client.forwardCalls)
	assert.Equal(t, [][]string{{"Q84"}}, client.reverseCalls)

	var g output.Graph
	decodeBody(t, rec, &g)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 2)

	forwardNode := g.Nodes[0].Data
	assert.Equal(t, "Q145", forwardNode.ID)
	assert.Equal(t, "United Kingdom", forwardNode.Label)
	assert.Equal(t, -1, forwardNode.Depth)
	assert.Equal(t, 321, forwardNode.Sitelinks)

	reverseNode := g.Nodes[1].Data
	assert.Equal(t, "Q7259", reverseNode.ID)
	assert.Equal(t, -1, reverseNode.Depth)
	assert.Equal(t, 3, reverseNode.Sitelinks)
}

func TestExpandFetchFailuresDegrade(t *testing.T) {
	client := &fakeGraphClient{
		forwardErr: errors.New("sparql down"),
		reverseErr: errors.New("sparql down"),
	}
	srv := newTestServer(client, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/expand", map[string]string{"qid": "Q84"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, rec.Body.String())
}

func TestModels(t *testing.T) {
	srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{models: []string{"qwen3:8b", "llama3"}})

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"models":["qwen3:8b","llama3"]}`, rec.Body.String())
}

func TestModelsConnectionErrorReportedInBand(t *testing.T) {
	modelsErr := fmt.Errorf("dial tcp 127.0.0.1:11434: %w", syscall.ECONNREFUSED)
	srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{modelsErr: modelsErr})

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"models":[],"error":"Could not connect to Ollama. Is it running?"}`, rec.Body.String())
}

func TestModelsOtherErrorSurfacesCause(t *testing.T) {
	// Failures that are not connection refusals report their own message,
	// still in-band.
	srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{modelsErr: errors.New("list models: unexpected status 500")})

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"models":[],"error":"list models: unexpected status 500"}`, rec.Body.String())
}

func TestGenerate(t *testing.T) {
	quizService := &fakeQuizService{response: "What did Ada Lovelace write?"}
	srv := newTestServer(&fakeGraphClient{}, quizService)

	rec := postJSON(t, srv.Handler(), "/api/generate", map[string]any{
		"triples": []quiz.Triple{{Subject: "Ada Lovelace", Predicate: "instance of", Object: "human"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"What did Ada Lovelace write?"}`, rec.Body.String())
	assert.Equal(t, quiz.FormatOpen, quizService.lastFormat)
}

func TestGenerateRequiresTriples(t *testing.T) {
	srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{})

	rec := postJSON(t, srv.Handler(), "/api/generate", map[string]any{"triples": []quiz.Triple{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No triples provided")
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), http.StatusServiceUnavailable},
		{"timeout", fmt.Errorf("chat: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("model not found"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeGraphClient{}, &fakeQuizService{err: tt.err})

			rec := postJSON(t, srv.Handler(), "/api/generate", map[string]any{
				"triples": []quiz.Triple{{Subject: "a", Predicate: "b", Object: "c"}},
			})
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
