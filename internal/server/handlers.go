package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/conceptmap/conceptmap/internal/output"
	"github.com/conceptmap/conceptmap/internal/quiz"
	"github.com/conceptmap/conceptmap/internal/wikidata"
)

type searchRequest struct {
	Term string `json:"term"`
}

type searchResult struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// handleSearch looks a free-text term up against the search index. A failed
// upstream search degrades to an empty candidate list.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	term := strings.TrimSpace(req.Term)
	if term == "" {
		writeError(w, http.StatusBadRequest, "No search term provided")
		return
	}

	candidates, err := s.client.SearchEntities(r.Context(), term)
	if err != nil {
		candidates = nil
	}

	results := make([]searchResult, 0, len(candidates))
	for _, c := range candidates {
		label := c.Label
		if label == "" {
			label = "No Label"
		}
		results = append(results, searchResult{
			ID:          c.ID,
			Label:       label,
			Description: c.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type traverseRequest struct {
	QID   string `json:"qid"`
	Label string `json:"label"`
}

// handleTraverse performs the initial depth-1 expansion of a selected
// entity via the per-item REST lookup and returns a Cytoscape payload.
func (s *Server) handleTraverse(w http.ResponseWriter, r *http.Request) {
	var req traverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	qid := strings.TrimSpace(req.QID)
	if qid == "" {
		writeError(w, http.StatusBadRequest, "No QID provided")
		return
	}
	label := req.Label
	if label == "" {
		label = qid
	}

	log := s.log.WithRun(uuid.NewString())
	log.Infow("traverse request", "entity", qid)

	entity, err := s.client.GetEntity(r.Context(), qid)
	if err != nil {
		log.Warnw("root fetch failed", "entity", qid, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Could not retrieve entity %s", qid))
		return
	}

	relations, ids := entity.Relations(s.cfg.LimitRelations)

	ids[qid] = struct{}{}
	idList := make([]string, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	labels := s.client.ResolveLabels(r.Context(), idList)
	if _, ok := labels[qid]; !ok {
		labels[qid] = label
	}
	labelFor := func(id string) string {
		if l, ok := labels[id]; ok {
			return l
		}
		return id
	}

	graphJSON := output.Graph{
		Nodes: []output.Node{output.NewNode(qid, labelFor(qid), 0, entity.Sitelinks)},
		Edges: []output.Edge{},
	}
	seen := map[string]struct{}{qid: {}}

	for _, rel := range relations {
		if _, ok := seen[rel.Target]; !ok {
			graphJSON.Nodes = append(graphJSON.Nodes, output.NewNode(rel.Target, labelFor(rel.Target), 1, 0))
			seen[rel.Target] = struct{}{}
		}
		graphJSON.Edges = append(graphJSON.Edges, output.NewEdge(qid, rel.Target, labelFor(rel.Property), rel.Property))
	}

	writeJSON(w, http.StatusOK, graphJSON)
}

type expandRequest struct {
	QID string `json:"qid"`
}

// handleExpand expands a single node in both directions with one forward
// and one reverse batched fetch. New nodes carry depth -1: the front end
// places them relative to the clicked node, not a BFS level.
func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	qid := strings.TrimSpace(req.QID)
	if qid == "" {
		writeError(w, http.StatusBadRequest, "No QID provided")
		return
	}

	log := s.log.WithRun(uuid.NewString())
	log.Infow("expand request", "entity", qid)

	forward, err := s.client.FetchLevel(r.Context(), []string{qid}, s.cfg.ExpandLimit)
	if err != nil {
		log.Warnw("forward expand failed", "entity", qid, "error", err)
		forward = emptyLevel()
	}
	reverse, err := s.client.FetchReverse(r.Context(), []string{qid}, s.cfg.ExpandLimit)
	if err != nil {
		log.Warnw("reverse expand failed", "entity", qid, "error", err)
		reverse = emptyLevel()
	}

	labels := make(map[string]string, len(forward.Labels)+len(reverse.Labels))
	for id, l := range forward.Labels {
		labels[id] = l
	}
	for id, l := range reverse.Labels {
		labels[id] = l
	}
	labelFor := func(id string) string {
		if l, ok := labels[id]; ok {
			return l
		}
		return id
	}

	graphJSON := output.Graph{Nodes: []output.Node{}, Edges: []output.Edge{}}
	seen := make(map[string]struct{})

	// Forward edges introduce targets; reverse edges introduce sources.
	for _, edge := range forward.Edges {
		if _, ok := seen[edge.Target]; !ok {
			graphJSON.Nodes = append(graphJSON.Nodes,
				output.NewNode(edge.Target, labelFor(edge.Target), -1, forward.Sitelinks[edge.Target]))
			seen[edge.Target] = struct{}{}
		}
		graphJSON.Edges = append(graphJSON.Edges,
			output.NewEdge(edge.Source, edge.Target, labelFor(edge.Property), edge.Property))
	}
	for _, edge := range reverse.Edges {
		if _, ok := seen[edge.Source]; !ok {
			graphJSON.Nodes = append(graphJSON.Nodes,
				output.NewNode(edge.Source, labelFor(edge.Source), -1, reverse.Sitelinks[edge.Source]))
			seen[edge.Source] = struct{}{}
		}
		graphJSON.Edges = append(graphJSON.Edges,
			output.NewEdge(edge.Source, edge.Target, labelFor(edge.Property), edge.Property))
	}

	writeJSON(w, http.StatusOK, graphJSON)
}

func emptyLevel() *wikidata.LevelResult {
	return &wikidata.LevelResult{
		Labels:    map[string]string{},
		Targets:   map[string]struct{}{},
		Sitelinks: map[string]int{},
	}
}

// handleModels lists locally available quiz models. Connection problems are
// reported in-band so the front end can show a hint instead of failing.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	models, err := s.quiz.Models(ctx)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, syscall.ECONNREFUSED) {
			msg = "Could not connect to Ollama. Is it running?"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"models": []string{},
			"error":  msg,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

type generateRequest struct {
	Triples       []quiz.Triple `json:"triples"`
	Format        string        `json:"format"`
	GraphEntities []string      `json:"graphEntities"`
	Model         string        `json:"model"`
}

// handleGenerate sends exported triples to the quiz generator.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Triples) == 0 {
		writeError(w, http.StatusBadRequest, "No triples provided")
		return
	}
	if req.Format == "" {
		req.Format = quiz.FormatOpen
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	response, err := s.quiz.Generate(ctx, req.Triples, req.Format, req.GraphEntities, req.Model)
	if err != nil {
		switch {
		case errors.Is(err, syscall.ECONNREFUSED):
			writeError(w, http.StatusServiceUnavailable,
				fmt.Sprintf("Could not connect to Ollama. Is it running? (Expected at %s)", s.cfg.Ollama.Endpoint))
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, "Ollama request timed out.")
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Ollama error: %v", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}
