package wikidata

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/samber/oops"
)

// entityIDPattern matches a bare item id such as Q7259.
var entityIDPattern = regexp.MustCompile(`^Q\d+$`)

// Statement is a single claim value under a property. Content is either a
// bare entity-id string or a structured value carrying an "id" field.
type Statement struct {
	Value struct {
		Content json.RawMessage `json:"content"`
	} `json:"value"`
}

// TargetID extracts the referenced entity id from a statement value, if
// the value is an entity reference at all.
func (s Statement) TargetID() (string, bool) {
	if len(s.Value.Content) == 0 {
		return "", false
	}

	var str string
	if err := json.Unmarshal(s.Value.Content, &str); err == nil {
		if entityIDPattern.MatchString(str) {
			return str, true
		}
		return "", false
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(s.Value.Content, &obj); err == nil && obj.ID != "" {
		return obj.ID, true
	}
	return "", false
}

// Entity is the full record of one item: its statements grouped by property
// in the order the REST API returned them, and its sitelinks count, the
// popularity signal used for hub suppression.
type Entity struct {
	ID         string
	Statements *orderedmap.OrderedMap[string, []Statement]
	Sitelinks  int
}

// Relation is one extracted (relation-type, target-id) pair.
type Relation struct {
	Property string
	Target   string
}

// Relations extracts up to limit (property, target) pairs from the entity's
// statements in their native order. Only the first statement of each
// property is inspected, and only statements whose value references another
// entity are kept. It also returns the set of ids (properties and targets)
// that need label resolution.
func (e *Entity) Relations(limit int) ([]Relation, map[string]struct{}) {
	relations := make([]Relation, 0, limit)
	ids := make(map[string]struct{})

	for el := e.Statements.Front(); el != nil; el = el.Next() {
		if len(relations) >= limit {
			break
		}
		if len(el.Value) == 0 {
			continue
		}

		target, ok := el.Value[0].TargetID()
		if !ok {
			continue
		}

		relations = append(relations, Relation{Property: el.Key, Target: target})
		ids[el.Key] = struct{}{}
		ids[target] = struct{}{}
	}

	return relations, ids
}

// GetEntity retrieves one entity's full record from the REST item endpoint.
// Transport and parse failures are returned as errors; callers treat them
// as "no data, skip expansion" rather than fatal.
func (c *Client) GetEntity(ctx context.Context, id string) (*Entity, error) {
	var raw struct {
		ID         string                     `json:"id"`
		Statements json.RawMessage            `json:"statements"`
		Sitelinks  map[string]json.RawMessage `json:"sitelinks"`
	}
	if err := c.getJSON(ctx, c.restItemURL(id), nil, "", &raw); err != nil {
		return nil, err
	}

	statements, err := parseStatements(raw.Statements)
	if err != nil {
		return nil, oops.In("wikidata").With("entity", id).Wrapf(err, "parse statements")
	}

	entity := &Entity{
		ID:         raw.ID,
		Statements: statements,
		Sitelinks:  len(raw.Sitelinks),
	}
	if entity.ID == "" {
		entity.ID = id
	}
	return entity, nil
}

// parseStatements decodes the statements object while preserving the
// property order of the source document. A plain map cannot hold that
// order, and relation extraction depends on it.
func parseStatements(raw json.RawMessage) (*orderedmap.OrderedMap[string, []Statement], error) {
	statements := orderedmap.NewOrderedMap[string, []Statement]()
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return statements, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, oops.In("wikidata").Errorf("statements is not a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		property, ok := keyTok.(string)
		if !ok {
			return nil, oops.In("wikidata").Errorf("unexpected statements key token %v", keyTok)
		}

		var group []Statement
		if err := dec.Decode(&group); err != nil {
			return nil, err
		}
		statements.Set(property, group)
	}

	return statements, nil
}
