package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("empty expression")
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// MonikerRule derives a display label from a record payload: each field expression is
// evaluated and the results are joined with Separator.
type MonikerRule struct {
	Fields    []string
	Separator string
	// SkipEmpty drops null/empty fields instead of keeping an empty slot.
	SkipEmpty bool
}

// DefaultMonikerRules returns the per-entity rules.
//
// Candidates use "first last" with missing halves dropped; applications and offers use the
// compound "candidate/job" and "candidate/application" so the reference check can split them.
func DefaultMonikerRules() map[EntityType]MonikerRule {
	return map[EntityType]MonikerRule{
		EntityApplications:  {Fields: []string{"candidate_id", "jobs[0].id"}, Separator: "/"},
		EntityCandidates:    {Fields: []string{"first_name", "last_name"}, Separator: " ", SkipEmpty: true},
		EntityJobs:          {Fields: []string{"name"}},
		EntityOffers:        {Fields: []string{"candidate_id", "application_id"}, Separator: "/"},
		EntityProspectPools: {Fields: []string{"name"}},
		EntityScorecards:    {Fields: []string{"candidate_id"}},
		EntitySources:       {Fields: []string{"name"}},
	}
}

// Monikers applies moniker rules to record payloads.
type Monikers struct {
	rules map[EntityType]MonikerRule
	jems  JMESPathEvaluator
}

// NewMonikers validates every field expression up front. A nil evaluator selects go-jmespath.
func NewMonikers(rules map[EntityType]MonikerRule, jems JMESPathEvaluator) (*Monikers, error) {
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	for entity, rule := range rules {
		if len(rule.Fields) == 0 {
			return nil, fmt.Errorf("moniker rule for %s has no fields", entity)
		}
		for _, field := range rule.Fields {
			if err := jems.Validate(field); err != nil {
				return nil, fmt.Errorf("moniker rule for %s: invalid expression %q: %w", entity, field, err)
			}
		}
	}
	return &Monikers{rules: rules, jems: jems}, nil
}

// Derive computes the moniker of a decoded payload. Entities without a rule get an empty moniker.
func (m *Monikers) Derive(entity EntityType, doc any) (string, error) {
	rule, ok := m.rules[entity]
	if !ok {
		return "", nil
	}
	parts := make([]string, 0, len(rule.Fields))
	for _, field := range rule.Fields {
		v, err := m.jems.Evaluate(field, doc)
		if err != nil {
			return "", fmt.Errorf("evaluate %q: %w", field, err)
		}
		s := stringifyValue(v)
		if s == "" && rule.SkipEmpty {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, rule.Separator), nil
}

// DecodePayload decodes a JSON document keeping numbers exact.
func DecodePayload(payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
