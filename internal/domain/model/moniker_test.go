package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonikers_DefaultRules(t *testing.T) {
	m, err := NewMonikers(DefaultMonikerRules(), nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		entity  EntityType
		payload string
		want    string
	}{
		{
			name:    "candidate full name",
			entity:  EntityCandidates,
			payload: `{"id": 1, "first_name": "Ada", "last_name": "Lovelace"}`,
			want:    "Ada Lovelace",
		},
		{
			name:    "candidate missing first name",
			entity:  EntityCandidates,
			payload: `{"id": 1, "first_name": null, "last_name": "Lovelace"}`,
			want:    "Lovelace",
		},
		{
			name:    "candidate missing last name",
			entity:  EntityCandidates,
			payload: `{"id": 1, "first_name": "Ada"}`,
			want:    "Ada",
		},
		{
			name:    "candidate without names",
			entity:  EntityCandidates,
			payload: `{"id": 1, "first_name": null, "last_name": null}`,
			want:    "",
		},
		{
			name:    "application with job",
			entity:  EntityApplications,
			payload: `{"id": 9, "candidate_id": 4012345678, "jobs": [{"id": 77}, {"id": 78}]}`,
			want:    "4012345678/77",
		},
		{
			name:    "prospect application without job",
			entity:  EntityApplications,
			payload: `{"id": 9, "candidate_id": 12, "jobs": []}`,
			want:    "12/",
		},
		{
			name:    "offer",
			entity:  EntityOffers,
			payload: `{"id": 3, "candidate_id": 12, "application_id": 9}`,
			want:    "12/9",
		},
		{
			name:    "scorecard",
			entity:  EntityScorecards,
			payload: `{"id": 5, "candidate_id": 12}`,
			want:    "12",
		},
		{
			name:    "job",
			entity:  EntityJobs,
			payload: `{"id": 77, "name": "  Backend Engineer "}`,
			want:    "Backend Engineer",
		},
		{
			name:    "prospect pool",
			entity:  EntityProspectPools,
			payload: `{"id": 2, "name": "Future Leaders"}`,
			want:    "Future Leaders",
		},
		{
			name:    "source, name with comma",
			entity:  EntitySources,
			payload: `{"id": 6, "name": "Referral, internal"}`,
			want:    "Referral, internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodePayload([]byte(tt.payload))
			require.NoError(t, err)

			got, err := m.Derive(tt.entity, doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonikers_UnknownEntityHasEmptyMoniker(t *testing.T) {
	m, err := NewMonikers(map[EntityType]MonikerRule{}, nil)
	require.NoError(t, err)

	got, err := m.Derive(EntityJobs, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewMonikers_RejectsInvalidRules(t *testing.T) {
	_, err := NewMonikers(map[EntityType]MonikerRule{EntityJobs: {}}, nil)
	assert.Error(t, err)

	_, err = NewMonikers(map[EntityType]MonikerRule{EntityJobs: {Fields: []string{"jobs[0"}}}, nil)
	assert.Error(t, err)
}

type failingEvaluator struct{}

func (failingEvaluator) Validate(string) error { return nil }

func (failingEvaluator) Evaluate(string, any) (any, error) { return nil, errors.New("boom") }

func TestMonikers_EvaluatorError(t *testing.T) {
	m, err := NewMonikers(DefaultMonikerRules(), failingEvaluator{})
	require.NoError(t, err)

	_, err = m.Derive(EntityJobs, map[string]any{})
	assert.Error(t, err)
}

func TestDecodePayload_KeepsLargeIDsExact(t *testing.T) {
	doc, err := DecodePayload([]byte(`{"candidate_id": 90071992547409931}`))
	require.NoError(t, err)

	m, err := NewMonikers(DefaultMonikerRules(), nil)
	require.NoError(t, err)
	got, err := m.Derive(EntityScorecards, doc)
	require.NoError(t, err)
	assert.Equal(t, "90071992547409931", got)
}
