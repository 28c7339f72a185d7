package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestParseDateFilter(t *testing.T) {
	tests := []struct {
		name       string
		after      string
		before     string
		wantAfter  string
		wantBefore string
		wantErr    bool
	}{
		{name: "unbounded"},
		{name: "date only", after: "2022-11-01", wantAfter: "2022-11-01T00:00:00Z"},
		{name: "timestamp with offset", before: "2022-11-01T02:00:00+02:00", wantBefore: "2022-11-01T00:00:00Z"},
		{name: "timestamp without zone", after: "2022-11-01T08:30:00", wantAfter: "2022-11-01T08:30:00Z"},
		{name: "both bounds", after: "2022-01-01", before: "2023-01-01",
			wantAfter: "2022-01-01T00:00:00Z", wantBefore: "2023-01-01T00:00:00Z"},
		{name: "garbage", after: "last tuesday", wantErr: true},
		{name: "inverted range", after: "2023-01-01", before: "2022-01-01", wantErr: true},
		{name: "empty range", after: "2023-01-01", before: "2023-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseDateFilter(tt.after, tt.before)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			params := f.Params()
			assert.Equal(t, tt.wantAfter, params["created_after"])
			assert.Equal(t, tt.wantBefore, params["created_before"])
		})
	}
}

func TestDateFilter_ContainsBoundaries(t *testing.T) {
	f, err := ParseDateFilter("2022-11-01", "2022-12-01")
	require.NoError(t, err)

	assert.False(t, f.Contains(mustTime(t, "2022-10-31T23:59:59Z")), "just before created_after")
	assert.True(t, f.Contains(mustTime(t, "2022-11-01T00:00:00Z")), "created_after is inclusive")
	assert.True(t, f.Contains(mustTime(t, "2022-11-01T00:00:01Z")), "just after created_after")
	assert.True(t, f.Contains(mustTime(t, "2022-11-30T23:59:59Z")), "just before created_before")
	assert.False(t, f.Contains(mustTime(t, "2022-12-01T00:00:00Z")), "created_before is exclusive")

	assert.True(t, DateFilter{}.Contains(mustTime(t, "1999-01-01T00:00:00Z")))
}

func TestDateFilter_String(t *testing.T) {
	assert.Equal(t, "unbounded", DateFilter{}.String())

	f, err := ParseDateFilter("2022-11-01", "")
	require.NoError(t, err)
	assert.Equal(t, ">=2022-11-01T00:00:00Z", f.String())
}

func TestRecord_IndexRow(t *testing.T) {
	r := Record{
		Entity:    EntityJobs,
		ID:        "77",
		Moniker:   "Backend Engineer",
		Timestamp: time.Date(2024, 3, 5, 10, 11, 12, 999, time.FixedZone("CET", 3600)),
	}

	assert.Equal(t, IndexRow{ID: "77", Moniker: "Backend Engineer", Timestamp: "2024-03-05T09:11:12Z"}, r.IndexRow())
}

func TestParseEntityType(t *testing.T) {
	for _, e := range AllEntityTypes() {
		got, err := ParseEntityType(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	got, err := ParseEntityType("pools")
	require.NoError(t, err)
	assert.Equal(t, EntityProspectPools, got)

	_, err = ParseEntityType("attachments")
	assert.Error(t, err)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("4012345678"))
	assert.NoError(t, ValidateID("abc-123"))
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "nul\x00"} {
		assert.Error(t, ValidateID(bad), "id %q", bad)
	}
}
