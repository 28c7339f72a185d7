// Package model holds the domain types shared by the extraction engine:
// entity types, cached records, index rows, attachments and reports.
package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// EntityType names one of the fixed record categories exposed by the Harvest API.
// The value doubles as the REST resource path and the cache folder name.
type EntityType string

const (
	EntityApplications  EntityType = "applications"
	EntityCandidates    EntityType = "candidates"
	EntityJobs          EntityType = "jobs"
	EntityOffers        EntityType = "offers"
	EntityProspectPools EntityType = "prospect_pools"
	EntityScorecards    EntityType = "scorecards"
	EntitySources       EntityType = "sources"
)

// AllEntityTypes returns every entity type in a stable order.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityApplications,
		EntityCandidates,
		EntityJobs,
		EntityOffers,
		EntityProspectPools,
		EntityScorecards,
		EntitySources,
	}
}

// Valid reports whether e is a known entity type.
func (e EntityType) Valid() bool {
	for _, known := range AllEntityTypes() {
		if e == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (e EntityType) String() string { return string(e) }

// ParseEntityType converts a command or folder name into an EntityType.
// "pools" is accepted as the historical name of prospect_pools.
func ParseEntityType(s string) (EntityType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "pools" {
		return EntityProspectPools, nil
	}
	e := EntityType(name)
	if !e.Valid() {
		return "", fmt.Errorf("unknown entity type %q", s)
	}
	return e, nil
}

// ValidateID rejects ids that cannot safely be used as a file name inside an entity folder.
func ValidateID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("record id is empty")
	case id == "." || id == "..":
		return fmt.Errorf("record id %q is not a valid file name", id)
	case strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, filepath.Separator):
		return fmt.Errorf("record id %q contains a path separator", id)
	case strings.ContainsRune(id, 0):
		return fmt.Errorf("record id %q contains a NUL byte", id)
	}
	return nil
}
