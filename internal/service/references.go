package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/target/harvest-extract/internal/domain/model"
)

// ReferenceListLimit is the largest category whose members are listed individually.
const ReferenceListLimit = 25

// ReferenceChecker cross-checks the ids that index monikers mention against the ids that
// are actually cached. It relies on the compound monikers of applications
// ("candidate/job"), offers ("candidate/application") and scorecards ("candidate").
type ReferenceChecker struct {
	index indexLoader
}

type indexLoader interface {
	Load(entity model.EntityType) (*model.Index, error)
}

// NewReferenceChecker constructs a new ReferenceChecker.
func NewReferenceChecker(stores Stores) (*ReferenceChecker, error) {
	if stores.Index == nil {
		return nil, errors.New("IndexRepository is required")
	}
	return &ReferenceChecker{index: stores.Index}, nil
}

type idSet map[string]struct{}

func (s idSet) add(id string) {
	if id = strings.TrimSpace(id); id != "" {
		s[id] = struct{}{}
	}
}

// minus returns the members of s missing from other, sorted.
func (s idSet) minus(other idSet) []string {
	var out []string
	for id := range s {
		if _, ok := other[id]; !ok {
			out = append(out, id)
		}
	}
	slices.SortFunc(out, compareIDs)
	return out
}

// Check builds the reference report.
func (r *ReferenceChecker) Check(ctx context.Context) (*model.ReferenceReport, error) {
	load := func(entity model.EntityType) (*model.Index, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r.index.Load(entity)
	}

	candidates, err := load(model.EntityCandidates)
	if err != nil {
		return nil, err
	}
	applications, err := load(model.EntityApplications)
	if err != nil {
		return nil, err
	}
	jobs, err := load(model.EntityJobs)
	if err != nil {
		return nil, err
	}
	scorecards, err := load(model.EntityScorecards)
	if err != nil {
		return nil, err
	}
	offers, err := load(model.EntityOffers)
	if err != nil {
		return nil, err
	}

	allCandidates, allApplications, allJobs := idsOf(candidates), idsOf(applications), idsOf(jobs)

	appCandidates, appJobs := idSet{}, idSet{}
	for _, row := range applications.Rows() {
		candidateID, jobID, _ := strings.Cut(row.Moniker, "/")
		appCandidates.add(candidateID)
		appJobs.add(jobID)
	}

	scorecardCandidates := idSet{}
	for _, row := range scorecards.Rows() {
		scorecardCandidates.add(row.Moniker)
	}

	offerCandidates, offerApplications := idSet{}, idSet{}
	for _, row := range offers.Rows() {
		candidateID, applicationID, _ := strings.Cut(row.Moniker, "/")
		offerCandidates.add(candidateID)
		offerApplications.add(applicationID)
	}

	return &model.ReferenceReport{Categories: []model.ReferenceCategory{
		{Title: "Candidates without applications", Members: allCandidates.minus(appCandidates)},
		{Title: "Missing candidates mentioned in applications", Members: appCandidates.minus(allCandidates)},
		{Title: "Jobs without applications", Members: allJobs.minus(appJobs)},
		{Title: "Missing jobs mentioned in applications", Members: appJobs.minus(allJobs)},
		{Title: "Candidates without scorecards", Members: allCandidates.minus(scorecardCandidates)},
		{Title: "Missing candidates mentioned in scorecards", Members: scorecardCandidates.minus(allCandidates)},
		{Title: "Missing candidates mentioned in offers", Members: offerCandidates.minus(allCandidates)},
		{Title: "Missing applications mentioned in offers", Members: offerApplications.minus(allApplications)},
	}}, nil
}

func idsOf(idx *model.Index) idSet {
	set := idSet{}
	for _, id := range idx.IDs() {
		set.add(id)
	}
	return set
}

// compareIDs orders numeric ids numerically and everything else lexically.
func compareIDs(a, b string) int {
	if isDigits(a) && isDigits(b) && len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
