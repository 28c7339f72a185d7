// Package report renders command outcomes as plain text for the terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/target/harvest-extract/internal/domain/model"
	"github.com/target/harvest-extract/internal/service"
	"github.com/target/harvest-extract/internal/util"
)

var errNoReport = errors.New("outcome carries no report")

// statsLabels pairs each entity type with its display label.
var statsLabels = []struct {
	entity model.EntityType
	label  string
}{
	{model.EntityApplications, "Applications"},
	{model.EntityCandidates, "Candidates"},
	{model.EntityJobs, "Jobs"},
	{model.EntityOffers, "Offers"},
	{model.EntityProspectPools, "Pools"},
	{model.EntityScorecards, "Scorecards"},
	{model.EntitySources, "Sources"},
}

// Render writes whichever report the outcome carries.
func Render(w io.Writer, out *service.Outcome) error {
	if out == nil {
		return errNoReport
	}
	switch {
	case out.Summary != nil:
		return Summary(w, out.Summary)
	case out.Check != nil:
		return Check(w, out.Check)
	case out.Stats != nil:
		return Stats(w, out.Stats)
	case out.References != nil:
		return References(w, out.References)
	default:
		return errNoReport
	}
}

// Summary writes the totals line of an extraction run followed by its failures.
func Summary(w io.Writer, s *model.RunSummary) error {
	if err := writef(w, "%s: fetched %d, saved %d, skipped %d, failed %d in %s\n",
		s.Command, s.Fetched, s.Saved, s.Skipped, s.Failed(), util.FormatProcessingDuration(s.Duration)); err != nil {
		return err
	}

	if len(s.Failures) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, f := range s.Failures {
			if err := writef(tw, "  %s\t%s\t%v\n", f.Entity, displayID(f.ID), f.Err); err != nil {
				return err
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if s.Aborted != nil {
		return writef(w, "aborted: %v\n", s.Aborted)
	}
	return nil
}

// Check writes every discrepancy, then the candidates whose attachments need a re-run.
func Check(w io.Writer, r *model.CheckReport) error {
	rows := 0
	for _, n := range r.Checked {
		rows += n
	}
	if r.Clean() {
		return writef(w, "Cache is consistent (%d index rows checked)\n", rows)
	}

	if err := writef(w, "Found %d discrepancies (%d index rows checked)\n\n", len(r.Discrepancies), rows); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "KIND\tENTITY\tID\tPATH\tDETAIL\n"); err != nil {
		return err
	}
	for _, d := range r.Discrepancies {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n", d.Kind, d.Entity, displayID(d.ID), d.Path, d.Detail); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if ids := r.IncompleteCandidates(); len(ids) > 0 {
		return writef(w, "\nCandidates with incomplete attachments: %s\n", strings.Join(ids, ", "))
	}
	return nil
}

// Stats writes one aligned count per entity type, then the candidate-side counts.
func Stats(w io.Writer, s *model.CacheStats) error {
	for _, l := range statsLabels {
		if err := writef(w, "%-14s%5d\n", l.label+":", s.Records[l.entity]); err != nil {
			return err
		}
	}
	if err := writef(w, "%-14s%5d\n", "Feeds:", s.ActivityFeeds); err != nil {
		return err
	}
	if err := writef(w, "%-14s%5d\n", "Attachments:", s.Attachments); err != nil {
		return err
	}
	return writef(w, "%-14s%5d\n", "Complete:", s.CompleteAttachments)
}

// References writes each category with its size; small categories list their members.
func References(w io.Writer, r *model.ReferenceReport) error {
	for _, c := range r.Categories {
		if err := writef(w, "%s: %d\n", c.Title, len(c.Members)); err != nil {
			return err
		}
		if len(c.Members) > service.ReferenceListLimit {
			continue
		}
		for _, id := range c.Members {
			if err := writef(w, "    %s\n", id); err != nil {
				return err
			}
		}
	}
	return nil
}

func displayID(id string) string {
	if id == "" {
		return "-"
	}
	return id
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
