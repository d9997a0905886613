// Package overlay attaches a de-novo mutation from a variant-call record to a
// pedigree graph.
//
// Only the first record is read. Its DNL INFO field names the sample the
// mutation was called in; the person owning that sample gets the DNT
// descriptor on their parentage link. Each sample column's format data is
// then copied onto the matching person (person columns) or sample-tree node
// (all other columns).
//
// A mutation that cannot be placed (no record, no DNL field, no owner, or an
// owner without parents) leaves the graph untouched: the report carries a
// "no mutation found" notice and Apply also returns an OVERLAY_NOT_FOUND
// error, which errors.IsFatal classifies as recoverable. Columns that match
// nothing are listed in the report and skipped.
package overlay

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/pedigree"
	"github.com/matzehuels/mutmap/pkg/sample"
	"github.com/matzehuels/mutmap/pkg/vcf"
)

// NoticeNotFound is the user-visible notice for an unresolved mutation owner.
const NoticeNotFound = "no mutation found"

// Options configures Apply.
type Options struct {
	Logger *log.Logger
}

// Report describes what Apply did.
type Report struct {
	Applied   bool             `json:"applied"`
	Owner     *pedigree.Person `json:"-"`
	Mutation  string           `json:"mutation,omitempty"`
	Notice    string           `json:"notice,omitempty"`
	Annotated []string         `json:"annotated,omitempty"`
	Unmatched []string         `json:"unmatched,omitempty"`
}

// OwnerID returns the owner's id, or 0 when no owner resolved.
func (r Report) OwnerID() pedigree.ID {
	if r.Owner == nil {
		return 0
	}
	return r.Owner.ID()
}

// Apply overlays the first record of variants onto g. The returned report is
// valid even when err is non-nil and not fatal.
func Apply(ctx context.Context, g *pedigree.Graph, variants *vcf.Data, opts Options) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	rec, location, err := firstLocation(variants)
	if err != nil {
		logger.Warn(NoticeNotFound, "reason", errors.UserMessage(err))
		return Report{Notice: NoticeNotFound}, err
	}

	m := sample.New(g)
	stripped := sample.StripPrefix(location)
	owner, ok := m.FindOwner(stripped)
	if !ok {
		logger.Warn(NoticeNotFound, "location", location)
		return Report{Notice: NoticeNotFound},
			errors.New(errors.ErrCodeOverlayNotFound, "no person owns sample %q", stripped)
	}
	link, ok := owner.ParentageLink()
	if !ok {
		notice := fmt.Sprintf("%s: owner %d has no parentage link", NoticeNotFound, owner.ID())
		logger.Warn(notice, "location", location)
		return Report{Owner: owner, Notice: notice},
			errors.New(errors.ErrCodeOverlayNotFound, "owner %d of sample %q is a founder", owner.ID(), stripped)
	}

	descriptor, _ := rec.InfoString(vcf.InfoDescriptor)
	link.SetMutation(descriptor)
	logger.Info("mutation attached", "owner", owner.ID(), "mutation", descriptor, "location", location)

	report := Report{Applied: true, Owner: owner, Mutation: descriptor}
	for _, name := range variants.Header.SampleNames {
		if err := annotate(g, m, rec, name); err != nil {
			logger.Debug("sample column skipped", "column", name, "reason", errors.Detail(err))
			report.Unmatched = append(report.Unmatched, name)
			continue
		}
		report.Annotated = append(report.Annotated, name)
	}
	return report, nil
}

func firstLocation(variants *vcf.Data) (*vcf.Record, string, error) {
	if variants == nil || len(variants.Records) == 0 {
		return nil, "", errors.New(errors.ErrCodeOverlayNotFound, "variant data has no records")
	}
	rec := &variants.Records[0]
	location, ok := rec.InfoString(vcf.InfoLocation)
	if !ok || location == "" {
		return nil, "", errors.New(errors.ErrCodeOverlayNotFound, "first record has no %s field", vcf.InfoLocation)
	}
	return rec, location, nil
}

func annotate(g *pedigree.Graph, m *sample.Matcher, rec *vcf.Record, name string) error {
	if err := errors.ValidateSampleName(name); err != nil {
		return errors.Wrap(errors.ErrCodeUnmatchedSample, err, "column %q", name)
	}
	format, ok := rec.Sample(name)
	if !ok {
		return errors.New(errors.ErrCodeUnmatchedSample, "record has no data for column %q", name)
	}

	if sample.IsPersonColumn(name) {
		id, ok := sample.PersonID(name)
		if !ok {
			return errors.New(errors.ErrCodeUnmatchedSample, "column %q has no person id", name)
		}
		p, err := g.Person(id)
		if err != nil {
			return errors.Wrap(errors.ErrCodeUnmatchedSample, err, "column %q", name)
		}
		p.OutputData = format
		return nil
	}

	leaf, ok := m.FindSampleLeaf(sample.StripPrefix(name))
	if !ok {
		return errors.New(errors.ErrCodeUnmatchedSample, "no sample matches column %q", name)
	}
	leaf.OutputData = format
	return nil
}
