// Package validate checks projects against structural and business
// rules before any generation proceeds. Validation never mutates its
// input; every check is a bounded single pass over the project's
// children.
package validate

import (
	"fmt"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// Level selects how deep validation goes.
type Level string

const (
	// LevelBasic checks required fields and enum conformance.
	LevelBasic Level = "basic"
	// LevelComprehensive adds cross-field rules: date ordering,
	// lifecycle legality, uniqueness.
	LevelComprehensive Level = "comprehensive"
	// LevelStrict adds semantic checks. Strict findings are warnings
	// unless escalated via Options.EscalateStrict.
	LevelStrict Level = "strict"
)

// ParseLevel converts a config string into a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelBasic, LevelComprehensive, LevelStrict:
		return Level(s), nil
	case "":
		return LevelComprehensive, nil
	}
	return "", fmt.Errorf("unknown validation level %q", s)
}

func (l Level) includes(other Level) bool {
	order := map[Level]int{LevelBasic: 0, LevelComprehensive: 1, LevelStrict: 2}
	return order[l] >= order[other]
}

// Options configures a Validator.
type Options struct {
	Level Level

	// EscalateStrict promotes strict-level findings from warnings to
	// blocking errors.
	EscalateStrict bool

	// TakenNames holds project names already in use within the user's
	// scope, for the uniqueness check. The project's own name may be
	// present when re-validating a stored project; pass names of
	// *other* projects only.
	TakenNames []string
}

// Validator checks Project instances. Zero-value options default to
// comprehensive level.
type Validator struct {
	opts Options
}

// New creates a validator.
func New(opts Options) *Validator {
	if opts.Level == "" {
		opts.Level = LevelComprehensive
	}
	return &Validator{opts: opts}
}

// Validate checks p and returns a report. Generation must refuse to
// proceed when the report is invalid.
func (v *Validator) Validate(p *model.Project) *Report {
	r := NewReport()
	if p == nil {
		r.AddError("project", KindRequired, "project is nil")
		return r
	}

	v.checkBasic(p, r)
	if v.opts.Level.includes(LevelComprehensive) {
		v.checkComprehensive(p, r)
	}
	if v.opts.Level.includes(LevelStrict) {
		v.checkStrict(p, r)
	}
	return r
}

func (v *Validator) checkBasic(p *model.Project, r *Report) {
	if p.ID == "" {
		r.AddError("id", KindRequired, "project id is required")
	}
	if p.Name == "" {
		r.AddError("name", KindRequired, "project name is required")
	} else if !model.ValidName(p.Name) {
		r.AddError("name", KindFormat,
			"name must be 1-%d characters and start/end alphanumeric", model.NameMaxLen)
	}
	if len([]rune(p.Description)) > model.DescriptionMaxLen {
		r.AddError("description", KindRange,
			"description exceeds %d characters", model.DescriptionMaxLen)
	}
	if !p.Status.Valid() {
		r.AddError("status", KindFormat, "unknown status %q", p.Status)
	}
	if p.CreatedAt.IsZero() {
		r.AddError("created_at", KindRequired, "creation timestamp is required")
	}
	if p.UpdatedAt.IsZero() {
		r.AddError("updated_at", KindRequired, "update timestamp is required")
	}

	for i, f := range p.Features {
		path := fmt.Sprintf("features[%d]", i)
		if f.Name == "" {
			r.AddError(path+".name", KindRequired, "feature name is required")
		}
		if !f.Priority.Valid() {
			r.AddError(path+".priority", KindFormat, "unknown priority %q", f.Priority)
		}
		if !f.Status.Valid() {
			r.AddError(path+".status", KindFormat, "unknown feature status %q", f.Status)
		}
	}
	for i, ph := range p.Phases {
		if ph.Name == "" {
			r.AddError(fmt.Sprintf("phases[%d].name", i), KindRequired, "phase name is required")
		}
	}
}

func (v *Validator) checkComprehensive(p *model.Project, r *Report) {
	if !p.CreatedAt.IsZero() && !p.UpdatedAt.IsZero() && p.UpdatedAt.Before(p.CreatedAt) {
		r.AddError("updated_at", KindOrdering, "updated_at precedes created_at")
	}
	if p.Status == model.StatusDeleted {
		r.AddError("status", KindTransition, "project is deleted; restore is not permitted")
	}

	for _, taken := range v.opts.TakenNames {
		if taken == p.Name {
			r.AddError("name", KindUniqueness, "project name %q is already in use", p.Name)
			break
		}
	}

	for i, ph := range p.Phases {
		if ph.StartDate != nil && ph.EndDate != nil && ph.EndDate.Before(*ph.StartDate) {
			r.AddError(fmt.Sprintf("phases[%d].start_date", i), KindOrdering,
				"phase %q starts after it ends", ph.Name)
		}
	}
}

// checkStrict records semantic findings. They land as warnings unless
// EscalateStrict is set.
func (v *Validator) checkStrict(p *model.Project, r *Report) {
	add := r.AddWarning
	if v.opts.EscalateStrict {
		add = func(field, format string, args ...any) {
			r.AddError(field, KindReference, format, args...)
		}
	}

	seenFeatures := make(map[string]int, len(p.Features))
	for i, f := range p.Features {
		if f.ID == "" {
			add(fmt.Sprintf("features[%d].id", i), "feature %q has no id", f.Name)
		}
		if prev, ok := seenFeatures[f.Name]; ok && f.Name != "" {
			add(fmt.Sprintf("features[%d].name", i),
				"duplicate feature name %q (also features[%d])", f.Name, prev)
		} else {
			seenFeatures[f.Name] = i
		}
	}

	seenPhases := make(map[string]int, len(p.Phases))
	for i, ph := range p.Phases {
		if prev, ok := seenPhases[ph.Name]; ok && ph.Name != "" {
			add(fmt.Sprintf("phases[%d].name", i),
				"duplicate phase name %q (also phases[%d])", ph.Name, prev)
		} else {
			seenPhases[ph.Name] = i
		}
		for j, d := range ph.Deliverables {
			if d.Name == "" {
				add(fmt.Sprintf("phases[%d].deliverables[%d]", i, j),
					"deliverable in phase %q has no name", ph.Name)
			}
		}
	}

	for key := range p.Metadata {
		if key == "" {
			add("metadata", "metadata contains an empty key")
		}
	}
}
