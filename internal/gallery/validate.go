package gallery

import (
	"context"
	"fmt"
	"log"

	"github.com/kozaktomas/face-sorter/internal/faceapi"
)

// Policy controls how labeled-folder violations are handled.
type Policy string

const (
	// PolicyIgnore silently excludes violating images.
	PolicyIgnore Policy = "ignore"
	// PolicyWarn excludes violating images and emits one diagnostic each.
	PolicyWarn Policy = "warn"
	// PolicyRaise aborts on the first violation.
	PolicyRaise Policy = "raise"
)

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyIgnore, PolicyWarn, PolicyRaise:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown policy %q: expected ignore, warn, or raise", s)
	}
}

// handle applies the policy to one violation. Returns the violation as an
// error under raise, otherwise excludes it (logging under warn) and returns nil.
func (p Policy) handle(violation error) error {
	switch p {
	case PolicyRaise:
		return violation
	case PolicyWarn:
		log.Printf("warning: %v", violation)
	}
	return nil
}

// Violation is one labeled-folder rule violation found during validation.
type Violation struct {
	Path string
	Err  error
}

// Report summarizes a validation pass over a labeled folder.
type Report struct {
	Checked       int
	Valid         []string // filenames that passed validation, sorted
	Violations    []Violation
	LabelWarnings []string // advisory: labels that collide after normalization
}

// Validate checks the labeled folder against the naming convention and the
// exactly-one-face invariant. Under raise the first violation in filename
// order is returned as an error; under ignore and warn all violations are
// collected into the report (warn additionally logs one diagnostic each).
//
// Labels that differ only in case or diacritics are reported as advisory
// warnings: they produce distinct export folders, which is usually a labeling
// mistake rather than two different people.
func Validate(ctx context.Context, labeledDir string, pipe *faceapi.Pipeline, policy Policy) (*Report, error) {
	results, err := scanLabeled(ctx, labeledDir, pipe, 0)
	if err != nil {
		return nil, err
	}

	report := &Report{Checked: len(results)}
	labelsByNorm := make(map[string][]string)

	for _, res := range results {
		if res.err != nil {
			if err := policy.handle(res.err); err != nil {
				return nil, err
			}
			report.Violations = append(report.Violations, Violation{Path: res.path, Err: res.err})
			continue
		}

		report.Valid = append(report.Valid, res.name)
		norm := NormalizeLabel(res.label)
		if !contains(labelsByNorm[norm], res.label) {
			labelsByNorm[norm] = append(labelsByNorm[norm], res.label)
		}
	}

	for _, variants := range labelsByNorm {
		if len(variants) > 1 {
			warning := fmt.Sprintf("labels %v differ only in case or diacritics and will export to separate folders", variants)
			report.LabelWarnings = append(report.LabelWarnings, warning)
			if policy == PolicyWarn {
				log.Printf("warning: %s", warning)
			}
		}
	}

	return report, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
