package gallery

import "math"

// DefaultThreshold is the default maximum Euclidean distance at which two
// embeddings are considered the same identity. The threshold is an exclusive
// upper bound: a distance exactly equal to it does not match.
const DefaultThreshold = 1.0

// DecisionKind classifies the outcome of matching one face embedding.
type DecisionKind string

const (
	// DecisionUnmatched means no gallery example is within the threshold.
	DecisionUnmatched DecisionKind = "unmatched"
	// DecisionExcluded means the nearest example carries the exclusion label.
	DecisionExcluded DecisionKind = "excluded"
	// DecisionMatched means the nearest example carries a person label.
	DecisionMatched DecisionKind = "matched"
)

// MatchDecision is the outcome of matching one face embedding against the
// gallery. Label is set only for matched and excluded decisions. NearestLabel
// and Distance always describe the global nearest neighbor (when the gallery
// is non-empty) and are provided for diagnostics.
type MatchDecision struct {
	Kind         DecisionKind
	Label        string
	NearestLabel string
	Distance     float64
}

// EuclideanDistance computes the Euclidean distance between two vectors.
// Returns +Inf for mismatched or empty inputs.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Match classifies one face embedding against the gallery.
//
// The single global nearest neighbor across all labels, including the
// exclusion label, governs the decision: if its distance is not strictly
// below the threshold the face is unmatched; if it carries the exclusion
// label the face is excluded, even when some person label also has an
// example within the threshold; otherwise the face matches its label.
//
// Exact distance ties are broken by the gallery's stable label order
// (earlier label wins). Callers must not rely on tie outcome.
func (g *Gallery) Match(embedding []float32, threshold float64) MatchDecision {
	bestLabel := ""
	bestDistance := math.Inf(1)

	for _, label := range g.labels {
		for _, ex := range g.examples[label] {
			if d := EuclideanDistance(embedding, ex.Embedding); d < bestDistance {
				bestDistance = d
				bestLabel = label
			}
		}
	}

	decision := MatchDecision{
		NearestLabel: bestLabel,
		Distance:     bestDistance,
	}

	switch {
	case !(bestDistance < threshold):
		decision.Kind = DecisionUnmatched
	case bestLabel == NoneLabel:
		decision.Kind = DecisionExcluded
		decision.Label = NoneLabel
	default:
		decision.Kind = DecisionMatched
		decision.Label = bestLabel
	}

	return decision
}
