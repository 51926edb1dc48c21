package gallery

// LabeledExample is one labeled face embedding together with its source image.
type LabeledExample struct {
	Label     string
	Source    string // labeled image filename the embedding was derived from
	Embedding []float32
}

// Gallery maps class labels to the labeled face embeddings derived from the
// labeled folder. It is built once per invocation and read-only afterwards,
// so it is safe to share across worker goroutines without locking.
//
// Labels keep a stable first-insertion order. Because the builder inserts
// examples in sorted source-filename order, the order is deterministic across
// runs and serves as the documented tie-break for equidistant matches.
type Gallery struct {
	labels   []string
	examples map[string][]LabeledExample
}

// New creates an empty gallery.
func New() *Gallery {
	return &Gallery{
		examples: make(map[string][]LabeledExample),
	}
}

// Add inserts a labeled example. Duplicate embeddings for the same label are
// kept; more examples per person improve recall.
func (g *Gallery) Add(ex LabeledExample) {
	if _, ok := g.examples[ex.Label]; !ok {
		g.labels = append(g.labels, ex.Label)
	}
	g.examples[ex.Label] = append(g.examples[ex.Label], ex)
}

// Labels returns all class labels in stable first-insertion order,
// including the exclusion label when present.
func (g *Gallery) Labels() []string {
	return g.labels
}

// PersonLabels returns the person-of-interest labels, excluding the reserved
// exclusion label.
func (g *Gallery) PersonLabels() []string {
	persons := make([]string, 0, len(g.labels))
	for _, label := range g.labels {
		if label != NoneLabel {
			persons = append(persons, label)
		}
	}
	return persons
}

// Examples returns the labeled examples for one label.
func (g *Gallery) Examples(label string) []LabeledExample {
	return g.examples[label]
}

// Size returns the total number of labeled examples across all labels.
func (g *Gallery) Size() int {
	total := 0
	for _, exs := range g.examples {
		total += len(exs)
	}
	return total
}
