package gallery

import (
	"errors"

	"github.com/coder/hnsw"
)

// hnswMaxNeighbors is the M parameter of the HNSW graph.
const hnswMaxNeighbors = 16

// Neighbor is one labeled example returned by an index lookup.
type Neighbor struct {
	Label    string
	Source   string
	Distance float64
}

// Index is an approximate nearest-neighbor index over the gallery's labeled
// examples, used for diagnostics ("which labeled faces look like this one").
// The classification path never uses it: the match rule requires the exact
// global nearest neighbor, which only the exhaustive scan guarantees.
type Index struct {
	graph    *hnsw.Graph[int]
	examples []LabeledExample
}

// NewIndex builds an index over all labeled examples in the gallery.
func NewIndex(g *Gallery) *Index {
	graph := hnsw.NewGraph[int]()
	graph.M = hnswMaxNeighbors
	graph.Ml = 1.0 / float64(hnswMaxNeighbors)
	graph.Distance = hnsw.EuclideanDistance

	ix := &Index{graph: graph}
	for _, label := range g.Labels() {
		for _, ex := range g.Examples(label) {
			id := len(ix.examples)
			ix.examples = append(ix.examples, ex)
			graph.Add(hnsw.MakeNode(id, ex.Embedding))
		}
	}
	return ix
}

// Nearest returns up to k labeled examples closest to the query embedding.
// Reported distances are exact Euclidean distances recomputed from the stored
// embeddings, not the graph's internal scores.
func (ix *Index) Nearest(embedding []float32, k int) ([]Neighbor, error) {
	if len(ix.examples) == 0 {
		return nil, errors.New("index is empty")
	}

	nodes := ix.graph.Search(embedding, k)
	neighbors := make([]Neighbor, 0, len(nodes))
	for _, n := range nodes {
		ex := ix.examples[n.Key]
		neighbors = append(neighbors, Neighbor{
			Label:    ex.Label,
			Source:   ex.Source,
			Distance: EuclideanDistance(embedding, ex.Embedding),
		})
	}
	return neighbors, nil
}

// Len returns the number of indexed examples.
func (ix *Index) Len() int {
	return len(ix.examples)
}
