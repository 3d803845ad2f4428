package insight

// Store is the per-run knowledge graph: an arena of insights plus an
// adjacency list of citation edges keyed by arena index. Insertion order is
// preserved so every derived view is reproducible. The store is not safe for
// concurrent use; one synthesis run owns it end to end and the ingestion
// step finishes before any read happens.
type Store struct {
	arena []Insight
	index map[string]int
	edges [][]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: map[string]int{}}
}

// Add inserts the insight, overwriting any previous entry with the same ID.
// Citation edges are created only toward insights already present, so the
// graph can never hold a dangling endpoint.
func (s *Store) Add(in Insight) {
	if idx, ok := s.index[in.ID]; ok {
		s.arena[idx] = in
		s.edges[idx] = s.relatedIndexes(in)
		return
	}
	s.index[in.ID] = len(s.arena)
	s.arena = append(s.arena, in)
	s.edges = append(s.edges, s.relatedIndexes(in))
}

func (s *Store) relatedIndexes(in Insight) []int {
	var out []int
	for _, id := range in.Related {
		if idx, ok := s.index[id]; ok && s.arena[idx].ID != in.ID {
			out = append(out, idx)
		}
	}
	return out
}

// Len reports how many insights the store holds.
func (s *Store) Len() int {
	return len(s.arena)
}

// Get returns the insight with the given ID.
func (s *Store) Get(id string) (Insight, bool) {
	idx, ok := s.index[id]
	if !ok {
		return Insight{}, false
	}
	return s.arena[idx], true
}

// Insights returns all insights in insertion order. The slice is a copy;
// mutating it does not affect the store.
func (s *Store) Insights() []Insight {
	return append([]Insight(nil), s.arena...)
}

// EdgeCount reports the number of citation edges in the graph.
func (s *Store) EdgeCount() int {
	total := 0
	for _, adj := range s.edges {
		total += len(adj)
	}
	return total
}

// Related returns the insights cited by the given ID, in citation order.
func (s *Store) Related(id string) []Insight {
	idx, ok := s.index[id]
	if !ok {
		return nil
	}
	out := make([]Insight, 0, len(s.edges[idx]))
	for _, target := range s.edges[idx] {
		out = append(out, s.arena[target])
	}
	return out
}

// ByPerspective groups insight contents by perspective, preserving insertion
// order within each group.
func (s *Store) ByPerspective() map[Perspective][]Insight {
	out := map[Perspective][]Insight{}
	for _, in := range s.arena {
		out[in.Perspective] = append(out[in.Perspective], in)
	}
	return out
}
