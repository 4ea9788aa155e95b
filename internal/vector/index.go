// Package vector provides an in-memory cosine similarity index with upsert semantics.
package vector

import (
	"fmt"
	"sort"
	"sync"
)

// Hit is a single similarity search result.
type Hit struct {
	ID    string
	Score float64
}

type entry struct {
	vector []float32
	seq    int64 // insertion order; preserved across upserts of the same ID
}

// Index is a brute-force cosine similarity index keyed by chunk ID.
// Upserting an existing ID replaces its vector in place, keeping the original
// insertion sequence so search tie-breaking stays stable across re-ingestion.
type Index struct {
	dimensions int
	mu         sync.RWMutex
	entries    map[string]*entry
	nextSeq    int64
}

// NewIndex creates an index for vectors of the given dimension.
func NewIndex(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &Index{
		dimensions: dimensions,
		entries:    make(map[string]*entry),
	}, nil
}

// Upsert inserts or replaces vectors by ID. IDs and vectors are parallel slices.
// New IDs are assigned increasing insertion sequences; existing IDs keep theirs.
func (ix *Index) Upsert(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, id := range ids {
		if len(vectors[i]) != ix.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), ix.dimensions)
		}
		vec := make([]float32, ix.dimensions)
		copy(vec, vectors[i])
		if existing, ok := ix.entries[id]; ok {
			existing.vector = vec
			continue
		}
		ix.entries[id] = &entry{vector: vec, seq: ix.nextSeq}
		ix.nextSeq++
	}
	return nil
}

// LoadEntry inserts an entry with an explicit insertion sequence, used when
// rebuilding the index from persisted rows. nextSeq advances past seq.
func (ix *Index) LoadEntry(id string, vec []float32, seq int64) error {
	if len(vec) != ix.dimensions {
		return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vec), ix.dimensions)
	}
	v := make([]float32, ix.dimensions)
	copy(v, vec)
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries[id] = &entry{vector: v, seq: seq}
	if seq >= ix.nextSeq {
		ix.nextSeq = seq + 1
	}
	return nil
}

// LoadBatch applies a whole batch of entries with explicit sequences under a
// single lock acquisition, so concurrent searches observe either none or all
// of the batch.
func (ix *Index) LoadBatch(ids []string, vectors [][]float32, seqs []int64) error {
	if len(ids) != len(vectors) || len(ids) != len(seqs) {
		return fmt.Errorf("ids, vectors, and seqs length mismatch")
	}
	for i := range vectors {
		if len(vectors[i]) != ix.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), ix.dimensions)
		}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, id := range ids {
		v := make([]float32, ix.dimensions)
		copy(v, vectors[i])
		ix.entries[id] = &entry{vector: v, seq: seqs[i]}
		if seqs[i] >= ix.nextSeq {
			ix.nextSeq = seqs[i] + 1
		}
	}
	return nil
}

// Search returns up to k entries with cosine similarity to query of at least
// minScore, ordered by descending score. Equal scores rank the earlier-inserted
// entry first. The result is never nil.
func (ix *Index) Search(query []float32, k int, minScore float64) ([]Hit, error) {
	if len(query) != ix.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), ix.dimensions)
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if k <= 0 {
		return []Hit{}, nil
	}
	type scored struct {
		id    string
		score float64
		seq   int64
	}
	candidates := make([]scored, 0, len(ix.entries))
	for id, e := range ix.entries {
		score := CosineSimilarity(query, e.vector)
		if score < minScore {
			continue
		}
		candidates = append(candidates, scored{id: id, score: score, seq: e.seq})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].seq < candidates[j].seq
	})
	if k > len(candidates) {
		k = len(candidates)
	}
	hits := make([]Hit, k)
	for i := 0; i < k; i++ {
		hits[i] = Hit{ID: candidates[i].id, Score: candidates[i].score}
	}
	return hits, nil
}

// Size returns the number of distinct IDs in the index.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}
