// Package store keeps published knowledge graphs in memory, keyed by graph
// id. Lifecycle rules: a graph is inserted whole exactly once, never
// mutated afterwards, and evicted by LRU capacity or explicit delete.
// Readers (query engine, layout generator) may access a published graph
// concurrently without locks of their own.
package store

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// DefaultCapacity is the default number of graphs kept before LRU
// eviction.
const DefaultCapacity = 16

// ErrGraphNotFound is returned when the requested graph id is unknown
// (possibly evicted).
var ErrGraphNotFound = errors.New("graph not found")

// ErrEmptyStore is returned when a default lookup runs against a store
// with no graphs.
var ErrEmptyStore = errors.New("no graph has been published yet")

// ErrDuplicatePublish is returned when a graph id is inserted twice;
// published graphs are immutable and cannot be replaced in place.
var ErrDuplicatePublish = errors.New("graph id already published")

// Store is an insert-once graph store with LRU eviction.
type Store struct {
	mu     sync.RWMutex
	graphs *lru.Cache[string, *graph.KnowledgeGraph]
	// recent holds resident ids in publish order, newest last. The cache's
	// eviction hook prunes it, so it never outgrows the cache capacity.
	recent []string
}

// New creates a Store. A capacity of zero or less selects DefaultCapacity.
func New(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{}
	cache, err := lru.NewWithEvict(capacity, func(id string, _ *graph.KnowledgeGraph) {
		// Runs under s.mu: the cache is only touched by methods holding it.
		s.dropRecent(id)
	})
	if err != nil {
		return nil, fmt.Errorf("creating graph cache: %w", err)
	}
	s.graphs = cache
	return s, nil
}

// dropRecent removes one id from the publish-order list.
func (s *Store) dropRecent(id string) {
	for i, rid := range s.recent {
		if rid == id {
			s.recent = append(s.recent[:i], s.recent[i+1:]...)
			return
		}
	}
}

// Publish inserts a completed graph atomically. Publishing the same id
// twice is an error; a re-analysis of the same root produces a new graph
// with a new id instead.
func (s *Store) Publish(g *graph.KnowledgeGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs.Peek(g.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePublish, g.ID)
	}
	s.graphs.Add(g.ID, g)
	s.recent = append(s.recent, g.ID)
	return nil
}

// Get returns the graph with the given id. An empty id selects the most
// recently published graph that is still resident.
func (s *Store) Get(id string) (*graph.KnowledgeGraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		if len(s.recent) == 0 {
			return nil, ErrEmptyStore
		}
		if g, ok := s.graphs.Get(s.recent[len(s.recent)-1]); ok {
			return g, nil
		}
		return nil, ErrEmptyStore
	}

	g, ok := s.graphs.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGraphNotFound, id)
	}
	return g, nil
}

// Delete removes a graph explicitly. Deleting an unknown id is an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.graphs.Remove(id) {
		return fmt.Errorf("%w: %s", ErrGraphNotFound, id)
	}
	return nil
}

// Len returns the number of resident graphs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graphs.Len()
}

// IDs returns the resident graph ids in publish order, oldest first.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.recent))
	copy(ids, s.recent)
	return ids
}
