package store

import (
	"github.com/samber/lo"

	"github.com/screenflow/core/internal/models"
)

// CreateEdge appends the edge. Parallel edges between the same two nodes
// are allowed and endpoints are not checked.
func (s *Store) CreateEdge(edge models.Edge) bool {
	return s.apply(true, func() bool {
		s.edges = append(s.edges, edge)
		return true
	})
}

// AddEdge appends the edge with an id chosen under the store lock, the
// way AddNode does for nodes, and returns that id.
func (s *Store) AddEdge(edge models.Edge, pick func(taken func(string) bool) string) string {
	s.apply(true, func() bool {
		edge.ID = pick(func(id string) bool { return s.edgeLocked(id) != nil })
		s.edges = append(s.edges, edge)
		return true
	})
	return edge.ID
}

func (s *Store) DeleteEdge(id string) bool {
	return s.apply(true, func() bool {
		before := len(s.edges)
		s.edges = lo.Reject(s.edges, func(e models.Edge, _ int) bool { return e.ID == id })
		return len(s.edges) != before
	})
}

// DeleteEdgesFor removes every edge with nodeID at either end and returns
// the ids it removed.
func (s *Store) DeleteEdgesFor(nodeID string) []string {
	var removed []string
	s.apply(true, func() bool {
		kept := s.edges[:0:0]
		for _, e := range s.edges {
			if e.Touches(nodeID) {
				removed = append(removed, e.ID)
				continue
			}
			kept = append(kept, e)
		}
		s.edges = kept
		return len(removed) > 0
	})
	return removed
}

func (s *Store) SetEdgeLabel(id, label string) bool {
	return s.apply(true, func() bool {
		e := s.edgeLocked(id)
		if e == nil {
			return false
		}
		e.Label = label
		return true
	})
}

// SetEdgeType changes how the edge is drawn. Unknown types are ignored.
func (s *Store) SetEdgeType(id string, t models.EdgeType) bool {
	if !t.Valid() {
		return false
	}
	return s.apply(true, func() bool {
		e := s.edgeLocked(id)
		if e == nil {
			return false
		}
		e.Type = t
		return true
	})
}
