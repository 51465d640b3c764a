// Package store is the authoritative in-memory model of a project: node and
// edge collections, project metadata and the current selection.
//
// All mutations are named commands. A command reports whether it changed
// anything; lookup misses are silent no-ops. Commands that edit the diagram
// set the dirty flag themselves.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/screenflow/core/internal/catalog"
	"github.com/screenflow/core/internal/models"
)

// Archetypes resolves archetype ids for CreateNode.
type Archetypes interface {
	Get(id string) *catalog.Archetype
}

// Observer is called with a copy of the state after every change.
// Observers are called one at a time, in the order the changes were made,
// and must not issue commands on the store.
type Observer func(models.State)

type Option func(*Store)

// WithOptionIDs replaces the generator used for new UI option ids.
func WithOptionIDs(fn func(instanceID string) string) Option {
	return func(s *Store) { s.newOptionID = fn }
}

func defaultOptionID(instanceID string) string {
	return instanceID + "-option-" + uuid.NewString()
}

type Store struct {
	mu        sync.Mutex
	archetype Archetypes

	nodes     []models.NodeInstance
	edges     []models.Edge
	meta      models.ProjectMeta
	selection models.Selection

	newOptionID func(string) string
	observers   []Observer
	batch       int
	pending     bool
	version     uint64

	// ticket numbers notifications under mu; delivered is the last ticket
	// handed to observers.
	ticket    uint64
	deliverMu sync.Mutex
	delivered uint64
	turn      *sync.Cond
}

// New creates an empty project backed by the given archetypes.
func New(archetypes Archetypes, opts ...Option) *Store {
	s := &Store{
		archetype:   archetypes,
		meta:        models.DefaultMeta(),
		newOptionID: defaultOptionID,
	}
	s.turn = sync.NewCond(&s.deliverMu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to be called after every state change.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Batch runs fn and delivers a single notification for all the changes it
// made. Commands inside fn still apply immediately.
func (s *Store) Batch(fn func()) {
	s.mu.Lock()
	s.batch++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.batch--
		if s.batch > 0 || !s.pending {
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.publishLocked()
	}()

	fn()
}

// apply runs fn under the lock. When fn reports a change the dirty flag is
// set (if dirty is true) and observers are notified.
func (s *Store) apply(dirty bool, fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if !changed {
		s.mu.Unlock()
		return false
	}
	if dirty {
		s.meta.IsDirty = true
	}
	s.version++
	if s.batch > 0 {
		s.pending = true
		s.mu.Unlock()
		return true
	}
	s.publishLocked()
	return true
}

// publishLocked takes a ticket and a copy of the state, releases mu and
// notifies observers once every earlier ticket has been delivered.
func (s *Store) publishLocked() {
	s.ticket++
	ticket, state, observers := s.ticket, s.stateLocked(), s.observers
	s.mu.Unlock()

	s.deliverMu.Lock()
	for s.delivered+1 != ticket {
		s.turn.Wait()
	}
	s.deliverMu.Unlock()

	defer func() {
		s.deliverMu.Lock()
		s.delivered = ticket
		s.turn.Broadcast()
		s.deliverMu.Unlock()
	}()
	for _, o := range observers {
		o(state)
	}
}

func (s *Store) stateLocked() models.State {
	return models.State{
		Snapshot:  s.snapshotLocked(),
		Meta:      s.meta,
		Selection: s.selection,
		Version:   s.version,
	}
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		ProjectName: s.meta.ProjectName,
		Nodes:       models.CloneNodes(s.nodes),
		Edges:       models.CloneEdges(s.edges),
	}
}

// State returns a deep copy of the whole editor state.
func (s *Store) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Snapshot returns a deep copy of the serializable project content.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Meta() models.ProjectMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

func (s *Store) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Node returns a copy of the node with the given instance id.
func (s *Store) Node(id string) (models.NodeInstance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nodeLocked(id)
	if n == nil {
		return models.NodeInstance{}, false
	}
	return n.Clone(), true
}

// Edge returns a copy of the edge with the given id.
func (s *Store) Edge(id string) (models.Edge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.edges, func(e models.Edge) bool { return e.ID == id })
}

// EdgesFor returns the edges with nodeID at either end.
func (s *Store) EdgesFor(nodeID string) []models.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.edges, func(e models.Edge, _ int) bool { return e.Touches(nodeID) })
}

func (s *Store) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

func (s *Store) EdgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}

func (s *Store) nodeLocked(id string) *models.NodeInstance {
	_, i, ok := lo.FindIndexOf(s.nodes, func(n models.NodeInstance) bool { return n.Config.ID == id })
	if !ok {
		return nil
	}
	return &s.nodes[i]
}

func (s *Store) edgeLocked(id string) *models.Edge {
	_, i, ok := lo.FindIndexOf(s.edges, func(e models.Edge) bool { return e.ID == id })
	if !ok {
		return nil
	}
	return &s.edges[i]
}

// ReplaceAll swaps in a new node and edge list without dirtying the
// project. Used by import.
func (s *Store) ReplaceAll(nodes []models.NodeInstance, edges []models.Edge) {
	s.apply(false, func() bool {
		s.nodes = models.CloneNodes(nodes)
		s.edges = models.CloneEdges(edges)
		return true
	})
}

// Clear removes every node and edge without dirtying the project.
func (s *Store) Clear() {
	s.apply(false, func() bool {
		s.nodes = nil
		s.edges = nil
		return true
	})
}
