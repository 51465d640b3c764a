// Package coordinator turns editor interaction events into store commands.
// It owns id generation, drop geometry, delete confirmation and the
// cascade of edge removal when a node goes away.
package coordinator

import (
	"fmt"
	"sync"
	"time"

	"github.com/screenflow/core/internal/models"
	"github.com/screenflow/core/internal/store"
)

// Default canvas chrome, in CSS pixels.
const (
	DefaultSidePanelWidth = 320
	DefaultTopBarHeight   = 100
)

// Layout describes the editor chrome around the canvas that a drop point
// has to be corrected for.
type Layout struct {
	SidePanelWidth float64 `json:"sidePanelWidth" toml:"side_panel_width"`
	TopBarHeight   float64 `json:"topBarHeight" toml:"top_bar_height"`
}

func DefaultLayout() Layout {
	return Layout{SidePanelWidth: DefaultSidePanelWidth, TopBarHeight: DefaultTopBarHeight}
}

// Point is a screen coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Outcome string

const (
	Applied  Outcome = "applied"
	Ignored  Outcome = "ignored"
	Declined Outcome = "declined"
)

// Result reports what an event did. ID is set when something was created.
// Message carries the confirmation prompt or import error shown to the user.
type Result struct {
	Outcome Outcome `json:"outcome"`
	ID      string  `json:"id,omitempty"`
	Message string  `json:"message,omitempty"`
}

func applied(ok bool) Result {
	if ok {
		return Result{Outcome: Applied}
	}
	return Result{Outcome: Ignored}
}

type Option func(*Coordinator)

// WithClock replaces time.Now for id generation and export stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithLayout(l Layout) Option {
	return func(c *Coordinator) { c.layout = l }
}

type Coordinator struct {
	mu            sync.Mutex
	store         *store.Store
	layout        Layout
	sidePanelOpen bool
	now           func() time.Time
}

func New(s *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:         s,
		layout:        DefaultLayout(),
		sidePanelOpen: true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the store the coordinator drives.
func (c *Coordinator) Store() *store.Store {
	return c.store
}

// SetSidePanelOpen records whether the catalog side panel takes up space to
// the left of the canvas.
func (c *Coordinator) SetSidePanelOpen(open bool) {
	c.mu.Lock()
	c.sidePanelOpen = open
	c.mu.Unlock()
}

// DropPosition converts a client drop point to canvas coordinates.
func (c *Coordinator) DropPosition(client, canvas Point) models.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	x := client.X - canvas.X
	if c.sidePanelOpen {
		x -= c.layout.SidePanelWidth
	}
	y := client.Y - canvas.Y - c.layout.TopBarHeight
	return models.Position{X: x, Y: y}
}

// OnDrop creates a node from the archetype at the drop point. Unknown
// archetypes are ignored.
func (c *Coordinator) OnDrop(archetypeID string, client, canvas Point) Result {
	pos := c.DropPosition(client, canvas)
	id, ok := c.store.AddNode(archetypeID, pos, func(taken func(string) bool) string {
		return c.nextID(archetypeID+"-", taken)
	})
	if !ok {
		return Result{Outcome: Ignored}
	}
	return Result{Outcome: Applied, ID: id}
}

// OnConnect appends a directional edge between two nodes. Both ends must
// be given.
func (c *Coordinator) OnConnect(source, target, sourceHandle, targetHandle string) Result {
	if source == "" || target == "" {
		return Result{Outcome: Ignored}
	}
	id := c.store.AddEdge(models.Edge{
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
		Type:         models.EdgeDirectional,
	}, func(taken func(string) bool) string {
		return c.nextID("edge-", taken)
	})
	return Result{Outcome: Applied, ID: id}
}

// nextID returns prefix followed by the current unix milliseconds, bumped
// until taken reports the id is free.
func (c *Coordinator) nextID(prefix string, taken func(string) bool) string {
	ms := c.now().UnixMilli()
	for {
		id := fmt.Sprintf("%s%d", prefix, ms)
		if !taken(id) {
			return id
		}
		ms++
	}
}

func (c *Coordinator) OnNodeDragStop(id string, pos models.Position) Result {
	return applied(c.store.MoveNode(id, pos))
}

// OnSelectNode selects an existing node. Unknown ids are ignored.
func (c *Coordinator) OnSelectNode(id string) Result {
	if _, ok := c.store.Node(id); !ok {
		return Result{Outcome: Ignored}
	}
	c.store.SelectNode(id)
	return Result{Outcome: Applied}
}

// OnSelectEdge selects an existing edge. Unknown ids are ignored.
func (c *Coordinator) OnSelectEdge(id string) Result {
	if _, ok := c.store.Edge(id); !ok {
		return Result{Outcome: Ignored}
	}
	c.store.SelectEdge(id)
	return Result{Outcome: Applied}
}

func (c *Coordinator) OnClearSelection() Result {
	c.store.ClearSelection()
	return Result{Outcome: Applied}
}

func (c *Coordinator) OnRenameProject(name string) Result {
	return applied(c.store.SetProjectName(name))
}

func (c *Coordinator) OnToggleDescription(id string) Result {
	return applied(c.store.ToggleDescription(id))
}

// OnSetPropertiesPanel opens or closes the inspector. Closing it drops the
// selection.
func (c *Coordinator) OnSetPropertiesPanel(open bool) Result {
	return applied(c.store.SetPanelOpen(open))
}
