package coordinator

import (
	"fmt"
	"time"

	"github.com/screenflow/core/internal/models"
	"github.com/screenflow/core/internal/parser"
	"github.com/screenflow/core/internal/store"
)

// OnDeleteNode asks for confirmation and then removes the node, every edge
// attached to it and the current selection as one change.
func (c *Coordinator) OnDeleteNode(id string, confirmer Confirmer) Result {
	n, ok := c.store.Node(id)
	if !ok {
		return Result{Outcome: Ignored}
	}
	msg := deleteNodeMessage(n.Config.Label)
	if !confirm(confirmer, msg) {
		return Result{Outcome: Declined, Message: msg}
	}
	c.store.Batch(func() {
		c.store.DeleteNode(id)
		c.store.DeleteEdgesFor(id)
		c.store.ClearSelection()
	})
	return Result{Outcome: Applied}
}

// OnDeleteEdge asks for confirmation and then removes the edge and clears
// the selection.
func (c *Coordinator) OnDeleteEdge(id string, confirmer Confirmer) Result {
	if _, ok := c.store.Edge(id); !ok {
		return Result{Outcome: Ignored}
	}
	if !confirm(confirmer, deleteEdgeMessage) {
		return Result{Outcome: Declined, Message: deleteEdgeMessage}
	}
	c.store.Batch(func() {
		c.store.DeleteEdge(id)
		c.store.ClearSelection()
	})
	return Result{Outcome: Applied}
}

// OnNewProject discards the current project. Unsaved changes need
// confirmation first.
func (c *Coordinator) OnNewProject(confirmer Confirmer) Result {
	if c.store.Meta().IsDirty && !confirm(confirmer, newProjectMessage) {
		return Result{Outcome: Declined, Message: newProjectMessage}
	}
	c.store.Batch(func() {
		c.store.Clear()
		c.store.ClearSelection()
		c.store.ResetProject()
	})
	return Result{Outcome: Applied}
}

func (c *Coordinator) OnSetOptionValue(nodeID string, index int, value any) Result {
	return applied(c.store.SetUIOptionValue(nodeID, index, value))
}

func (c *Coordinator) OnSetOptionProperty(nodeID string, index int, prop store.OptionProperty, value any) Result {
	return applied(c.store.SetUIOptionProperty(nodeID, index, prop, value))
}

func (c *Coordinator) OnAddOption(nodeID string, d store.OptionDraft) Result {
	id, ok := c.store.AddUIOption(nodeID, d)
	if !ok {
		return Result{Outcome: Ignored}
	}
	return Result{Outcome: Applied, ID: id}
}

func (c *Coordinator) OnRemoveOption(nodeID string, index int) Result {
	return applied(c.store.RemoveUIOption(nodeID, index))
}

func (c *Coordinator) OnReorderOptions(nodeID, moving, target string) Result {
	return applied(c.store.ReorderUIOptions(nodeID, moving, target))
}

func (c *Coordinator) OnSetEdgeLabel(id, label string) Result {
	return applied(c.store.SetEdgeLabel(id, label))
}

func (c *Coordinator) OnSetEdgeType(id string, t models.EdgeType) Result {
	return applied(c.store.SetEdgeType(id, t))
}

// OnImport replaces the project with the document in data. A document that
// fails validation leaves the store untouched and its error is returned.
func (c *Coordinator) OnImport(data []byte) (Result, error) {
	doc, err := parser.ParseProject(data)
	if err != nil {
		return Result{Outcome: Ignored, Message: err.Error()}, err
	}
	c.store.Batch(func() {
		c.store.Clear()
		c.store.ReplaceAll(doc.Nodes, doc.Edges)
		c.store.ClearSelection()
		c.store.LoadMeta(doc.ProjectName, doc.ExportedAt)
	})
	return Result{Outcome: Applied}, nil
}

// OnExport builds the export document for the current project and marks
// it saved at the export time.
func (c *Coordinator) OnExport() (models.ProjectDocument, []byte, error) {
	now := c.now()
	doc := parser.BuildDocument(c.store.Snapshot(), now)
	data, err := parser.Encode(doc)
	if err != nil {
		return models.ProjectDocument{}, nil, fmt.Errorf("export %q: %w", doc.ProjectName, err)
	}
	c.store.MarkSaved(now)
	return doc, data, nil
}

// Now returns the coordinator's clock reading.
func (c *Coordinator) Now() time.Time {
	return c.now()
}
