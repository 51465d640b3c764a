package store

import (
	"time"

	"github.com/screenflow/core/internal/models"
)

// TimestampLayout matches the ISO-8601 form browsers produce.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// SetProjectName renames the project and dirties it.
func (s *Store) SetProjectName(name string) bool {
	return s.apply(true, func() bool {
		if s.meta.ProjectName == name {
			return false
		}
		s.meta.ProjectName = name
		return true
	})
}

// MarkSaved clears the dirty flag and records the save time.
func (s *Store) MarkSaved(at time.Time) {
	s.apply(false, func() bool {
		s.meta.IsDirty = false
		s.meta.LastSaved = at.UTC().Format(TimestampLayout)
		return true
	})
}

// LoadMeta sets name and last-saved time from an imported document and
// leaves the project clean.
func (s *Store) LoadMeta(name, lastSaved string) {
	s.apply(false, func() bool {
		s.meta = models.ProjectMeta{ProjectName: name, LastSaved: lastSaved}
		return true
	})
}

// ResetProject restores the default metadata.
func (s *Store) ResetProject() {
	s.apply(false, func() bool {
		s.meta = models.DefaultMeta()
		return true
	})
}

// SelectNode selects the node, deselects any edge and opens the panel.
func (s *Store) SelectNode(id string) bool {
	return s.setSelection(models.Selection{SelectedNodeID: id, PropertiesPanelOpen: true})
}

// SelectEdge selects the edge, deselects any node and opens the panel.
func (s *Store) SelectEdge(id string) bool {
	return s.setSelection(models.Selection{SelectedEdgeID: id, PropertiesPanelOpen: true})
}

// ClearSelection deselects everything and closes the panel.
func (s *Store) ClearSelection() bool {
	return s.setSelection(models.Selection{})
}

// SetPanelOpen opens or closes the properties panel. Closing it also
// clears the selection.
func (s *Store) SetPanelOpen(open bool) bool {
	if !open {
		return s.ClearSelection()
	}
	return s.apply(false, func() bool {
		if s.selection.PropertiesPanelOpen {
			return false
		}
		s.selection.PropertiesPanelOpen = true
		return true
	})
}

func (s *Store) setSelection(sel models.Selection) bool {
	return s.apply(false, func() bool {
		if s.selection == sel {
			return false
		}
		s.selection = sel
		return true
	})
}
