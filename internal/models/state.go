// Package models defines the core data structures of a screenflow project.
// It includes the node, edge and UI option entities and their value rules.
package models

type ProjectMeta struct {
	ProjectName string `json:"projectName"`
	IsDirty     bool   `json:"isDirty"`
	LastSaved   string `json:"lastSaved,omitempty"`
}

// DefaultMeta returns the metadata of a brand new project.
func DefaultMeta() ProjectMeta {
	return ProjectMeta{ProjectName: DefaultProjectName}
}

// Selection holds at most one of SelectedNodeID and SelectedEdgeID.
type Selection struct {
	SelectedNodeID      string `json:"selectedNodeId,omitempty"`
	SelectedEdgeID      string `json:"selectedEdgeId,omitempty"`
	PropertiesPanelOpen bool   `json:"propertiesPanelOpen"`
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.SelectedNodeID == "" && s.SelectedEdgeID == ""
}

// Snapshot is the serializable part of a project used for rendering,
// export and persistence round-trips.
type Snapshot struct {
	ProjectName string         `json:"projectName"`
	Nodes       []NodeInstance `json:"nodes"`
	Edges       []Edge         `json:"edges"`
}

// State is everything the browser needs to redraw the editor. Version
// increases with every change, so a newer state always has a larger one.
type State struct {
	Snapshot
	Meta      ProjectMeta `json:"meta"`
	Selection Selection   `json:"selection"`
	Version   uint64      `json:"version"`
}
