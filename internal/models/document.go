// Package models defines the core data structures of a screenflow project.
// It includes the node, edge and UI option entities and their value rules.
package models

// DocumentVersion is written to every exported project file.
const DocumentVersion = "1.0"

// ProjectDocument is the JSON file produced by export and accepted by import.
type ProjectDocument struct {
	ProjectName string         `json:"projectName"`
	Nodes       []NodeInstance `json:"nodes"`
	Edges       []Edge         `json:"edges"`
	ExportedAt  string         `json:"exportedAt"`
	Version     string         `json:"version"`
}

// Snapshot returns the project content of the document.
func (d ProjectDocument) Snapshot() Snapshot {
	return Snapshot{
		ProjectName: d.ProjectName,
		Nodes:       d.Nodes,
		Edges:       d.Edges,
	}
}
