// Package parser reads and writes screenflow project documents.
// It handles import validation, legacy id migration and export file naming.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/screenflow/core/internal/models"
)

// ImportedProjectName is used when an imported document has no name.
const ImportedProjectName = "Imported Project"

var (
	ErrInvalidProject = errors.New("invalid project file")
	ErrMissingNodes   = errors.New("missing nodes")
	ErrMissingEdges   = errors.New("missing edges")
)

// ParseProject decodes an exported project document. The nodes and edges
// keys must be present, truthy and arrays; entries inside them are not
// checked.
// Option ids missing from older files are filled in by Migrate.
func ParseProject(data []byte) (*models.ProjectDocument, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	Migrate(doc.Nodes)
	return doc, nil
}

// Decode validates and decodes a project document without migrating it.
func Decode(data []byte) (*models.ProjectDocument, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty project data", ErrInvalidProject)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal project: %v", ErrInvalidProject, err)
	}
	if falsy(raw["nodes"]) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, ErrMissingNodes)
	}
	if falsy(raw["edges"]) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, ErrMissingEdges)
	}

	if !isArray(raw["nodes"]) {
		return nil, fmt.Errorf("%w: nodes must be an array", ErrInvalidProject)
	}
	if !isArray(raw["edges"]) {
		return nil, fmt.Errorf("%w: edges must be an array", ErrInvalidProject)
	}

	// Entries are taken as they come: a field of the wrong type is left at
	// its zero value and the rest of the document still loads.
	var doc models.ProjectDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: failed to unmarshal project: %v", ErrInvalidProject, err)
		}
	}
	if doc.ProjectName == "" {
		doc.ProjectName = ImportedProjectName
	}
	if doc.Edges == nil {
		doc.Edges = []models.Edge{}
	}
	return &doc, nil
}

// DanglingEdges returns the edges whose source or target is not a node in
// the document.
func DanglingEdges(doc *models.ProjectDocument) []models.Edge {
	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		ids[n.Config.ID] = true
	}
	var out []models.Edge
	for _, e := range doc.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

// falsy reports whether a raw JSON value is absent or one of null, false,
// 0 or "".
func falsy(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

func isArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '['
}

// Migrate gives every UI option without an id the positional id
// "{instanceID}-{index}", skipping ids already used in the same node.
// It reports how many options were changed.
func Migrate(nodes []models.NodeInstance) int {
	changed := 0
	for i := range nodes {
		opts := nodes[i].Config.UIOptions
		used := make(map[string]bool, len(opts))
		for _, o := range opts {
			if o.ID != "" {
				used[o.ID] = true
			}
		}
		for j := range opts {
			if opts[j].ID != "" {
				continue
			}
			id := fmt.Sprintf("%s-%d", nodes[i].Config.ID, j)
			for n := 1; used[id]; n++ {
				id = fmt.Sprintf("%s-%d-%d", nodes[i].Config.ID, j, n)
			}
			opts[j].ID = id
			used[id] = true
			changed++
		}
	}
	return changed
}
