// Package models defines the core data structures of a screenflow project.
// It includes the node, edge and UI option entities and their value rules.
package models

import "strings"

// DefaultProjectName is the name a fresh project starts with.
const DefaultProjectName = "Untitled Project"

type InputType string

const (
	InputTextbox  InputType = "Textbox"
	InputCheckbox InputType = "Checkbox"
	InputButton   InputType = "Button"
	InputDiv      InputType = "Div"
	InputImage    InputType = "Image"
)

// Valid reports whether t is one of the known input types.
func (t InputType) Valid() bool {
	switch t {
	case InputTextbox, InputCheckbox, InputButton, InputDiv, InputImage:
		return true
	}
	return false
}

// HoldsValue reports whether options of this type carry a value.
func (t InputType) HoldsValue() bool {
	return t == InputTextbox || t == InputCheckbox
}

// Accepts reports whether v is a legal value for an option of type t.
// Textbox takes strings, Checkbox takes booleans, nothing else takes a value.
func (t InputType) Accepts(v any) bool {
	switch t {
	case InputTextbox:
		_, ok := v.(string)
		return ok
	case InputCheckbox:
		_, ok := v.(bool)
		return ok
	}
	return false
}

// ZeroValue returns the empty value for t, or nil when t carries none.
func (t InputType) ZeroValue() any {
	switch t {
	case InputTextbox:
		return ""
	case InputCheckbox:
		return false
	}
	return nil
}

type Validation struct {
	Required  bool   `json:"required" toml:"required"`
	MinLength *int   `json:"minLength,omitempty" toml:"min_length"`
	MaxLength *int   `json:"maxLength,omitempty" toml:"max_length"`
	Pattern   string `json:"pattern,omitempty" toml:"pattern"`
}

func (v *Validation) Clone() *Validation {
	if v == nil {
		return nil
	}
	c := *v
	if v.MinLength != nil {
		n := *v.MinLength
		c.MinLength = &n
	}
	if v.MaxLength != nil {
		n := *v.MaxLength
		c.MaxLength = &n
	}
	return &c
}

// UIOption is a single configurable element attached to a node instance.
type UIOption struct {
	ID         string      `json:"id,omitempty" toml:"id"`
	Label      string      `json:"label" toml:"label"`
	InputType  InputType   `json:"inputType" toml:"input_type"`
	IsVisible  bool        `json:"isVisible" toml:"is_visible"`
	UIText     string      `json:"uiText,omitempty" toml:"ui_text"`
	Value      any         `json:"value,omitempty" toml:"value"`
	Validation *Validation `json:"validation,omitempty" toml:"validation"`
}

func (o UIOption) Clone() UIOption {
	o.Validation = o.Validation.Clone()
	return o
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeConfig struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	UIOptions   []UIOption `json:"uiOptions"`
}

func (c NodeConfig) Clone() NodeConfig {
	opts := make([]UIOption, len(c.UIOptions))
	for i, o := range c.UIOptions {
		opts[i] = o.Clone()
	}
	c.UIOptions = opts
	return c
}

// NodeInstance is a user-placed copy of an archetype on the canvas.
type NodeInstance struct {
	Config                NodeConfig `json:"config"`
	Position              Position   `json:"position"`
	IsDescriptionExpanded bool       `json:"isDescriptionExpanded"`
}

func (n NodeInstance) Clone() NodeInstance {
	n.Config = n.Config.Clone()
	return n
}

type EdgeType string

const (
	EdgeDirectional    EdgeType = "directional"
	EdgeNonDirectional EdgeType = "non-directional"
	EdgeDashed         EdgeType = "dashed"
)

func (t EdgeType) Valid() bool {
	switch t {
	case EdgeDirectional, EdgeNonDirectional, EdgeDashed:
		return true
	}
	return false
}

// Handle names one of the four anchor points on a node.
type Handle string

const (
	HandleTop    Handle = "top"
	HandleRight  Handle = "right"
	HandleBottom Handle = "bottom"
	HandleLeft   Handle = "left"
)

// Handles lists the anchors in clockwise order starting at the top.
var Handles = []Handle{HandleTop, HandleRight, HandleBottom, HandleLeft}

// ParseHandle maps a widget handle id such as "right" or "source-right" to
// an anchor. The second result is false when no anchor name is present.
func ParseHandle(id string) (Handle, bool) {
	id = strings.ToLower(id)
	for _, h := range Handles {
		if strings.Contains(id, string(h)) {
			return h, true
		}
	}
	return "", false
}

type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	SourceHandle string   `json:"sourceHandle,omitempty"`
	TargetHandle string   `json:"targetHandle,omitempty"`
	Type         EdgeType `json:"type"`
	Label        string   `json:"label,omitempty"`
	Animated     bool     `json:"animated"`
}

// Touches reports whether the edge has nodeID at either end.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

func CloneNodes(nodes []NodeInstance) []NodeInstance {
	out := make([]NodeInstance, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
