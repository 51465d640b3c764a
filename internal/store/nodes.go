package store

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/screenflow/core/internal/models"
)

// DefaultOptionLabel is used when a new UI option is added without a label.
const DefaultOptionLabel = "New Option"

// OptionProperty names an editable field of a UI option.
type OptionProperty string

const (
	PropLabel      OptionProperty = "label"
	PropInputType  OptionProperty = "inputType"
	PropIsVisible  OptionProperty = "isVisible"
	PropUIText     OptionProperty = "uiText"
	PropValue      OptionProperty = "value"
	PropValidation OptionProperty = "validation"
)

// OptionDraft carries the caller-supplied fields of a new UI option. Unset
// fields are filled with defaults by AddUIOption.
type OptionDraft struct {
	Label      string             `json:"label,omitempty"`
	InputType  models.InputType   `json:"inputType,omitempty"`
	IsVisible  *bool              `json:"isVisible,omitempty"`
	UIText     string             `json:"uiText,omitempty"`
	Value      any                `json:"value,omitempty"`
	Validation *models.Validation `json:"validation,omitempty"`
}

// CreateNode appends an instance of the archetype at pos. It is a no-op when
// the archetype is unknown or instanceID is already in use.
func (s *Store) CreateNode(archetypeID string, pos models.Position, instanceID string) bool {
	a := s.archetype.Get(archetypeID)
	if a == nil || instanceID == "" {
		return false
	}
	return s.apply(true, func() bool {
		if s.nodeLocked(instanceID) != nil {
			return false
		}
		s.nodes = append(s.nodes, models.NodeInstance{
			Config:   a.Instantiate(instanceID),
			Position: pos,
		})
		return true
	})
}

// AddNode creates an instance of the archetype at pos with an id chosen
// under the store lock. pick is given a test for ids already in use and
// returns a free one.
func (s *Store) AddNode(archetypeID string, pos models.Position, pick func(taken func(string) bool) string) (string, bool) {
	a := s.archetype.Get(archetypeID)
	if a == nil {
		return "", false
	}
	var id string
	ok := s.apply(true, func() bool {
		id = pick(func(id string) bool { return s.nodeLocked(id) != nil })
		if id == "" || s.nodeLocked(id) != nil {
			return false
		}
		s.nodes = append(s.nodes, models.NodeInstance{
			Config:   a.Instantiate(id),
			Position: pos,
		})
		return true
	})
	if !ok {
		return "", false
	}
	return id, true
}

// DeleteNode removes the node. Incident edges and the selection are left
// alone; the coordinator decides what cascades.
func (s *Store) DeleteNode(id string) bool {
	return s.apply(true, func() bool {
		before := len(s.nodes)
		s.nodes = lo.Reject(s.nodes, func(n models.NodeInstance, _ int) bool { return n.Config.ID == id })
		return len(s.nodes) != before
	})
}

func (s *Store) MoveNode(id string, pos models.Position) bool {
	return s.apply(true, func() bool {
		n := s.nodeLocked(id)
		if n == nil {
			return false
		}
		n.Position = pos
		return true
	})
}

// ToggleDescription flips the node's description view state. It does not
// dirty the project.
func (s *Store) ToggleDescription(id string) bool {
	return s.apply(false, func() bool {
		n := s.nodeLocked(id)
		if n == nil {
			return false
		}
		n.IsDescriptionExpanded = !n.IsDescriptionExpanded
		return true
	})
}

func (s *Store) updateOption(instanceID string, index int, fn func(o *models.UIOption) bool) bool {
	return s.apply(true, func() bool {
		n := s.nodeLocked(instanceID)
		if n == nil || index < 0 || index >= len(n.Config.UIOptions) {
			return false
		}
		return fn(&n.Config.UIOptions[index])
	})
}

// SetUIOptionValue sets the option's value. The value must match the input
// type: a string for Textbox, a bool for Checkbox.
func (s *Store) SetUIOptionValue(instanceID string, index int, value any) bool {
	return s.updateOption(instanceID, index, func(o *models.UIOption) bool {
		if !o.InputType.Accepts(value) {
			return false
		}
		o.Value = value
		return true
	})
}

// SetUIOptionProperty sets one field of the option. A value of the wrong
// type for the property is a no-op.
func (s *Store) SetUIOptionProperty(instanceID string, index int, prop OptionProperty, value any) bool {
	return s.updateOption(instanceID, index, func(o *models.UIOption) bool {
		switch prop {
		case PropLabel:
			v, ok := value.(string)
			if !ok {
				return false
			}
			o.Label = v
		case PropInputType:
			t, ok := toInputType(value)
			if !ok {
				return false
			}
			o.InputType = t
			switch {
			case !t.HoldsValue():
				o.Value = nil
			case !t.Accepts(o.Value):
				o.Value = t.ZeroValue()
			}
		case PropIsVisible:
			v, ok := value.(bool)
			if !ok {
				return false
			}
			o.IsVisible = v
		case PropUIText:
			v, ok := value.(string)
			if !ok {
				return false
			}
			o.UIText = v
		case PropValue:
			if !o.InputType.Accepts(value) {
				return false
			}
			o.Value = value
		case PropValidation:
			v, ok := toValidation(value)
			if !ok {
				return false
			}
			o.Validation = v
		default:
			return false
		}
		return true
	})
}

func toInputType(value any) (models.InputType, bool) {
	var t models.InputType
	switch v := value.(type) {
	case models.InputType:
		t = v
	case string:
		t = models.InputType(v)
	default:
		return "", false
	}
	return t, t.Valid()
}

// toValidation accepts a Validation, a pointer to one, nil, or a decoded
// JSON object.
func toValidation(value any) (*models.Validation, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case models.Validation:
		return v.Clone(), true
	case *models.Validation:
		return v.Clone(), true
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		var out models.Validation
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, false
		}
		return &out, true
	}
	return nil, false
}

// AddUIOption appends a new option to the node and returns its id.
func (s *Store) AddUIOption(instanceID string, d OptionDraft) (string, bool) {
	opt := models.UIOption{
		Label:      d.Label,
		InputType:  d.InputType,
		IsVisible:  true,
		UIText:     d.UIText,
		Validation: d.Validation.Clone(),
	}
	if opt.Label == "" {
		opt.Label = DefaultOptionLabel
	}
	if opt.InputType == "" {
		opt.InputType = models.InputTextbox
	}
	if !opt.InputType.Valid() {
		return "", false
	}
	if d.IsVisible != nil {
		opt.IsVisible = *d.IsVisible
	}
	if opt.InputType.Accepts(d.Value) {
		opt.Value = d.Value
	} else {
		opt.Value = opt.InputType.ZeroValue()
	}
	if opt.Validation == nil {
		opt.Validation = &models.Validation{Required: false}
	}

	var id string
	ok := s.apply(true, func() bool {
		n := s.nodeLocked(instanceID)
		if n == nil {
			return false
		}
		id = s.newOptionID(instanceID)
		for optionIndex(instanceID, n.Config.UIOptions, id) >= 0 {
			id = s.newOptionID(instanceID)
		}
		opt.ID = id
		n.Config.UIOptions = append(n.Config.UIOptions, opt)
		return true
	})
	if !ok {
		return "", false
	}
	return id, true
}

func (s *Store) RemoveUIOption(instanceID string, index int) bool {
	return s.apply(true, func() bool {
		n := s.nodeLocked(instanceID)
		if n == nil || index < 0 || index >= len(n.Config.UIOptions) {
			return false
		}
		n.Config.UIOptions = append(n.Config.UIOptions[:index:index], n.Config.UIOptions[index+1:]...)
		return true
	})
}

// ReorderUIOptions moves the option referenced by moving to the position of
// the option referenced by target, with remove-then-insert semantics.
// References are option ids; an option without an id answers to
// "{instanceID}-{index}".
func (s *Store) ReorderUIOptions(instanceID, moving, target string) bool {
	return s.apply(true, func() bool {
		n := s.nodeLocked(instanceID)
		if n == nil {
			return false
		}
		opts := n.Config.UIOptions
		from := optionIndex(instanceID, opts, moving)
		to := optionIndex(instanceID, opts, target)
		if from < 0 || to < 0 || from == to {
			return false
		}

		moved := opts[from]
		rest := append(opts[:from:from], opts[from+1:]...)
		out := make([]models.UIOption, 0, len(opts))
		out = append(out, rest[:to]...)
		out = append(out, moved)
		out = append(out, rest[to:]...)
		n.Config.UIOptions = out
		return true
	})
}

func optionIndex(instanceID string, opts []models.UIOption, ref string) int {
	if ref == "" {
		return -1
	}
	_, i, ok := lo.FindIndexOf(opts, func(o models.UIOption) bool { return o.ID == ref })
	if ok {
		return i
	}
	for i, o := range opts {
		if o.ID == "" && fmt.Sprintf("%s-%d", instanceID, i) == ref {
			return i
		}
	}
	return -1
}
