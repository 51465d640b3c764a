// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/screenflow/core/internal/coordinator"
	"github.com/screenflow/core/internal/models"
	"github.com/screenflow/core/internal/store"
)

// Command is one interaction event sent by the editor. Only the fields the
// event type needs are read.
type Command struct {
	Type string `json:"type"`

	ArchetypeID string            `json:"archetypeId,omitempty"`
	Client      coordinator.Point `json:"client"`
	Canvas      coordinator.Point `json:"canvas"`

	NodeID       string          `json:"nodeId,omitempty"`
	EdgeID       string          `json:"edgeId,omitempty"`
	Source       string          `json:"source,omitempty"`
	Target       string          `json:"target,omitempty"`
	SourceHandle string          `json:"sourceHandle,omitempty"`
	TargetHandle string          `json:"targetHandle,omitempty"`
	Position     models.Position `json:"position"`
	Label        string          `json:"label,omitempty"`
	EdgeType     models.EdgeType `json:"edgeType,omitempty"`
	Name         string          `json:"name,omitempty"`
	Open         bool            `json:"open,omitempty"`

	Index    int                  `json:"index"`
	Property store.OptionProperty `json:"property,omitempty"`
	Value    any                  `json:"value,omitempty"`
	Option   store.OptionDraft    `json:"option"`
	MovingID string               `json:"movingId,omitempty"`
	TargetID string               `json:"targetId,omitempty"`

	// Confirmed answers the prompt returned by a previous 409 response.
	Confirmed bool `json:"confirmed,omitempty"`
}

type ConfirmResponse struct {
	Confirm string `json:"confirm"`
}

type CommandResponse struct {
	coordinator.Result
	State models.State `json:"state"`
}

// CommandsHandler applies one interaction event. Destructive events that
// have not been confirmed are answered with 409 and the prompt to show.
func (a *API) CommandsHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	defer r.Body.Close()

	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid command: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := a.dispatch(cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if res.Outcome == coordinator.Declined {
		writeJSON(w, r, http.StatusConflict, ConfirmResponse{Confirm: res.Message})
		return
	}

	writeJSON(w, r, http.StatusOK, CommandResponse{Result: res, State: a.coord.Store().State()})
}

func (a *API) dispatch(cmd Command) (coordinator.Result, error) {
	c := a.coord
	confirmed := coordinator.ConfirmFunc(func(string) bool { return cmd.Confirmed })

	switch cmd.Type {
	case "drop":
		return c.OnDrop(cmd.ArchetypeID, cmd.Client, cmd.Canvas), nil
	case "connect":
		return c.OnConnect(cmd.Source, cmd.Target, cmd.SourceHandle, cmd.TargetHandle), nil
	case "dragStop":
		return c.OnNodeDragStop(cmd.NodeID, cmd.Position), nil
	case "selectNode":
		return c.OnSelectNode(cmd.NodeID), nil
	case "selectEdge":
		return c.OnSelectEdge(cmd.EdgeID), nil
	case "clearSelection":
		return c.OnClearSelection(), nil
	case "deleteNode":
		return c.OnDeleteNode(cmd.NodeID, confirmed), nil
	case "deleteEdge":
		return c.OnDeleteEdge(cmd.EdgeID, confirmed), nil
	case "newProject":
		return c.OnNewProject(confirmed), nil
	case "renameProject":
		return c.OnRenameProject(cmd.Name), nil
	case "toggleDescription":
		return c.OnToggleDescription(cmd.NodeID), nil
	case "setOptionValue":
		return c.OnSetOptionValue(cmd.NodeID, cmd.Index, cmd.Value), nil
	case "setOptionProperty":
		return c.OnSetOptionProperty(cmd.NodeID, cmd.Index, cmd.Property, cmd.Value), nil
	case "addOption":
		return c.OnAddOption(cmd.NodeID, cmd.Option), nil
	case "removeOption":
		return c.OnRemoveOption(cmd.NodeID, cmd.Index), nil
	case "reorderOptions":
		return c.OnReorderOptions(cmd.NodeID, cmd.MovingID, cmd.TargetID), nil
	case "setEdgeLabel":
		return c.OnSetEdgeLabel(cmd.EdgeID, cmd.Label), nil
	case "setEdgeType":
		return c.OnSetEdgeType(cmd.EdgeID, cmd.EdgeType), nil
	case "setSidePanel":
		c.SetSidePanelOpen(cmd.Open)
		return coordinator.Result{Outcome: coordinator.Applied}, nil
	case "setPropertiesPanel":
		return c.OnSetPropertiesPanel(cmd.Open), nil
	}
	return coordinator.Result{}, fmt.Errorf("unknown command type %q", cmd.Type)
}
