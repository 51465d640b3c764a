package parser

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenflow/core/internal/models"
)

func TestBuildDocument(t *testing.T) {
	now := time.Date(2026, 5, 6, 7, 8, 9, 120_000_000, time.FixedZone("CET", 3600))
	snap := models.Snapshot{
		ProjectName: "Shop",
		Nodes:       []models.NodeInstance{{Config: models.NodeConfig{ID: "a"}}},
		Edges:       []models.Edge{},
	}

	doc := BuildDocument(snap, now)

	assert.Equal(t, "Shop", doc.ProjectName)
	assert.Equal(t, "2026-05-06T06:08:09.120Z", doc.ExportedAt)
	assert.Equal(t, "1.0", doc.Version)
	assert.Len(t, doc.Nodes, 1)

	doc.Nodes[0].Config.ID = "changed"
	assert.Equal(t, "a", snap.Nodes[0].Config.ID)
}

func TestEncode(t *testing.T) {
	doc := BuildDocument(models.Snapshot{ProjectName: "A <b>", Nodes: []models.NodeInstance{}, Edges: []models.Edge{}}, time.Unix(0, 0))

	data, err := Encode(doc)

	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "{\n  \"projectName\": \"A <b>\""))
	assert.Contains(t, out, `"nodes": []`)
	assert.Contains(t, out, `"version": "1.0"`)
	assert.False(t, strings.HasSuffix(out, "\n"))

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Len(t, keys, 5)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name    string
		project string
		ext     string
		want    string
	}{
		{"spaces", "My Project", ".json", "my_project.json"},
		{"punctuation", "Shop v2.0 (beta)!", ".json", "shop_v2_0__beta__.json"},
		{"already clean", "abc123", ".json", "abc123.json"},
		{"non ascii", "Café", ".json", "caf_.json"},
		{"empty", "", ".json", ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.project, tt.ext))
		})
	}
}

func TestImageFileName(t *testing.T) {
	assert.Equal(t, "my_project2.png", ImageFileName("My Project"))
}
