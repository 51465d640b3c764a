package render

import (
	"bytes"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenflow/core/internal/catalog"
	"github.com/screenflow/core/internal/models"
)

func sampleSnapshot() models.Snapshot {
	cat := catalog.Default()
	return models.Snapshot{
		ProjectName: "Sample",
		Nodes: []models.NodeInstance{
			{Config: cat.Get("login").Instantiate("login-1"), Position: models.Position{X: 0, Y: 0}},
			{Config: cat.Get("dashboard").Instantiate("dash-1"), Position: models.Position{X: 400, Y: 100}},
		},
		Edges: []models.Edge{
			{ID: "e1", Source: "login-1", Target: "dash-1", Type: models.EdgeDirectional, Label: "sign in"},
			{ID: "e2", Source: "dash-1", Target: "login-1", Type: models.EdgeDashed},
			{ID: "e3", Source: "dash-1", Target: "gone", Type: models.EdgeNonDirectional},
		},
	}
}

func TestImage(t *testing.T) {
	t.Run("size follows bounds and scale", func(t *testing.T) {
		snap := sampleSnapshot()
		login := CardRect(snap.Nodes[0])
		dash := CardRect(snap.Nodes[1])

		img, err := Image(snap, Options{Scale: 2})

		require.NoError(t, err)
		b := img.Bounds()
		assert.Equal(t, int((dash.X+dash.W-login.X+2*margin)*2), b.Dx())
		assert.Equal(t, int((dash.Y+dash.H-login.Y+2*margin)*2), b.Dy())
	})

	t.Run("white background", func(t *testing.T) {
		img, err := Image(sampleSnapshot(), Options{})

		require.NoError(t, err)
		assert.Equal(t, color.RGBAModel.Convert(color.White), color.RGBAModel.Convert(img.At(1, 1)), "corner pixel")
	})

	t.Run("default scale is two", func(t *testing.T) {
		one, err := Image(sampleSnapshot(), Options{Scale: 1})
		require.NoError(t, err)
		def, err := Image(sampleSnapshot(), Options{})
		require.NoError(t, err)

		assert.Equal(t, one.Bounds().Dx()*2, def.Bounds().Dx())
	})

	t.Run("empty diagram", func(t *testing.T) {
		_, err := Image(models.Snapshot{}, Options{})
		assert.ErrorIs(t, err, ErrEmptyDiagram)
	})
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, PNG(&buf, sampleSnapshot(), Options{Scale: 1}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)

	assert.ErrorIs(t, PNG(&buf, models.Snapshot{}, Options{}), ErrEmptyDiagram)
}

func TestImageLimits(t *testing.T) {
	far := func(x, y float64) models.Snapshot {
		snap := sampleSnapshot()
		snap.Nodes[1].Position = models.Position{X: x, Y: y}
		return snap
	}

	tests := []struct {
		name  string
		snap  models.Snapshot
		scale float64
	}{
		{"huge coordinates", far(1e12, 1e12), 2},
		{"too wide", far(MaxImageSide, 0), 1},
		{"too many pixels", far(10000, 10000), 1},
		{"huge scale", sampleSnapshot(), 1e6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Image(tt.snap, Options{Scale: tt.scale})
			assert.ErrorIs(t, err, ErrDiagramTooLarge)

			assert.ErrorIs(t, PNG(io.Discard, tt.snap, Options{Scale: tt.scale}), ErrDiagramTooLarge)
		})
	}

	t.Run("negative coordinates are fine", func(t *testing.T) {
		_, err := Image(far(-500, -300), Options{Scale: 1})
		assert.NoError(t, err)
	})
}

func TestCardRect(t *testing.T) {
	n := models.NodeInstance{
		Config: models.NodeConfig{UIOptions: []models.UIOption{
			{IsVisible: true}, {IsVisible: false}, {IsVisible: true},
		}},
		Position: models.Position{X: 10, Y: 20},
	}

	r := CardRect(n)

	assert.Equal(t, Rect{X: 10, Y: 20, W: NodeWidth, H: headerHeight + 2*optionHeight + cardPadding}, r)
}

func TestHandles(t *testing.T) {
	left := Rect{X: 0, Y: 0, W: 100, H: 50}
	right := Rect{X: 300, Y: 0, W: 100, H: 50}
	below := Rect{X: 0, Y: 300, W: 100, H: 50}

	tests := []struct {
		name       string
		edge       models.Edge
		dst        Rect
		wantSource models.Handle
		wantTarget models.Handle
	}{
		{"nearest horizontal", models.Edge{}, right, models.HandleRight, models.HandleLeft},
		{"nearest vertical", models.Edge{}, below, models.HandleBottom, models.HandleTop},
		{"explicit both", models.Edge{SourceHandle: "top", TargetHandle: "bottom"}, right, models.HandleTop, models.HandleBottom},
		{"explicit source only", models.Edge{SourceHandle: "source-bottom"}, right, models.HandleBottom, models.HandleLeft},
		{"unparseable falls back", models.Edge{SourceHandle: "a", TargetHandle: "b"}, right, models.HandleRight, models.HandleLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d := Handles(tt.edge, left, tt.dst)
			assert.Equal(t, tt.wantSource, s)
			assert.Equal(t, tt.wantTarget, d)
		})
	}
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, "#1976d2", CategoryColor("auth"))
	assert.Equal(t, "#d32f2f", CategoryColor("system"))
	assert.Equal(t, "#757575", CategoryColor("unknown"))
}
