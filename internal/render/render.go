// Package render rasterises a project diagram to PNG.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/screenflow/core/internal/models"
)

var (
	// ErrEmptyDiagram is returned when there is nothing to draw.
	ErrEmptyDiagram = errors.New("nothing to export")
	// ErrDiagramTooLarge is returned when the image would exceed the size
	// limits below.
	ErrDiagramTooLarge = errors.New("diagram too large to export")
)

// Output image limits in pixels.
const (
	MaxImageSide   = 16384
	MaxImagePixels = 64 << 20
)

// DefaultScale matches a 2x device pixel ratio.
const DefaultScale = 2.0

// Card geometry in canvas units.
const (
	NodeWidth    = 220.0
	headerHeight = 46.0
	optionHeight = 20.0
	cardPadding  = 10.0
	cardRadius   = 8.0
	margin       = 40.0
	fontSize     = 12.0
	arrowSize    = 8.0
)

var categoryColors = map[string]string{
	"auth":          "#1976d2",
	"main":          "#2e7d32",
	"user":          "#0288d1",
	"content":       "#9c27b0",
	"config":        "#ed6c02",
	"communication": "#0288d1",
	"system":        "#d32f2f",
}

const defaultCategoryColor = "#757575"

// CategoryColor returns the accent colour for a node category.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultCategoryColor
}

type Options struct {
	Scale float64
}

// Rect is a node card in canvas units.
type Rect struct {
	X, Y, W, H float64
}

// Anchor returns the canvas point of handle h on the card.
func (r Rect) Anchor(h models.Handle) (float64, float64) {
	switch h {
	case models.HandleTop:
		return r.X + r.W/2, r.Y
	case models.HandleRight:
		return r.X + r.W, r.Y + r.H/2
	case models.HandleBottom:
		return r.X + r.W/2, r.Y + r.H
	default:
		return r.X, r.Y + r.H/2
	}
}

// CardRect is the area a node occupies on the canvas.
func CardRect(n models.NodeInstance) Rect {
	visible := 0
	for _, o := range n.Config.UIOptions {
		if o.IsVisible {
			visible++
		}
	}
	return Rect{
		X: n.Position.X,
		Y: n.Position.Y,
		W: NodeWidth,
		H: headerHeight + float64(visible)*optionHeight + cardPadding,
	}
}

// Handles resolves the anchors an edge is drawn between. A handle the edge
// does not name is picked to make the line as short as possible.
func Handles(e models.Edge, src, dst Rect) (models.Handle, models.Handle) {
	sh, sok := models.ParseHandle(e.SourceHandle)
	th, tok := models.ParseHandle(e.TargetHandle)
	if sok && tok {
		return sh, th
	}

	sources := models.Handles
	if sok {
		sources = []models.Handle{sh}
	}
	targets := models.Handles
	if tok {
		targets = []models.Handle{th}
	}

	best := math.Inf(1)
	for _, s := range sources {
		sx, sy := src.Anchor(s)
		for _, t := range targets {
			tx, ty := dst.Anchor(t)
			if d := math.Hypot(tx-sx, ty-sy); d < best {
				best, sh, th = d, s, t
			}
		}
	}
	return sh, th
}

// Image draws the snapshot on a white background.
func Image(snap models.Snapshot, opts Options) (image.Image, error) {
	dc, err := draw(snap, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// PNG writes the rendered snapshot to w.
func PNG(w io.Writer, snap models.Snapshot, opts Options) error {
	dc, err := draw(snap, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func draw(snap models.Snapshot, opts Options) (*gg.Context, error) {
	if len(snap.Nodes) == 0 {
		return nil, ErrEmptyDiagram
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	rects := make(map[string]Rect, len(snap.Nodes))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range snap.Nodes {
		r := CardRect(n)
		rects[n.Config.ID] = r
		minX, minY = math.Min(minX, r.X), math.Min(minY, r.Y)
		maxX, maxY = math.Max(maxX, r.X+r.W), math.Max(maxY, r.Y+r.H)
	}

	width := math.Ceil((maxX - minX + 2*margin) * scale)
	height := math.Ceil((maxY - minY + 2*margin) * scale)
	if !(width <= MaxImageSide && height <= MaxImageSide && width*height <= MaxImagePixels) {
		return nil, fmt.Errorf("%w: %.0fx%.0f pixels", ErrDiagramTooLarge, width, height)
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	p := &painter{
		scale: scale,
		ox:    minX - margin,
		oy:    minY - margin,
	}
	p.dc = gg.NewContext(int(width), int(height))
	p.dc.SetHexColor("#ffffff")
	p.dc.Clear()
	p.dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	// Edges go underneath the cards.
	for _, e := range snap.Edges {
		src, ok := rects[e.Source]
		if !ok {
			continue
		}
		dst, ok := rects[e.Target]
		if !ok {
			continue
		}
		p.edge(e, src, dst)
	}
	for _, n := range snap.Nodes {
		p.node(n, rects[n.Config.ID])
	}
	return p.dc, nil
}

// painter maps canvas units to pixels.
type painter struct {
	dc     *gg.Context
	scale  float64
	ox, oy float64
}

func (p *painter) pt(x, y float64) (float64, float64) {
	return (x - p.ox) * p.scale, (y - p.oy) * p.scale
}

func (p *painter) edge(e models.Edge, src, dst Rect) {
	sh, th := Handles(e, src, dst)
	x1, y1 := p.pt(src.Anchor(sh))
	x2, y2 := p.pt(dst.Anchor(th))

	dc := p.dc
	dc.SetHexColor("#555555")
	dc.SetLineWidth(1.5 * p.scale)
	if e.Type == models.EdgeDashed {
		dc.SetDash(6*p.scale, 4*p.scale)
	}
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	dc.SetDash()

	if e.Type == models.EdgeDirectional || e.Type == "" {
		p.arrow(x1, y1, x2, y2)
	}
	if e.Label != "" {
		mx, my := (x1+x2)/2, (y1+y2)/2
		tw, th := dc.MeasureString(e.Label)
		pad := 3 * p.scale
		dc.SetHexColor("#ffffff")
		dc.DrawRectangle(mx-tw/2-pad, my-th/2-pad, tw+2*pad, th+2*pad)
		dc.Fill()
		dc.SetHexColor("#333333")
		dc.DrawStringAnchored(e.Label, mx, my, 0.5, 0.5)
	}
}

func (p *painter) arrow(fx, fy, tx, ty float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx, dy = dx/length, dy/length
	size := arrowSize * p.scale
	const spread = 0.5

	dc := p.dc
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-size*dx+size*dy*spread, ty-size*dy-size*dx*spread)
	dc.LineTo(tx-size*dx-size*dy*spread, ty-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

func (p *painter) node(n models.NodeInstance, r Rect) {
	dc := p.dc
	x, y := p.pt(r.X, r.Y)
	w, h := r.W*p.scale, r.H*p.scale
	radius := cardRadius * p.scale
	accent := CategoryColor(n.Config.Type)

	dc.SetHexColor("#ffffff")
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	dc.Fill()
	dc.SetHexColor(accent)
	dc.SetLineWidth(2 * p.scale)
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	dc.Stroke()

	pad := cardPadding * p.scale
	dc.SetHexColor("#212121")
	dc.DrawStringAnchored(n.Config.Label, x+pad, y+pad, 0, 1)
	dc.SetHexColor(accent)
	dc.DrawStringAnchored(strings.ToUpper(n.Config.Type), x+w-pad, y+pad, 1, 1)

	lineY := y + (headerHeight-6)*p.scale
	dc.SetHexColor("#e0e0e0")
	dc.SetLineWidth(1 * p.scale)
	dc.DrawLine(x, lineY, x+w, lineY)
	dc.Stroke()

	row := 0
	dc.SetHexColor("#616161")
	for _, o := range n.Config.UIOptions {
		if !o.IsVisible {
			continue
		}
		oy := y + (headerHeight+float64(row)*optionHeight)*p.scale
		dc.DrawStringAnchored(fmt.Sprintf("[%s] %s", o.InputType, o.Label), x+pad, oy, 0, 1)
		row++
	}
}
