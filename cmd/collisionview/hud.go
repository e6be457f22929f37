package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

type hud struct {
	stats  *widget.Text
	probe  *widget.Text
	ray    *widget.Text
	events *widget.Text
}

// newHUD builds the readout panel anchored to the top right corner.
func newHUD() (*ebitenui.UI, *hud) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 180})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	dim := color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}

	newLine := func(c color.Color) *widget.Text {
		return widget.NewText(widget.TextOpts.Text("", &face, c))
	}
	h := &hud{
		stats:  newLine(white),
		probe:  newLine(white),
		ray:    newLine(white),
		events: newLine(dim),
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/3, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	panel.AddChild(h.stats)
	panel.AddChild(h.probe)
	panel.AddChild(h.ray)
	panel.AddChild(h.events)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}, h
}

func (h *hud) update(s Status, paused bool) {
	state := "running"
	if paused {
		state = "paused"
	}
	h.stats.Label = fmt.Sprintf("%s  tiles %d  entities %d  triggers %d  tile %.0fpx",
		state, s.Stats.Tiles, s.Stats.Entities, s.Stats.Triggers, s.Stats.TileSize)
	h.probe.Label = fmt.Sprintf("probe (%.1f, %.1f) blocked=%v under=%s",
		s.Probe.X, s.Probe.Y, s.Blocked, s.Under)

	switch {
	case !s.Ray.Hit:
		h.ray.Label = "ray: no hit"
	case s.Ray.IsEntity():
		h.ray.Label = fmt.Sprintf("ray: %s at %.1f normal (%.0f, %.0f)",
			s.Ray.EntityID, s.Ray.Distance, s.Ray.Normal.X, s.Ray.Normal.Y)
	default:
		h.ray.Label = fmt.Sprintf("ray: tile (%d, %d) %s at %.1f normal (%.0f, %.0f)",
			s.Ray.Tile.X, s.Ray.Tile.Y, s.Ray.Layers, s.Ray.Distance, s.Ray.Normal.X, s.Ray.Normal.Y)
	}
	h.events.Label = strings.Join(s.History, "\n")
}
