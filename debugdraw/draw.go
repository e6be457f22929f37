package debugdraw

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/TychoHenzen/OctarineCodex/collision"
)

const (
	lineWidth = 1
	hitSize   = 4
)

// Camera maps world coordinates to the screen.
type Camera struct {
	X, Y float64
	Zoom float64
}

func (c Camera) toScreen(p cp.Vector) (float32, float32) {
	z := c.zoom()
	return float32((p.X - c.X) * z), float32((p.Y - c.Y) * z)
}

func (c Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// View returns the world rectangle visible on a screen of the given size.
func (c Camera) View(width, height int) cp.BB {
	z := c.zoom()
	return cp.BB{L: c.X, B: c.Y, R: c.X + float64(width)/z, T: c.Y + float64(height)/z}
}

func Draw(screen *ebiten.Image, prims []Primitive, cam Camera) {
	if screen == nil {
		return
	}
	z := float32(cam.zoom())
	for _, p := range prims {
		switch p.Kind {
		case KindTile:
			x, y := cam.toScreen(cp.Vector{X: p.Rect.L, Y: p.Rect.B})
			w := float32(p.Rect.R-p.Rect.L) * z
			h := float32(p.Rect.T-p.Rect.B) * z
			fill := TileColor(p.Layers)
			vector.FillRect(screen, x, y, w, h, withAlpha(fill, 0x60), false)
			vector.StrokeRect(screen, x, y, w, h, lineWidth, fill, false)
		case KindEntity, KindTrigger:
			x, y := cam.toScreen(cp.Vector{X: p.Rect.L, Y: p.Rect.B})
			w := float32(p.Rect.R-p.Rect.L) * z
			h := float32(p.Rect.T-p.Rect.B) * z
			clr := color.Color(colornames.Limegreen)
			if p.Kind == KindTrigger {
				clr = colornames.Gold
			}
			vector.StrokeRect(screen, x, y, w, h, lineWidth, clr, false)
		case KindCircle:
			cx, cy := cam.toScreen(p.Center)
			vector.StrokeCircle(screen, cx, cy, float32(p.Radius)*z, lineWidth, colornames.Limegreen, true)
		case KindRay:
			x1, y1 := cam.toScreen(p.From)
			x2, y2 := cam.toScreen(p.To)
			vector.StrokeLine(screen, x1, y1, x2, y2, lineWidth, colornames.White, true)
		case KindHit:
			x, y := cam.toScreen(p.From)
			vector.FillRect(screen, x-hitSize/2, y-hitSize/2, hitSize, hitSize, colornames.Red, false)
		case KindNormal:
			x1, y1 := cam.toScreen(p.From)
			x2, y2 := cam.toScreen(p.To)
			vector.StrokeLine(screen, x1, y1, x2, y2, lineWidth, colornames.Orangered, true)
		}
	}
}

// TileColor picks the colour of the most significant layer in l.
func TileColor(l collision.Layer) color.RGBA {
	switch {
	case l.Has(collision.LayerHazard):
		return colornames.Crimson
	case l.Has(collision.LayerWater):
		return colornames.Dodgerblue
	case l.Has(collision.LayerTrigger):
		return colornames.Gold
	case l.Has(collision.LayerPlatform):
		return colornames.Peru
	case l.Has(collision.LayerSolid):
		return colornames.Slategray
	}
	return colornames.Dimgray
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
