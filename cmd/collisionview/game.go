package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/TychoHenzen/OctarineCodex/debugdraw"
)

const (
	baseWidth  = 960
	baseHeight = 540
	zoom       = 2
)

type Game struct {
	viewer *Viewer
	camera debugdraw.Camera
	ui     *ebitenui.UI
	hud    *hud
	paused bool
}

func NewGame(v *Viewer) *Game {
	ui, h := newHUD()
	return &Game{
		viewer: v,
		camera: debugdraw.Camera{Zoom: zoom},
		ui:     ui,
		hud:    h,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if !g.paused {
		g.viewer.Step(g.readInput())
	}
	g.hud.update(g.viewer.Status(), g.paused)
	g.ui.Update()
	return nil
}

func (g *Game) readInput() Input {
	var in Input
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Move.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Move.Y++
	}
	in.Reset = inpututil.IsKeyJustPressed(ebiten.KeyR)

	mx, my := ebiten.CursorPosition()
	in.Mouse = cp.Vector{X: g.camera.X + float64(mx)/zoom, Y: g.camera.Y + float64(my)/zoom}
	in.HasMouse = true
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	view := g.camera.View(baseWidth, baseHeight)
	debugdraw.Draw(screen, g.viewer.Primitives(view), g.camera)
	g.ui.Draw(screen)
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "paused (P to resume)", baseWidth/2-60, baseHeight/2)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
