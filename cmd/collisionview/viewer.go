package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/TychoHenzen/OctarineCodex/collision"
	"github.com/TychoHenzen/OctarineCodex/common"
	"github.com/TychoHenzen/OctarineCodex/config"
	"github.com/TychoHenzen/OctarineCodex/debugdraw"
	"github.com/TychoHenzen/OctarineCodex/event"
	"github.com/TychoHenzen/OctarineCodex/levels"
	"github.com/TychoHenzen/OctarineCodex/script"
)

const (
	probeID    collision.EntityID = "probe"
	rayLength                     = 400
	maxHistory                    = 6
)

var probeSpawn = cp.Vector{X: 32, Y: 150}

// triggerSpec places a scripted trigger volume in the sample level.
type triggerSpec struct {
	id   collision.EntityID
	pos  cp.Vector
	w, h float64
}

var sampleTriggers = []triggerSpec{
	{id: "checkpoint", pos: cp.Vector{X: 120, Y: 144}, w: 32, h: 32},
	{id: "spikes", pos: cp.Vector{X: 192, Y: 160}, w: 32, h: 16},
}

// Input is what the player did this frame.
type Input struct {
	Move     cp.Vector
	Mouse    cp.Vector
	HasMouse bool
	Reset    bool
}

// Viewer owns the collision world and everything wired around it. It has no
// ebiten dependency so it can be stepped headless.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	world   *collision.World
	bus     *event.Bus
	scripts *script.TriggerScripts
	watcher *levels.Watcher

	lastRay debugdraw.Ray
	hasRay  bool
	history []string
	ticks   int
}

func NewViewer(cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	settings, err := cfg.CollisionSettings()
	if err != nil {
		return nil, err
	}
	bus := event.NewBus()
	world := collision.NewWorld(settings, collision.WithLogger(log), collision.WithEventSink(event.NewSink(bus)))

	v := &Viewer{
		cfg:     cfg,
		log:     log,
		world:   world,
		bus:     bus,
		scripts: script.NewTriggerScripts(world, bus, log),
	}
	if err := v.loadLevels(); err != nil {
		return nil, err
	}
	if err := v.bindScripts(); err != nil {
		return nil, err
	}
	v.scripts.Attach(bus)
	v.subscribe()
	v.spawn()

	if cfg.Viewer.Watch {
		w, err := levels.NewWatcher([]string{cfg.Viewer.LevelsDir}, levels.WithWatchLogger(log))
		if err != nil {
			log.Warn("level watcher disabled", zap.String("dir", cfg.Viewer.LevelsDir), zap.Error(err))
		} else {
			v.watcher = w
		}
	}
	return v, nil
}

func (v *Viewer) Close() {
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
}

func (v *Viewer) loadLevels() error {
	lvls, err := levels.LoadFrom(v.cfg.Viewer.LevelsDir, v.cfg.Viewer.Level)
	if err != nil {
		return fmt.Errorf("load level %s: %w", v.cfg.Viewer.Level, err)
	}
	v.world.InitializeLevels(lvls)
	return nil
}

func (v *Viewer) bindScripts() error {
	dir := v.cfg.Viewer.ScriptsDir
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		_, err := v.scripts.BindDir(os.DirFS(dir), ".")
		return err
	}
	_, err := v.scripts.BindDir(script.ScriptsFS, "scripts")
	return err
}

func (v *Viewer) subscribe() {
	event.Subscribe(v.bus, func(ev event.Collided) {
		v.record(fmt.Sprintf("hit %s/%s pen %.1f", ev.A, ev.B, ev.Penetration))
	})
	event.Subscribe(v.bus, func(ev event.TriggerEntered) {
		v.record(fmt.Sprintf("enter %s <- %s", ev.Trigger, ev.Other))
	})
	event.Subscribe(v.bus, func(ev event.TriggerExited) {
		v.record(fmt.Sprintf("exit %s <- %s", ev.Trigger, ev.Other))
	})
	event.Subscribe(v.bus, func(sig script.Signal) {
		v.record(fmt.Sprintf("signal %s from %s", sig.Name, sig.Trigger))
	})
	event.Subscribe(v.bus, func(ev event.LevelsReloaded) {
		v.record(fmt.Sprintf("reloaded %s (%d tiles)", ev.Source, ev.Tiles))
	})
}

func (v *Viewer) spawn() {
	size := v.cfg.Viewer.ProbeSize
	v.world.Register(probeID, collision.Descriptor{
		Shape:        collision.NewBox(0, 0, size, size),
		BelongsTo:    collision.LayerEntityDefault,
		CollidesWith: collision.LayerSolid | collision.LayerPlatform | collision.LayerTrigger,
	}, probeSpawn)

	for _, t := range sampleTriggers {
		v.world.Register(t.id, collision.Descriptor{
			Shape:        collision.NewBox(0, 0, t.w, t.h),
			BelongsTo:    collision.LayerTrigger,
			CollidesWith: collision.LayerEntityDefault,
			IsStatic:     true,
			IsTrigger:    true,
		}, t.pos)
	}
}

// Step advances one tick: move the probe, cast the mouse ray, run the
// collision pass and deliver the events of the previous pass.
func (v *Viewer) Step(in Input) {
	v.ticks++
	v.pollWatcher()

	if in.Reset {
		v.world.Reposition(probeID, probeSpawn)
	}

	_, pos, ok := v.world.Lookup(probeID)
	if !ok {
		return
	}
	velocity := cp.Vector{}
	if in.Move.Length() > 0 {
		velocity = in.Move.Normalize().Mult(v.cfg.Viewer.ProbeSpeed)
	}
	next := v.world.ResolveMovement(probeID, pos, pos.Add(velocity))
	v.world.UpdateDescriptor(probeID, func(d *collision.Descriptor) {
		d.LastPosition = pos
		d.Velocity = next.Sub(pos)
	})
	v.world.Reposition(probeID, next)

	if in.HasMouse {
		origin := v.probeCenter()
		dir := in.Mouse.Sub(origin)
		if common.ApproxZero(dir.Length(), v.world.Settings().Epsilon) {
			// Cursor on the probe centre has no direction to cast along.
			v.lastRay = debugdraw.Ray{}
			v.hasRay = false
		} else {
			mask := collision.LayerAll &^ collision.LayerEntityDefault
			v.lastRay = debugdraw.Ray{
				Origin: origin,
				End:    origin.Add(dir.Normalize().Mult(rayLength)),
				Hit:    v.world.Raycast(origin, dir, rayLength, mask, probeID),
			}
			v.hasRay = true
		}
	}

	v.world.ProcessCollisions()
	v.bus.SwapBuffers()
	v.bus.DispatchAll()
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case files, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			if err := v.loadLevels(); err != nil {
				v.log.Warn("reload levels", zap.Strings("files", files), zap.Error(err))
				continue
			}
			event.Emit(v.bus, event.LevelsReloaded{Source: strings.Join(files, ", "), Tiles: v.world.TileMap().Len()})
		case err, ok := <-v.watcher.Errors:
			if ok {
				v.log.Warn("level watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (v *Viewer) probeCenter() cp.Vector {
	desc, pos, ok := v.world.Lookup(probeID)
	if !ok || desc.Shape == nil {
		return pos
	}
	bb := desc.Shape.Translate(pos).Bounds()
	return cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2}
}

func (v *Viewer) record(line string) {
	v.history = append(v.history, line)
	if len(v.history) > maxHistory {
		v.history = v.history[len(v.history)-maxHistory:]
	}
}

// Primitives returns what to draw for the given view.
func (v *Viewer) Primitives(view cp.BB) []debugdraw.Primitive {
	if !v.hasRay {
		return debugdraw.Collect(v.world, view)
	}
	return debugdraw.Collect(v.world, view, v.lastRay)
}

// Status is the HUD readout.
type Status struct {
	Stats   collision.Stats
	Probe   cp.Vector
	Blocked bool
	Ray     collision.Hit
	Under   collision.Layer
	History []string
}

func (v *Viewer) Status() Status {
	_, pos, _ := v.world.Lookup(probeID)
	return Status{
		Stats:   v.world.Stats(),
		Probe:   pos,
		Blocked: v.world.IsBlocked(probeID, pos),
		Ray:     v.lastRay.Hit,
		Under:   v.world.TileLayersAt(v.probeCenter().Add(cp.Vector{Y: v.cfg.Viewer.ProbeSize})),
		History: append([]string(nil), v.history...),
	}
}
