// Package script runs tengo handlers for trigger volumes. A handler script
// defines on_enter and on_exit, each called as fn(engine, state, other)
// where state is a map kept per trigger across calls.
package script

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/TychoHenzen/OctarineCodex/collision"
	"github.com/TychoHenzen/OctarineCodex/event"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

const dispatchScript = `
if __phase == "enter" {
	on_enter(__engine, __state, __other)
} else if __phase == "exit" {
	on_exit(__engine, __state, __other)
}
`

// Signal is emitted on the bus when a script calls engine.emit(name).
type Signal struct {
	Trigger collision.EntityID
	Other   collision.EntityID
	Name    string
}

type runtime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

// TriggerScripts maps trigger ids to compiled handler scripts.
type TriggerScripts struct {
	world    *collision.World
	bus      *event.Bus
	log      *zap.Logger
	runtimes map[collision.EntityID]*runtime
}

func NewTriggerScripts(world *collision.World, bus *event.Bus, log *zap.Logger) *TriggerScripts {
	if log == nil {
		log = zap.NewNop()
	}
	return &TriggerScripts{
		world:    world,
		bus:      bus,
		log:      log,
		runtimes: make(map[collision.EntityID]*runtime),
	}
}

// Bind compiles the script at name in fsys and attaches it to trigger.
// Rebinding replaces the script and resets its state.
func (s *TriggerScripts) Bind(trigger collision.EntityID, fsys fs.FS, name string) error {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("script: read %s: %w", name, err)
	}

	sc := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = sc.Add("__phase", "")
	_ = sc.Add("__engine", map[string]any{})
	_ = sc.Add("__state", map[string]any{})
	_ = sc.Add("__other", "")
	sc.SetImports(stdlib.GetModuleMap("fmt", "math", "text", "times", "enum"))

	compiled, err := sc.Compile()
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", name, err)
	}
	s.runtimes[trigger] = &runtime{
		path:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.log.Debug("trigger script bound", zap.String("trigger", string(trigger)), zap.String("script", name))
	return nil
}

// BindDir binds every *.tengo file in dir of fsys to the trigger named
// after the file stem. It returns the bound trigger ids, sorted.
func (s *TriggerScripts) BindDir(fsys fs.FS, dir string) ([]collision.EntityID, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.tengo"))
	if err != nil {
		return nil, fmt.Errorf("script: glob %s: %w", dir, err)
	}
	ids := make([]collision.EntityID, 0, len(matches))
	for _, m := range matches {
		id := collision.EntityID(strings.TrimSuffix(path.Base(m), ".tengo"))
		if err := s.Bind(id, fsys, m); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Unbind drops the script of trigger.
func (s *TriggerScripts) Unbind(trigger collision.EntityID) {
	delete(s.runtimes, trigger)
}

func (s *TriggerScripts) Bound(trigger collision.EntityID) bool {
	_, ok := s.runtimes[trigger]
	return ok
}

// Attach subscribes the scripts to trigger events on the bus.
func (s *TriggerScripts) Attach(b *event.Bus) {
	event.Subscribe(b, func(ev event.TriggerEntered) {
		_ = s.OnEnter(ev.TriggerEvent)
	})
	event.Subscribe(b, func(ev event.TriggerExited) {
		_ = s.OnExit(ev.TriggerEvent)
	})
}

func (s *TriggerScripts) OnEnter(ev collision.TriggerEvent) error {
	return s.run("enter", ev)
}

func (s *TriggerScripts) OnExit(ev collision.TriggerEvent) error {
	return s.run("exit", ev)
}

// State returns a copy of the state map of trigger.
func (s *TriggerScripts) State(trigger collision.EntityID) map[string]any {
	rt, ok := s.runtimes[trigger]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(rt.state.Value))
	for k, v := range rt.state.Value {
		out[k] = tengo.ToInterface(v)
	}
	return out
}

// Get returns one state value of trigger.
func (s *TriggerScripts) Get(trigger collision.EntityID, key string) (any, bool) {
	rt, ok := s.runtimes[trigger]
	if !ok {
		return nil, false
	}
	v, ok := rt.state.Value[key]
	if !ok {
		return nil, false
	}
	return tengo.ToInterface(v), true
}

func (s *TriggerScripts) run(phase string, ev collision.TriggerEvent) error {
	rt, ok := s.runtimes[ev.Trigger]
	if !ok {
		return nil
	}
	engine := s.engine(ev)
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	if err := rt.compiled.Set("__other", string(ev.Other)); err != nil {
		return err
	}
	if err := rt.compiled.Run(); err != nil {
		s.log.Error("trigger script failed",
			zap.String("trigger", string(ev.Trigger)),
			zap.String("script", rt.path),
			zap.String("phase", phase),
			zap.Error(err))
		return fmt.Errorf("script: run %s %s: %w", rt.path, phase, err)
	}
	return nil
}

func (s *TriggerScripts) engine(ev collision.TriggerEvent) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.bus == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		event.Emit(s.bus, Signal{Trigger: ev.Trigger, Other: ev.Other, Name: name})
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.log.Info(strings.Join(parts, " "), zap.String("trigger", string(ev.Trigger)))
		return tengo.UndefinedValue, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.world == nil || len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		_, pos, ok := s.world.Lookup(collision.EntityID(objectAsString(args[0])))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: pos.X}, &tengo.Float{Value: pos.Y}}}, nil
	}}

	values["teleport"] = &tengo.UserFunction{Name: "teleport", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.world == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		id := collision.EntityID(objectAsString(args[0]))
		if _, _, ok := s.world.Lookup(id); !ok {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[1])
		y, okY := tengo.ToFloat64(args[2])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		s.world.Reposition(id, cp.Vector{X: x, Y: y})
		return tengo.TrueValue, nil
	}}

	values["trigger"] = &tengo.String{Value: string(ev.Trigger)}
	values["layers"] = &tengo.String{Value: ev.Layers.String()}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(o tengo.Object) string {
	if s, ok := tengo.ToString(o); ok {
		return s
	}
	return ""
}
