package control

import (
	"fmt"
	"sort"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// Controller turns the current state into an actuator command once per
// tick. The runner depends only on this interface.
type Controller interface {
	Control(x dynamo.State, m *vehicle.Mission, dt float64) dynamo.GncCommand
	Name() string
}

// Resetter is implemented by controllers that carry state between ticks.
type Resetter interface {
	Reset()
}

// Configurable is implemented by controllers with tunable parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Factory builds a controller for a mission.
type Factory func(m *vehicle.Mission) Controller

type Registry struct {
	controllers map[string]Factory
}

// NewRegistry returns a registry holding the built-in controllers.
func NewRegistry() *Registry {
	r := &Registry{controllers: make(map[string]Factory)}

	r.Register("tvc", func(m *vehicle.Mission) Controller { return NewTVCController(m) })
	r.Register("zero", func(m *vehicle.Mission) Controller { return NewZero() })
	r.Register("bangbang", func(m *vehicle.Mission) Controller { return NewBangBang(m, DefaultDeadband) })

	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.controllers[name] = f
}

func (r *Registry) Get(name string, m *vehicle.Mission) (Controller, error) {
	f, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s (available: %v)", name, r.Names())
	}
	return f(m), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
