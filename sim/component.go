package sim

import "fmt"

// ComponentKind is the closed set of node types a FlowNetwork can hold.
// The flow and pressure passes switch exhaustively over this enum; adding a
// kind means extending those passes, not sprinkling string comparisons.
type ComponentKind int

const (
	KindFeed ComponentKind = iota
	KindDrain
	KindTank
	KindPump
	KindValve
	KindHeatExchanger
	KindPressureSensor
	KindFlowSensor
	KindTemperatureSensor
	KindLevelSensor
)

var kindNames = map[ComponentKind]string{
	KindFeed:              "Feed",
	KindDrain:             "Drain",
	KindTank:              "Tank",
	KindPump:              "Pump",
	KindValve:             "Valve",
	KindHeatExchanger:     "HeatExchanger",
	KindPressureSensor:    "PressureSensor",
	KindFlowSensor:        "FlowSensor",
	KindTemperatureSensor: "TemperatureSensor",
	KindLevelSensor:       "LevelSensor",
}

func (k ComponentKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ComponentKind(%d)", int(k))
}

// ParseComponentKind maps a config type string to its kind.
func ParseComponentKind(s string) (ComponentKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component type %q", s)
}

// IsSensor reports whether the kind is one of the four observer kinds.
func (k ComponentKind) IsSensor() bool {
	switch k {
	case KindPressureSensor, KindFlowSensor, KindTemperatureSensor, KindLevelSensor:
		return true
	}
	return false
}

// flowOrder is the fixed evaluation order of the per-tick output-flow pass.
// Sources must exist before anything can throttle or pump them; pumps run
// after valves so they see inlet-valve position; heat exchangers are
// flow-transparent and run before sinks and sensors so passed-through flow is
// visible; sensors run last because they only observe. Tanks are excluded:
// they never generate flow, they only consume their neighbors' flows during
// their own Update.
var flowOrder = []ComponentKind{
	KindFeed,
	KindValve,
	KindPump,
	KindHeatExchanger,
	KindDrain,
	KindPressureSensor,
	KindFlowSensor,
	KindTemperatureSensor,
	KindLevelSensor,
}

// Component is the contract every network node satisfies. Identity and
// topology are fixed at construction; only the enabled flag and the
// type-specific command surfaces mutate a component from outside.
type Component interface {
	ID() string
	Kind() ComponentKind
	Name() string
	Inputs() []string
	Outputs() []string
	Enabled() bool
	SetEnabled(bool)

	// OutputFlow returns the flow (m³/s) the component pushes toward its
	// outputs this tick. Purely passive components return 0; observers
	// pass their aggregate input flow through.
	OutputFlow() float64
	// Update integrates the component's internal state over dt seconds,
	// reading only flows and pressures already finalized this tick.
	Update(dt float64)
	// Reset restores the state the component was configured with.
	Reset()
	// Info returns a diagnostic snapshot with stable keys per kind.
	Info() map[string]any

	attach(net *FlowNetwork)
}

// temperatureSource is implemented by components whose contents carry a bulk
// temperature (tanks, feeds).
type temperatureSource interface {
	Temperature() float64
}

// sideTemperatureSource is implemented by components whose outlet temperature
// depends on which downstream component is asking (heat exchangers).
type sideTemperatureSource interface {
	TemperatureFor(downstreamID string) float64
}

// baseComponent carries the record fields shared by every node.
type baseComponent struct {
	id      string
	kind    ComponentKind
	name    string
	inputs  []string
	outputs []string
	enabled bool
	net     *FlowNetwork
}

func newBase(id string, kind ComponentKind, name string, inputs, outputs []string) baseComponent {
	return baseComponent{
		id:      id,
		kind:    kind,
		name:    name,
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
		enabled: true,
	}
}

func (b *baseComponent) ID() string             { return b.id }
func (b *baseComponent) Kind() ComponentKind    { return b.kind }
func (b *baseComponent) Name() string           { return b.name }
func (b *baseComponent) Inputs() []string       { return b.inputs }
func (b *baseComponent) Outputs() []string      { return b.outputs }
func (b *baseComponent) Enabled() bool          { return b.enabled }
func (b *baseComponent) SetEnabled(on bool)     { b.enabled = on }
func (b *baseComponent) attach(net *FlowNetwork) { b.net = net }

func (b *baseComponent) baseInfo() map[string]any {
	return map[string]any{
		"id":      b.id,
		"type":    b.kind.String(),
		"name":    b.name,
		"enabled": b.enabled,
	}
}
