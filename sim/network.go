package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// edge keys the flow map: one entry per directed connection carrying flow
// this tick.
type edge struct {
	from, to string
}

// FlowNetwork owns the full component graph and the two derived maps (flows,
// pressures) that are rebuilt from scratch every tick inside CalculateFlows.
// Nothing outside CalculateFlows mutates them.
type FlowNetwork struct {
	components map[string]Component
	// order preserves insertion order so every pass iterates
	// deterministically regardless of map layout.
	order     []string
	flows     map[edge]float64
	pressures map[string]float64
}

// NewFlowNetwork returns an empty network.
func NewFlowNetwork() *FlowNetwork {
	return &FlowNetwork{
		components: make(map[string]Component),
		flows:      make(map[edge]float64),
		pressures:  make(map[string]float64),
	}
}

// AddComponent moves ownership of c into the network. Duplicate ids are
// rejected.
func (n *FlowNetwork) AddComponent(c Component) error {
	if c.ID() == "" {
		return fmt.Errorf("component has no id")
	}
	if _, exists := n.components[c.ID()]; exists {
		return fmt.Errorf("duplicate component id %q", c.ID())
	}
	c.attach(n)
	n.components[c.ID()] = c
	n.order = append(n.order, c.ID())
	return nil
}

// RemoveComponent deletes the component and purges every flow-map and
// pressure entry naming it. References to it held in other components'
// input/output lists are left alone; they simply stop resolving.
func (n *FlowNetwork) RemoveComponent(id string) bool {
	if _, exists := n.components[id]; !exists {
		return false
	}
	delete(n.components, id)
	delete(n.pressures, id)
	for e := range n.flows {
		if e.from == id || e.to == id {
			delete(n.flows, e)
		}
	}
	for i, oid := range n.order {
		if oid == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return true
}

// Component looks up a component by id.
func (n *FlowNetwork) Component(id string) (Component, bool) {
	c, ok := n.components[id]
	return c, ok
}

// Components returns every component in insertion order.
func (n *FlowNetwork) Components() []Component {
	out := make([]Component, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.components[id])
	}
	return out
}

// ComponentsByKind returns the components of one kind in insertion order.
func (n *FlowNetwork) ComponentsByKind(kind ComponentKind) []Component {
	var out []Component
	for _, id := range n.order {
		if c := n.components[id]; c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of components.
func (n *FlowNetwork) Len() int { return len(n.components) }

// SetFlow records the flow on the directed edge from→to for this tick.
func (n *FlowNetwork) SetFlow(from, to string, q float64) {
	n.flows[edge{from, to}] = q
}

// Flow returns the flow recorded on the edge from→to this tick, zero when
// the edge carries none.
func (n *FlowNetwork) Flow(from, to string) float64 {
	return n.flows[edge{from, to}]
}

// InputFlow aggregates all flow arriving at id this tick.
func (n *FlowNetwork) InputFlow(id string) float64 {
	var total float64
	for e, q := range n.flows {
		if e.to == id {
			total += q
		}
	}
	return total
}

// OutputFlow aggregates all flow leaving id this tick.
func (n *FlowNetwork) OutputFlow(id string) float64 {
	var total float64
	for e, q := range n.flows {
		if e.from == id {
			total += q
		}
	}
	return total
}

// EachFlow visits every nonzero edge flow of the current tick.
func (n *FlowNetwork) EachFlow(fn func(from, to string, q float64)) {
	for e, q := range n.flows {
		fn(e.from, e.to, q)
	}
}

// Pressure returns the pressure (bar) computed for id this tick, atmospheric
// when the id is unknown or not yet resolved.
func (n *FlowNetwork) Pressure(id string) float64 {
	if p, ok := n.pressures[id]; ok {
		return p
	}
	return AtmosphericPressure
}

// inletPressure is the pressure of a component's first listed input,
// atmospheric when absent or unresolved.
func (n *FlowNetwork) inletPressure(c Component) float64 {
	if len(c.Inputs()) == 0 {
		return AtmosphericPressure
	}
	return n.Pressure(c.Inputs()[0])
}

// CalculateFlows rebuilds the flow and pressure maps for this tick. It is a
// single deterministic pass per component kind in flowOrder — a quasi-steady
// approximation, not a conservation solve. Each enabled component reports its
// output flow, which is distributed evenly across its outputs.
func (n *FlowNetwork) CalculateFlows(dt float64) {
	n.flows = make(map[edge]float64)
	for _, kind := range flowOrder {
		for _, c := range n.ComponentsByKind(kind) {
			if !c.Enabled() {
				continue
			}
			q := c.OutputFlow()
			outs := c.Outputs()
			if q <= 0 || len(outs) == 0 {
				continue
			}
			share := q / float64(len(outs))
			for _, to := range outs {
				n.flows[edge{c.ID(), to}] = share
				logrus.Tracef("flow %s -> %s: %.6f m³/s", c.ID(), to, share)
			}
			if kind == KindValve || kind == KindPump {
				n.recordDraw(c, q)
			}
		}
	}
	n.applyBoundaryConditions(dt)
	n.calculatePressures()
}

// recordDraw writes the intake side of a generated flow. Active components
// (valves, pumps) draw what they emit from upstream, so the edges into them
// carry the same rate; without this, an accumulator feeding a pump would
// never see its own outflow. The draw propagates back through
// flow-transparent links so a tank behind an inline sensor still drains.
func (n *FlowNetwork) recordDraw(c Component, q float64) {
	ins := c.Inputs()
	if len(ins) == 0 {
		return
	}
	share := q / float64(len(ins))
	visited := map[string]bool{c.ID(): true}
	for _, in := range ins {
		n.drawFrom(in, c.ID(), share, visited)
	}
}

func (n *FlowNetwork) drawFrom(from, to string, q float64, visited map[string]bool) {
	if visited[from] {
		return
	}
	visited[from] = true
	n.flows[edge{from, to}] = q
	c, ok := n.Component(from)
	if !ok || !flowTransparent(c.Kind()) {
		return
	}
	ins := c.Inputs()
	if len(ins) == 0 {
		return
	}
	share := q / float64(len(ins))
	for _, in := range ins {
		n.drawFrom(in, from, share, visited)
	}
}

// applyBoundaryConditions is the reserved extension point for pressure-driven
// boundary demand. Feeds and drains are passive in the flow pass today.
func (n *FlowNetwork) applyBoundaryConditions(dt float64) {}

// UpdateComponents runs every enabled component's Update. Order among
// components does not matter here: each only reads flows and pressures
// already finalized this tick.
func (n *FlowNetwork) UpdateComponents(dt float64) {
	for _, id := range n.order {
		if c := n.components[id]; c.Enabled() {
			c.Update(dt)
		}
	}
}

// Reset restores every component to its configured initial state and clears
// the derived maps.
func (n *FlowNetwork) Reset() {
	for _, id := range n.order {
		n.components[id].Reset()
	}
	n.flows = make(map[edge]float64)
	n.pressures = make(map[string]float64)
}
