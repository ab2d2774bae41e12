package sim

// pressureOrder fixes the evaluation sequence of the pressure pass. Anchors
// first (feeds, drains, tanks resolve without looking upstream), then the
// components whose pressure derives from their inlet. An inlet that has not
// been resolved by the time it is read falls back to atmospheric.
var pressureOrder = []ComponentKind{
	KindFeed,
	KindDrain,
	KindTank,
	KindPump,
	KindValve,
	KindHeatExchanger,
	KindPressureSensor,
	KindFlowSensor,
	KindTemperatureSensor,
	KindLevelSensor,
}

// calculatePressures rebuilds the pressure map after the flow pass.
//
// Feeds anchor at their supply pressure and drains at ambient. Tanks expose
// the hydrostatic column at their bottom. A running pump adds a simplified
// head of 10 m per 1 m³/s of rated capacity to its inlet pressure; a stopped
// pump passes its inlet through. A throttling valve drops K·½ρv² with
// K = 10·(1−position) and v = 4·flow; a near-open or near-stagnant valve
// drops nothing. Everything else is hydraulically transparent.
func (n *FlowNetwork) calculatePressures() {
	n.pressures = make(map[string]float64, len(n.components))
	for _, kind := range pressureOrder {
		for _, c := range n.ComponentsByKind(kind) {
			n.pressures[c.ID()] = n.componentPressure(c)
		}
	}
}

func (n *FlowNetwork) componentPressure(c Component) float64 {
	switch comp := c.(type) {
	case *Feed:
		return comp.SupplyPressure()
	case *Drain:
		return comp.AmbientPressure()
	case *Tank:
		return AtmosphericPressure + hydrostaticBar(comp.Level()*comp.MaxHeight())
	case *Pump:
		inlet := n.inletPressure(c)
		if !comp.Running() {
			return inlet
		}
		return inlet + hydrostaticBar(comp.Capacity()*10)
	case *Valve:
		inlet := n.inletPressure(c)
		q := n.OutputFlow(comp.ID())
		if q > 0.001 && comp.Position() < 0.95 {
			k := 10 * (1 - comp.Position())
			inlet -= k * dynamicHeadBar(q)
		}
		return inlet
	default:
		// heat exchangers and sensors pass pressure through
		return n.inletPressure(c)
	}
}
