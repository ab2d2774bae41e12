package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveNearest_DirectNeighbor(t *testing.T) {
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0, Outputs: []string{"pump1"}})
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 0.1, Inputs: []string{"tank1"}})
	n := buildNet(t, tank, pump)

	found, ok := resolveNearest[*Tank](n, pump, upstream)

	assert.True(t, ok)
	assert.Same(t, tank, found)
}

func TestResolveNearest_LooksThroughSensors(t *testing.T) {
	// GIVEN tank → flow sensor → pressure sensor → pump
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0, Outputs: []string{"fs1"}})
	fs := NewFlowSensor(FlowSensorConfig{ID: "fs1", Inputs: []string{"tank1"}, Outputs: []string{"ps1"}})
	ps := NewPressureSensor(PressureSensorConfig{ID: "ps1", Inputs: []string{"fs1"}, Outputs: []string{"pump1"}})
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 0.1, Inputs: []string{"ps1"}})
	n := buildNet(t, tank, fs, ps, pump)

	found, ok := resolveNearest[*Tank](n, pump, upstream)

	assert.True(t, ok)
	assert.Same(t, tank, found)
}

func TestResolveNearest_OpaqueComponentsBlockTheSearch(t *testing.T) {
	// GIVEN a valve between the tank and the pump: valves are not
	// flow-transparent, so the tank is out of reach
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0, Outputs: []string{"valve1"}})
	valve := NewValve(ValveConfig{ID: "valve1", MaxFlow: 0.1, Inputs: []string{"tank1"}, Outputs: []string{"pump1"}})
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 0.1, Inputs: []string{"valve1"}})
	n := buildNet(t, tank, valve, pump)

	_, ok := resolveNearest[*Tank](n, pump, upstream)

	assert.False(t, ok)
}

func TestResolveNearest_Downstream(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 0.1, Outputs: []string{"fs1"}})
	fs := NewFlowSensor(FlowSensorConfig{ID: "fs1", Inputs: []string{"pump1"}, Outputs: []string{"valve1"}})
	valve := NewValve(ValveConfig{ID: "valve1", MaxFlow: 0.1, Inputs: []string{"fs1"}})
	n := buildNet(t, pump, fs, valve)

	found, ok := resolveNearest[*Valve](n, pump, downstream)

	assert.True(t, ok)
	assert.Same(t, valve, found)
}

func TestResolveNearestAt_StartNodeIsACandidate(t *testing.T) {
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0})
	n := buildNet(t, tank)

	found, ok := resolveNearestAt[*Tank](n, "tank1", upstream)

	assert.True(t, ok)
	assert.Same(t, tank, found)
}

func TestResolveNearest_DanglingReferenceResolvesToNothing(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 0.1, Inputs: []string{"ghost"}})
	n := buildNet(t, pump)

	_, ok := resolveNearest[*Tank](n, pump, upstream)

	assert.False(t, ok)
}

func TestResolveNearest_TerminatesOnCycles(t *testing.T) {
	// GIVEN two sensors referencing each other
	a := NewFlowSensor(FlowSensorConfig{ID: "fs_a", Inputs: []string{"fs_b"}})
	b := NewFlowSensor(FlowSensorConfig{ID: "fs_b", Inputs: []string{"fs_a"}})
	n := buildNet(t, a, b)

	_, ok := resolveNearestAt[*Tank](n, "fs_a", upstream)

	assert.False(t, ok)
}

func TestSearchUpstreamTemperature_FindsDistantSource(t *testing.T) {
	// GIVEN feed(75 °C) → sensor → sensor → target
	feed := NewFeed(FeedConfig{ID: "feed1", FlowRate: 0.1, Temperature: ptr(75.0), Outputs: []string{"fs1"}})
	fs := NewFlowSensor(FlowSensorConfig{ID: "fs1", Inputs: []string{"feed1"}, Outputs: []string{"ps1"}})
	ps := NewPressureSensor(PressureSensorConfig{ID: "ps1", Inputs: []string{"fs1"}, Outputs: []string{"drain1"}})
	drain := NewDrain(DrainConfig{ID: "drain1", Inputs: []string{"ps1"}})
	n := buildNet(t, feed, fs, ps, drain)

	assert.InDelta(t, 75.0, searchUpstreamTemperature(n, "drain1"), 1e-9)
}

func TestSearchUpstreamTemperature_DefaultsWithoutSource(t *testing.T) {
	valve := NewValve(ValveConfig{ID: "valve1", MaxFlow: 0.1})
	n := buildNet(t, valve)

	assert.Equal(t, DefaultFluidTemperature, searchUpstreamTemperature(n, "valve1"))
}

func TestSearchUpstreamTemperature_HeatExchangerSideAware(t *testing.T) {
	// GIVEN a sensor wired to the cold outlet of an exchanger: the search must
	// report the cold-side temperature, not the hot default
	hx := NewHeatExchanger(HeatExchangerConfig{ID: "hx1",
		Inputs:  []string{"hot_feed", "cold_feed"},
		Outputs: []string{"drain1", "ts1"},
	})
	ts := NewTemperatureSensor(TemperatureSensorConfig{ID: "ts1", Inputs: []string{"hx1"}})
	n := buildNet(t,
		NewFeed(FeedConfig{ID: "hot_feed", FlowRate: 0.1, Temperature: ptr(80.0), Outputs: []string{"hx1"}}),
		NewFeed(FeedConfig{ID: "cold_feed", FlowRate: 0.1, Temperature: ptr(20.0), Outputs: []string{"hx1"}}),
		hx,
		NewDrain(DrainConfig{ID: "drain1", Inputs: []string{"hx1"}}),
		ts,
	)
	hx.coldOutletTemp = 35
	hx.hotOutletTemp = 65

	assert.InDelta(t, 35.0, searchUpstreamTemperature(n, "ts1"), 1e-9)
}
