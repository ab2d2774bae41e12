package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// buildNet wires components into a fresh network, failing the test on
// duplicate ids.
func buildNet(t *testing.T, components ...Component) *FlowNetwork {
	t.Helper()
	n := NewFlowNetwork()
	for _, c := range components {
		require.NoError(t, n.AddComponent(c))
	}
	return n
}

func tick(n *FlowNetwork, dt float64, steps int) {
	for i := 0; i < steps; i++ {
		n.CalculateFlows(dt)
		n.UpdateComponents(dt)
	}
}

func TestTank_MassBalance_ConstantFill(t *testing.T) {
	// GIVEN an empty 2.0 m² × 1.5 m tank fed at a constant 0.3 m³/s
	feed := NewFeed(FeedConfig{ID: "feed1", FlowRate: 0.3, Outputs: []string{"tank1"}})
	tank := NewTank(TankConfig{ID: "tank1", Area: 2.0, MaxHeight: 1.5, Inputs: []string{"feed1"}})
	n := buildNet(t, feed, tank)

	// WHEN 5 seconds pass in 0.1 s steps
	tick(n, 0.1, 50)

	// THEN the tank holds 1.5 m³ at half its level
	assert.InDelta(t, 1.5, tank.Volume(), 1e-9)
	assert.InDelta(t, 0.5, tank.Level(), 1e-9)
}

func TestTank_Volume_ClampsAtCapacity(t *testing.T) {
	// GIVEN a small tank overfed relative to its 0.2 m³ capacity
	feed := NewFeed(FeedConfig{ID: "feed1", FlowRate: 1.0, Outputs: []string{"tank1"}})
	tank := NewTank(TankConfig{ID: "tank1", Area: 0.2, MaxHeight: 1.0, Inputs: []string{"feed1"}})
	n := buildNet(t, feed, tank)

	// WHEN far more than capacity worth of inflow arrives
	tick(n, 0.1, 100)

	// THEN volume clamps at maxVolume and the tank reports full
	assert.InDelta(t, tank.MaxVolume(), tank.Volume(), 1e-9)
	assert.Equal(t, 1.0, tank.Level())
	assert.True(t, tank.IsFull())
}

func TestTank_Volume_ClampsAtZero(t *testing.T) {
	// GIVEN a nearly empty tank drained through a wide-open downstream valve
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0, InitialVolume: 0.05, Outputs: []string{"valve1"}})
	valve := NewValve(ValveConfig{ID: "valve1", MaxFlow: 0.5, InitialPosition: 1.0, Inputs: []string{"tank1"}, Outputs: []string{"drain1"}})
	drain := NewDrain(DrainConfig{ID: "drain1", Inputs: []string{"valve1"}})
	n := buildNet(t, tank, valve, drain)

	// WHEN the valve keeps drawing long past the held volume
	tick(n, 0.1, 50)

	// THEN the volume clamps at zero
	assert.Equal(t, 0.0, tank.Volume())
	assert.True(t, tank.IsEmpty())
}

func TestTank_EnergyBalance_WarmInflowMixes(t *testing.T) {
	// GIVEN 1 m³ of 20 °C contents receiving 0.1 m³/s at 80 °C
	feed := NewFeed(FeedConfig{ID: "feed1", FlowRate: 0.1, Temperature: ptr(80), Outputs: []string{"tank1"}})
	tank := NewTank(TankConfig{
		ID: "tank1", Area: 1.0, MaxHeight: 2.0,
		InitialVolume: 1.0, InitialTemperature: ptr(20),
		Inputs: []string{"feed1"},
	})
	n := buildNet(t, feed, tank)

	// WHEN one 1 s step integrates
	tick(n, 1.0, 1)

	// THEN the mixed temperature is the volume-weighted blend
	// (20·1.0 + 80·0.1) / 1.1
	assert.InDelta(t, 1.1, tank.Volume(), 1e-9)
	assert.InDelta(t, 25.4545, tank.Temperature(), 1e-3)
}

func TestTank_OutflowCarriesOwnTemperature(t *testing.T) {
	// GIVEN a hot tank draining through a valve, with no inflow
	tank := NewTank(TankConfig{
		ID: "tank1", Area: 1.0, MaxHeight: 2.0,
		InitialVolume: 1.0, InitialTemperature: ptr(60),
		Outputs: []string{"valve1"},
	})
	valve := NewValve(ValveConfig{ID: "valve1", MaxFlow: 0.2, InitialPosition: 1.0, Inputs: []string{"tank1"}, Outputs: []string{"drain1"}})
	drain := NewDrain(DrainConfig{ID: "drain1", Inputs: []string{"valve1"}})
	n := buildNet(t, tank, valve, drain)

	// WHEN the tank drains for a while
	tick(n, 0.1, 20)

	// THEN the remaining contents keep their temperature: outflow removes
	// mass and its proportional enthalpy together
	assert.InDelta(t, 0.6, tank.Volume(), 1e-9)
	assert.InDelta(t, 60.0, tank.Temperature(), 1e-6)
}

func TestTank_AmbientLoss_CoolsTowardAmbient(t *testing.T) {
	// GIVEN an uninsulated hot tank in a 20 °C room with no flow
	tank := NewTank(TankConfig{
		ID: "tank1", Area: 2.0, MaxHeight: 1.0,
		InitialVolume: 1.0, InitialTemperature: ptr(90),
		AmbientTemperature: ptr(20), HeatTransferCoeff: 500,
	})
	n := buildNet(t, tank)

	before := tank.Temperature()
	tick(n, 0.1, 100)

	// THEN it cools, but never below ambient
	assert.Less(t, tank.Temperature(), before)
	assert.GreaterOrEqual(t, tank.Temperature(), 20.0)
}

func TestTank_NearEmpty_HoldsPreviousTemperature(t *testing.T) {
	// GIVEN an empty tank
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0, InitialTemperature: ptr(35)})
	n := buildNet(t, tank)

	// WHEN ticks pass with no flow at all
	tick(n, 0.1, 10)

	// THEN the temperature holds instead of dividing by a vanishing volume
	assert.InDelta(t, 35.0, tank.Temperature(), 1e-9)
}

func TestTank_StatusThresholds(t *testing.T) {
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0, InitialVolume: 0.05})
	assert.True(t, tank.IsLow())
	assert.False(t, tank.IsHigh())
	assert.False(t, tank.IsEmpty())

	high := NewTank(TankConfig{ID: "tank2", Area: 1.0, MaxHeight: 1.0, InitialVolume: 0.95})
	assert.True(t, high.IsHigh())
	assert.False(t, high.IsFull())
}

func TestTank_Reset_RestoresInitialState(t *testing.T) {
	// GIVEN a tank mutated by several ticks
	feed := NewFeed(FeedConfig{ID: "feed1", FlowRate: 0.2, Temperature: ptr(70), Outputs: []string{"tank1"}})
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 2.0, InitialVolume: 0.5, Inputs: []string{"feed1"}})
	n := buildNet(t, feed, tank)
	tick(n, 0.1, 30)

	// WHEN reset twice
	tank.Reset()
	once := tank.Info()
	tank.Reset()
	twice := tank.Info()

	// THEN reset is idempotent and restores the configured state
	assert.Equal(t, once, twice)
	assert.InDelta(t, 0.5, tank.Volume(), 1e-9)
	assert.InDelta(t, DefaultFluidTemperature, tank.Temperature(), 1e-9)
}

func TestTank_OutputFlow_AlwaysZero(t *testing.T) {
	tank := NewTank(TankConfig{ID: "tank1", Area: 1.0, MaxHeight: 1.0, InitialVolume: 0.9})
	assert.Equal(t, 0.0, tank.OutputFlow())
}
