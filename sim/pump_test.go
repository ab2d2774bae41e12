package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// drawNet wires tank→pump→valve, the canonical pump test lineup.
func drawNet(t *testing.T, tankCfg TankConfig, pumpCfg PumpConfig, valveCfg ValveConfig) (*FlowNetwork, *Tank, *Pump, *Valve) {
	t.Helper()
	tank := NewTank(tankCfg)
	pump := NewPump(pumpCfg)
	valve := NewValve(valveCfg)
	n := buildNet(t, tank, pump, valve)
	return n, tank, pump, valve
}

func TestPump_OutputFlow_CapacityBound(t *testing.T) {
	// GIVEN a variable pump at 95% efficiency and full speed behind a full
	// tank and a wide-open oversized valve
	_, _, pump, _ := drawNet(t,
		TankConfig{ID: "tank1", Area: 2.0, MaxHeight: 1.5, InitialVolume: 3.0, Outputs: []string{"pump1"}},
		PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 0.5, Efficiency: 0.95,
			InitialSpeed: 1.0, Running: true, Inputs: []string{"tank1"}, Outputs: []string{"valve1"}},
		ValveConfig{ID: "valve1", MaxFlow: 5.0, InitialPosition: 1.0, Inputs: []string{"pump1"}},
	)

	// THEN capacity·speed·efficiency is the binding constraint
	assert.InDelta(t, 0.475, pump.OutputFlow(), 1e-9)
}

func TestPump_OutputFlow_ValveBound(t *testing.T) {
	// GIVEN a downstream valve throttled below the pump's base flow
	_, _, pump, _ := drawNet(t,
		TankConfig{ID: "tank1", Area: 2.0, MaxHeight: 1.5, InitialVolume: 3.0, Outputs: []string{"pump1"}},
		PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, Efficiency: 1.0,
			InitialSpeed: 1.0, Running: true, Inputs: []string{"tank1"}, Outputs: []string{"valve1"}},
		ValveConfig{ID: "valve1", MaxFlow: 0.6, InitialPosition: 0.5, Inputs: []string{"pump1"}},
	)

	// THEN the valve caps the flow at maxFlow·position
	assert.InDelta(t, 0.3, pump.OutputFlow(), 1e-9)
}

func TestPump_OutputFlow_TankAvailabilityBound(t *testing.T) {
	// GIVEN a nearly empty tank holding 0.02 m³
	_, _, pump, _ := drawNet(t,
		TankConfig{ID: "tank1", Area: 2.0, MaxHeight: 1.5, InitialVolume: 0.02, Outputs: []string{"pump1"}},
		PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, Efficiency: 1.0,
			InitialSpeed: 1.0, Running: true, Inputs: []string{"tank1"}, Outputs: []string{"valve1"}},
		ValveConfig{ID: "valve1", MaxFlow: 5.0, InitialPosition: 1.0, Inputs: []string{"pump1"}},
	)

	// THEN draw is limited to 10× the current volume per second
	assert.InDelta(t, 0.2, pump.OutputFlow(), 1e-9)
}

func TestPump_OutputFlow_ZeroBelowMinLevel(t *testing.T) {
	// GIVEN a tank at 4% level and a pump requiring 5%
	_, _, pump, _ := drawNet(t,
		TankConfig{ID: "tank1", Area: 2.0, MaxHeight: 1.5, InitialVolume: 0.12, Outputs: []string{"pump1"}},
		PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, Efficiency: 1.0,
			InitialSpeed: 1.0, Running: true, RequiresMinLevel: 0.05,
			Inputs: []string{"tank1"}, Outputs: []string{"valve1"}},
		ValveConfig{ID: "valve1", MaxFlow: 5.0, InitialPosition: 1.0, Inputs: []string{"pump1"}},
	)

	// THEN the pump stalls outright rather than derating
	assert.Equal(t, 0.0, pump.OutputFlow())
}

func TestPump_OutputFlow_ZeroWhenStopped(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 1.0, InitialSpeed: 1.0})
	buildNet(t, pump)

	assert.False(t, pump.Running())
	assert.Equal(t, 0.0, pump.OutputFlow())
}

func TestPump_OutputFlow_SeesTankThroughSensor(t *testing.T) {
	// GIVEN an inline flow sensor between the tank and the pump
	tank := NewTank(TankConfig{ID: "tank1", Area: 2.0, MaxHeight: 1.5, InitialVolume: 0.02, Outputs: []string{"fs1"}})
	fs := NewFlowSensor(FlowSensorConfig{ID: "fs1", Inputs: []string{"tank1"}, Outputs: []string{"pump1"}})
	pump := NewPump(PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, Efficiency: 1.0,
		InitialSpeed: 1.0, Running: true, Inputs: []string{"fs1"}})
	buildNet(t, tank, fs, pump)

	// THEN the availability bound still applies through the sensor
	assert.InDelta(t, 0.2, pump.OutputFlow(), 1e-9)
}

func TestPump_FixedMode_BinarySpeed(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Mode: PumpModeFixed, Capacity: 1.0, InitialSpeed: 0.7})

	// GIVEN a fixed pump not running, speed is forced to 0 regardless of config
	assert.Equal(t, 0.0, pump.Speed())

	pump.Start()
	assert.Equal(t, 1.0, pump.Speed())

	pump.SetSpeed(0.3)
	assert.Equal(t, 0.0, pump.Speed(), "fixed mode snaps below 0.5 to 0")

	pump.SetSpeed(0.5)
	assert.Equal(t, 1.0, pump.Speed())
}

func TestPump_VariableMode_FloorClamp(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, MinSpeed: 0.2, InitialSpeed: 0.8})

	pump.SetSpeed(0.05)
	assert.Equal(t, 0.2, pump.Speed(), "variable mode clamps to the floor")

	pump.SetSpeed(1.4)
	assert.Equal(t, 1.0, pump.Speed())
}

func TestPump_ThreeSpeedMode_SnapsToNearestLevel(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Mode: PumpModeThreeSpeed, Capacity: 1.0, InitialSpeed: 0.4})

	// GIVEN default levels 1/3, 2/3, 1: 0.4 snaps to low
	assert.InDelta(t, 1.0/3.0, pump.Speed(), 1e-9)

	pump.SetSpeed(0.6)
	assert.InDelta(t, 2.0/3.0, pump.Speed(), 1e-9)

	pump.SetSpeed(0.95)
	assert.Equal(t, 1.0, pump.Speed())
}

func TestPump_ThreeSpeedMode_Conveniences(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Mode: PumpModeThreeSpeed, Capacity: 1.0,
		SpeedLevels: []float64{0.25, 0.5, 1.0}})

	pump.SetMedium()
	assert.Equal(t, 0.5, pump.Speed())
	pump.SetHigh()
	assert.Equal(t, 1.0, pump.Speed())
	pump.SetLow()
	assert.Equal(t, 0.25, pump.Speed())

	pump.CycleSpeed()
	assert.Equal(t, 0.5, pump.Speed())
	pump.CycleSpeed()
	pump.CycleSpeed()
	assert.Equal(t, 0.25, pump.Speed(), "cycling wraps back to low")
}

func TestPump_CycleSpeed_IgnoredOutsideThreeSpeed(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, InitialSpeed: 0.8})
	pump.CycleSpeed()
	assert.Equal(t, 0.8, pump.Speed())
}

func TestPump_Cavitation_NilTriggerFiresOnStart(t *testing.T) {
	// GIVEN cavitation with no trigger time
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 1.0,
		Cavitation: CavitationConfig{Enabled: true, Duration: 5.0, FlowReduction: 0.5}})

	// WHEN the pump starts
	pump.Start()

	// THEN the derate is active immediately, and again after every restart
	assert.True(t, pump.CavitationActive())
	pump.Stop()
	assert.False(t, pump.CavitationActive())
	pump.Start()
	assert.True(t, pump.CavitationActive())
}

func TestPump_Cavitation_TimedTriggerAndClear(t *testing.T) {
	// GIVEN cavitation triggering after ~2 s of run time for ~1 s
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 1.0,
		Cavitation: CavitationConfig{Enabled: true, TriggerTime: ptr(1.95), Duration: 0.95, FlowReduction: 0.3}})
	pump.Start()
	assert.False(t, pump.CavitationActive())

	// WHEN run time accrues past the trigger
	for i := 0; i < 20; i++ { // 2.0 s
		pump.Update(0.1)
	}
	assert.True(t, pump.CavitationActive())

	// AND the duration elapses
	for i := 0; i < 10; i++ { // 1.0 s
		pump.Update(0.1)
	}

	// THEN the derate clears and the run-time counter re-arms
	assert.False(t, pump.CavitationActive())
	pump.Update(0.1)
	assert.False(t, pump.CavitationActive(), "cleared cavitation must not re-trigger immediately")
}

func TestPump_Cavitation_DeratesFlow(t *testing.T) {
	_, _, pump, _ := drawNet(t,
		TankConfig{ID: "tank1", Area: 2.0, MaxHeight: 1.5, InitialVolume: 3.0, Outputs: []string{"pump1"}},
		PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, Efficiency: 1.0, InitialSpeed: 1.0,
			Cavitation: CavitationConfig{Enabled: true, Duration: 5.0, FlowReduction: 0.4},
			Inputs:     []string{"tank1"}, Outputs: []string{"valve1"}},
		ValveConfig{ID: "valve1", MaxFlow: 5.0, InitialPosition: 1.0, Inputs: []string{"pump1"}},
	)

	pump.Start()
	assert.InDelta(t, 0.4, pump.OutputFlow(), 1e-9)
}

func TestPump_Update_NoRunTimeWhileStopped(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Capacity: 1.0,
		Cavitation: CavitationConfig{Enabled: true, TriggerTime: ptr(0.5), Duration: 1.0, FlowReduction: 0.5}})

	// GIVEN a stopped pump, WHEN time passes
	for i := 0; i < 20; i++ {
		pump.Update(0.1)
	}

	// THEN nothing accrues and cavitation never triggers
	assert.False(t, pump.CavitationActive())
}

func TestPump_Reset_RestoresConfiguredState(t *testing.T) {
	pump := NewPump(PumpConfig{ID: "pump1", Mode: PumpModeVariable, Capacity: 1.0, InitialSpeed: 0.8,
		Cavitation: CavitationConfig{Enabled: true, Duration: 5.0, FlowReduction: 0.5}})
	pump.Start()
	pump.SetSpeed(0.3)
	pump.Update(1.0)

	pump.Reset()
	once := pump.Info()
	pump.Reset()

	assert.Equal(t, once, pump.Info())
	assert.False(t, pump.Running())
	assert.Equal(t, 0.8, pump.Speed())
	assert.False(t, pump.CavitationActive())
}
