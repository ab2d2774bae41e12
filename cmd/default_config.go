package cmd

import sim "github.com/procsim/procsim/sim"

// DefaultNetworkConfig is the built-in demo plant: a hot feed throttled into
// a buffer tank, pumped through the hot side of a heat exchanger cooled by a
// second feed, with sensors on the interesting spots. Used whenever no
// --config file is given.
func DefaultNetworkConfig() *sim.NetworkConfig {
	return &sim.NetworkConfig{
		Feeds: map[string]sim.FeedConfig{
			"hotFeed": {
				ID:             "feed1",
				Name:           "Hot supply",
				FlowRate:       0.3,
				SupplyPressure: 2.0,
				Temperature:    f64(80),
				Outputs:        []string{"valve1"},
			},
			"coolingFeed": {
				ID:          "feed2",
				Name:        "Cooling water",
				FlowRate:    0.2,
				Temperature: f64(15),
				Outputs:     []string{"hx1"},
			},
		},
		Drains: map[string]sim.DrainConfig{
			"processDrain": {ID: "drain1", Name: "Process outfall", Inputs: []string{"hx1"}},
			"coolingDrain": {ID: "drain2", Name: "Cooling return", Inputs: []string{"hx1"}},
		},
		Tanks: map[string]sim.TankConfig{
			"bufferTank": {
				ID:            "tank1",
				Name:          "Buffer tank",
				Area:          2.0,
				MaxHeight:     1.5,
				InitialVolume: 1.0,
				Inputs:        []string{"fs1"},
				Outputs:       []string{"pump1"},
			},
		},
		Pumps: map[string]sim.PumpConfig{
			"transferPump": {
				ID:               "pump1",
				Name:             "Transfer pump",
				Mode:             sim.PumpModeVariable,
				Capacity:         0.5,
				Efficiency:       0.9,
				InitialSpeed:     0.8,
				Running:          true,
				RequiresMinLevel: 0.05,
				Inputs:           []string{"tank1"},
				Outputs:          []string{"hx1"},
			},
		},
		Valves: map[string]sim.ValveConfig{
			"inletValve": {
				ID:              "valve1",
				Name:            "Inlet valve",
				MaxFlow:         0.5,
				InitialPosition: 1.0,
				ResponseTime:    2.0,
				Inputs:          []string{"feed1"},
				Outputs:         []string{"fs1"},
			},
		},
		HeatExchangers: map[string]sim.HeatExchangerConfig{
			"cooler": {
				ID:                "hx1",
				Name:              "Process cooler",
				HeatTransferCoeff: 800,
				Area:              12,
				Arrangement:       sim.Counterflow,
				HotInput:          "pump1",
				ColdInput:         "feed2",
				HotOutput:         "drain1",
				ColdOutput:        "drain2",
				Inputs:            []string{"pump1", "feed2"},
				Outputs:           []string{"drain1", "drain2"},
			},
		},
		FlowSensors: map[string]sim.FlowSensorConfig{
			"inletFlow": {
				ID:      "fs1",
				Name:    "Inlet flow",
				Inputs:  []string{"valve1"},
				Outputs: []string{"tank1"},
			},
		},
		LevelSensors: map[string]sim.LevelSensorConfig{
			"tankLevel": {
				ID:            "ls1",
				Name:          "Buffer tank level",
				LowLowAlarm:   f64(0.05),
				LowAlarm:      f64(0.15),
				HighAlarm:     f64(0.85),
				HighHighAlarm: f64(0.95),
				Inputs:        []string{"tank1"},
			},
		},
		TemperatureSensors: map[string]sim.TemperatureSensorConfig{
			"coolerOutlet": {
				ID:          "ts1",
				Name:        "Cooler hot outlet",
				Measurement: sim.MeasureOutlet,
				Inputs:      []string{"hx1"},
			},
		},
		PressureSensors: map[string]sim.PressureSensorConfig{
			"tankBottom": {
				ID:          "ps1",
				Name:        "Tank bottom pressure",
				Measurement: sim.MeasureTankBottom,
				Inputs:      []string{"tank1"},
			},
		},
	}
}

func f64(v float64) *float64 { return &v }
