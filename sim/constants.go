package sim

// Physical constants shared by the pressure pass and the component models.
// The working fluid is water at ambient conditions throughout.
const (
	// AtmosphericPressure in bar.
	AtmosphericPressure = 1.01325
	// WaterDensity in kg/m³.
	WaterDensity = 1000.0
	// WaterSpecificHeat in J/(kg·K).
	WaterSpecificHeat = 4186.0
	// Gravity in m/s².
	Gravity = 9.81
	// DefaultFluidTemperature in °C, used whenever no upstream
	// component carries a temperature.
	DefaultFluidTemperature = 20.0

	pascalsPerBar = 1e5
)

// hydrostaticBar returns the pressure of a liquid column of height h meters,
// in bar.
func hydrostaticBar(h float64) float64 {
	return WaterDensity * Gravity * h / pascalsPerBar
}

// dynamicHeadBar returns the dynamic pressure ½ρv² for a flow q (m³/s), in
// bar. The velocity uses the engine-wide fixed flow-area assumption v = 4q.
func dynamicHeadBar(q float64) float64 {
	v := q * 4
	return 0.5 * WaterDensity * v * v / pascalsPerBar
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}
