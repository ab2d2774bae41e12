package sim

// TankConfig describes a passive accumulator.
type TankConfig struct {
	ID                 string   `yaml:"id"`
	Type               string   `yaml:"type" validate:"omitempty,eq=Tank"`
	Name               string   `yaml:"name"`
	Area               float64  `yaml:"area" validate:"gt=0"`
	MaxHeight          float64  `yaml:"maxHeight" validate:"gt=0"`
	InitialVolume      float64  `yaml:"initialVolume" validate:"gte=0"`
	InitialTemperature *float64 `yaml:"initialTemperature"`
	AmbientTemperature *float64 `yaml:"ambientTemperature"`
	// HeatTransferCoeff in W/(m²·K); zero means perfectly insulated.
	HeatTransferCoeff float64 `yaml:"heatTransferCoeff" validate:"gte=0"`
	// LowLevel/HighLevel are status thresholds as level fractions;
	// zero values take the 0.1/0.9 defaults.
	LowLevel  float64  `yaml:"lowLevel" validate:"gte=0,lte=1"`
	HighLevel float64  `yaml:"highLevel" validate:"gte=0,lte=1"`
	Inputs    []string `yaml:"inputs"`
	Outputs   []string `yaml:"outputs"`
}

// Tank integrates a mass and thermal energy balance from whatever flows and
// temperatures its neighbors computed this tick. It never generates flow.
type Tank struct {
	baseComponent
	cfg       TankConfig
	area      float64
	maxHeight float64

	volume      float64
	temperature float64
	// enthalpy in joules relative to 0 °C: volume·ρ·Cp·T.
	enthalpy float64

	ambientTemperature float64
	heatTransferCoeff  float64
	lowLevel           float64
	highLevel          float64
}

// NewTank builds a Tank from its config, clamping the initial volume into
// [0, maxVolume].
func NewTank(cfg TankConfig) *Tank {
	t := &Tank{
		baseComponent:      newBase(cfg.ID, KindTank, cfg.Name, cfg.Inputs, cfg.Outputs),
		cfg:                cfg,
		area:               cfg.Area,
		maxHeight:          cfg.MaxHeight,
		ambientTemperature: DefaultFluidTemperature,
		heatTransferCoeff:  cfg.HeatTransferCoeff,
		lowLevel:           cfg.LowLevel,
		highLevel:          cfg.HighLevel,
	}
	if cfg.AmbientTemperature != nil {
		t.ambientTemperature = *cfg.AmbientTemperature
	}
	if t.lowLevel == 0 {
		t.lowLevel = 0.1
	}
	if t.highLevel == 0 {
		t.highLevel = 0.9
	}
	t.setInitialState()
	return t
}

func (t *Tank) setInitialState() {
	t.volume = clamp(t.cfg.InitialVolume, 0, t.MaxVolume())
	t.temperature = DefaultFluidTemperature
	if t.cfg.InitialTemperature != nil {
		t.temperature = *t.cfg.InitialTemperature
	}
	t.enthalpy = t.volume * WaterDensity * WaterSpecificHeat * t.temperature
}

// MaxVolume is the derived capacity area·maxHeight in m³.
func (t *Tank) MaxVolume() float64 { return t.area * t.maxHeight }

// Volume in m³.
func (t *Tank) Volume() float64 { return t.volume }

// Level is the fill fraction in [0, 1].
func (t *Tank) Level() float64 {
	max := t.MaxVolume()
	if max <= 0 {
		return 0
	}
	return clamp01(t.volume / max)
}

// Temperature of the tank contents in °C.
func (t *Tank) Temperature() float64 { return t.temperature }

// MaxHeight in meters.
func (t *Tank) MaxHeight() float64 { return t.maxHeight }

// OutputFlow is always zero: tanks are purely passive and only consume the
// flows their neighbors produce.
func (t *Tank) OutputFlow() float64 { return 0 }

// Update integrates the mass balance, then the energy balance. Outflow
// carries the tank's current temperature; inflow carries the temperature of
// the upstream source, defaulting when none exposes one. Heat exchange with
// ambient uses h·A·(Tambient−T).
func (t *Tank) Update(dt float64) {
	qin := t.net.InputFlow(t.id)
	qout := t.net.OutputFlow(t.id)

	t.volume = clamp(t.volume+(qin-qout)*dt, 0, t.MaxVolume())

	tin := upstreamTemperature(t.net, t.id)
	hin := qin * WaterDensity * WaterSpecificHeat * tin
	hout := qout * WaterDensity * WaterSpecificHeat * t.temperature
	qheat := t.heatTransferCoeff * t.area * (t.ambientTemperature - t.temperature)
	t.enthalpy += (hin - hout + qheat) * dt

	// An almost-empty tank holds its previous temperature rather than
	// dividing by a vanishing volume.
	if t.volume > 1e-6 {
		t.temperature = t.enthalpy / (t.volume * WaterDensity * WaterSpecificHeat)
	}
}

func (t *Tank) IsEmpty() bool { return t.volume < 0.001 }
func (t *Tank) IsFull() bool  { return t.volume >= t.MaxVolume()-0.001 }
func (t *Tank) IsLow() bool   { return t.Level() < t.lowLevel }
func (t *Tank) IsHigh() bool  { return t.Level() > t.highLevel }

func (t *Tank) Reset() {
	t.setInitialState()
	t.enabled = true
}

func (t *Tank) Info() map[string]any {
	info := t.baseInfo()
	info["volume"] = t.volume
	info["maxVolume"] = t.MaxVolume()
	info["level"] = t.Level()
	info["temperature"] = t.temperature
	info["isEmpty"] = t.IsEmpty()
	info["isFull"] = t.IsFull()
	info["isLow"] = t.IsLow()
	info["isHigh"] = t.IsHigh()
	return info
}
