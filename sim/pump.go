package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// PumpMode selects the speed-legalization policy. It replaces a class
// hierarchy: the modes differ only in which speed values are legal.
type PumpMode string

const (
	// PumpModeFixed allows speed 0 or 1, toggled by Start/Stop.
	PumpModeFixed PumpMode = "fixed"
	// PumpModeVariable allows any speed in [minSpeed, 1].
	PumpModeVariable PumpMode = "variable"
	// PumpModeThreeSpeed snaps speed to the nearest of three discrete levels.
	PumpModeThreeSpeed PumpMode = "three-speed"
)

// defaultSpeedLevels for three-speed mode: low, medium, high.
var defaultSpeedLevels = []float64{1.0 / 3.0, 2.0 / 3.0, 1.0}

// CavitationConfig parameterizes the timed flow derate.
type CavitationConfig struct {
	Enabled bool `yaml:"enabled"`
	// TriggerTime is the cumulative run time (s) before onset; nil means
	// cavitation fires on every start.
	TriggerTime *float64 `yaml:"triggerTime"`
	// Duration the derate stays active, in seconds.
	Duration float64 `yaml:"duration" validate:"gte=0"`
	// FlowReduction multiplies the base flow while active.
	FlowReduction float64 `yaml:"flowReduction" validate:"gte=0,lte=1"`
}

// PumpConfig describes an active flow generator.
type PumpConfig struct {
	ID   string   `yaml:"id"`
	Type string   `yaml:"type" validate:"omitempty,eq=Pump"`
	Name string   `yaml:"name"`
	Mode PumpMode `yaml:"mode" validate:"omitempty,oneof=fixed variable three-speed"`
	// Capacity in m³/s at full speed.
	Capacity   float64 `yaml:"capacity" validate:"gt=0"`
	Efficiency float64 `yaml:"efficiency" validate:"gte=0,lte=1"`
	// MinSpeed is the variable-mode floor.
	MinSpeed float64 `yaml:"minSpeed" validate:"gte=0,lte=1"`
	// SpeedLevels overrides the three discrete levels of three-speed mode.
	SpeedLevels  []float64 `yaml:"speedLevels" validate:"omitempty,len=3,dive,gt=0,lte=1"`
	InitialSpeed float64   `yaml:"initialSpeed" validate:"gte=0,lte=1"`
	Running      bool      `yaml:"running"`
	// RequiresMinLevel stalls the pump while any upstream tank's level is
	// below this fraction.
	RequiresMinLevel float64          `yaml:"requiresMinLevel" validate:"gte=0,lte=1"`
	Cavitation       CavitationConfig `yaml:"cavitation"`
	Inputs           []string         `yaml:"inputs"`
	Outputs          []string         `yaml:"outputs"`
}

// cavitationState is the runtime half of the cavitation machine: Idle→Active
// on trigger, Active→Idle after duration, forced Idle by Stop.
type cavitationState struct {
	CavitationConfig
	active    bool
	activeFor float64
	runTime   float64
}

// Pump generates flow constrained by its own capacity, upstream tank
// availability, the nearest downstream valve, and a timed cavitation derate.
type Pump struct {
	baseComponent
	cfg              PumpConfig
	mode             PumpMode
	capacity         float64
	efficiency       float64
	minSpeed         float64
	speedLevels      []float64
	requiresMinLevel float64

	speed   float64
	running bool
	cav     cavitationState
}

// NewPump builds a Pump. Zero efficiency defaults to 1, a missing mode to
// fixed, and missing three-speed levels to thirds.
func NewPump(cfg PumpConfig) *Pump {
	p := &Pump{
		baseComponent:    newBase(cfg.ID, KindPump, cfg.Name, cfg.Inputs, cfg.Outputs),
		cfg:              cfg,
		mode:             cfg.Mode,
		capacity:         cfg.Capacity,
		efficiency:       cfg.Efficiency,
		minSpeed:         cfg.MinSpeed,
		requiresMinLevel: cfg.RequiresMinLevel,
	}
	if p.mode == "" {
		p.mode = PumpModeFixed
	}
	if p.efficiency == 0 {
		p.efficiency = 1
	}
	p.speedLevels = append([]float64(nil), cfg.SpeedLevels...)
	if len(p.speedLevels) != 3 {
		p.speedLevels = append([]float64(nil), defaultSpeedLevels...)
	}
	p.setInitialState()
	return p
}

func (p *Pump) setInitialState() {
	p.running = p.cfg.Running
	p.speed = p.legalSpeed(p.cfg.InitialSpeed)
	if p.mode == PumpModeFixed {
		if p.running {
			p.speed = 1
		} else {
			p.speed = 0
		}
	}
	p.cav = cavitationState{CavitationConfig: p.cfg.Cavitation}
}

func (p *Pump) Mode() PumpMode    { return p.mode }
func (p *Pump) Capacity() float64 { return p.capacity }
func (p *Pump) Speed() float64    { return p.speed }
func (p *Pump) Running() bool     { return p.running }

// CavitationActive reports whether the derate is currently applied.
func (p *Pump) CavitationActive() bool { return p.cav.active }

// legalSpeed maps a requested speed onto the legal set for the pump's mode.
func (p *Pump) legalSpeed(x float64) float64 {
	x = clamp01(x)
	switch p.mode {
	case PumpModeVariable:
		if x < p.minSpeed {
			return p.minSpeed
		}
		return x
	case PumpModeThreeSpeed:
		nearest := p.speedLevels[0]
		for _, level := range p.speedLevels[1:] {
			if math.Abs(x-level) < math.Abs(x-nearest) {
				nearest = level
			}
		}
		return nearest
	default: // fixed: binary
		if x >= 0.5 {
			return 1
		}
		return 0
	}
}

// SetSpeed commands a new speed; the value is legalized per mode.
func (p *Pump) SetSpeed(x float64) {
	p.speed = p.legalSpeed(x)
}

// SetLow, SetMedium and SetHigh are three-speed conveniences over the same
// snap rule.
func (p *Pump) SetLow()    { p.speed = p.legalSpeed(p.speedLevels[0]) }
func (p *Pump) SetMedium() { p.speed = p.legalSpeed(p.speedLevels[1]) }
func (p *Pump) SetHigh()   { p.speed = p.legalSpeed(p.speedLevels[2]) }

// CycleSpeed advances a three-speed pump to the next level, wrapping.
func (p *Pump) CycleSpeed() {
	if p.mode != PumpModeThreeSpeed {
		return
	}
	for i, level := range p.speedLevels {
		if p.speed == level {
			p.speed = p.speedLevels[(i+1)%len(p.speedLevels)]
			return
		}
	}
	p.speed = p.speedLevels[0]
}

// Start begins pumping. With a nil cavitation trigger time, cavitation fires
// immediately on every start.
func (p *Pump) Start() {
	p.running = true
	p.cav.runTime = 0
	if p.mode == PumpModeFixed {
		p.speed = 1
	}
	if p.cav.Enabled && p.cav.TriggerTime == nil {
		p.cav.active = true
		p.cav.activeFor = 0
		logrus.Debugf("pump %s: cavitation onset at start", p.id)
	}
}

// Stop halts the pump, forces cavitation idle, and resets the elapsed run
// time.
func (p *Pump) Stop() {
	p.running = false
	if p.mode == PumpModeFixed {
		p.speed = 0
	}
	p.cav.active = false
	p.cav.activeFor = 0
	p.cav.runTime = 0
}

// OutputFlow resolves the pump's flow against all of its constraints:
//
//	min(capacity·speed·efficiency [·cavitation derate],
//	    10 · nearest upstream tank volume,
//	    nearest downstream valve maxFlow·position)
//
// and zero outright when not running or when any upstream tank sits below the
// required minimum level.
func (p *Pump) OutputFlow() float64 {
	if !p.running {
		return 0
	}
	base := p.capacity * p.speed * p.efficiency
	if p.cav.active {
		base *= p.cav.FlowReduction
	}

	available := math.Inf(1)
	for _, in := range p.inputs {
		tank, ok := resolveNearestAt[*Tank](p.net, in, upstream)
		if !ok {
			continue
		}
		if tank.Level() < p.requiresMinLevel {
			logrus.Debugf("pump %s: upstream tank %s below min level", p.id, tank.ID())
			return 0
		}
		// A tank can drain at most 10× its current volume per second.
		available = math.Min(available, tank.Volume()*10)
	}

	maxThroughValve := math.Inf(1)
	for _, out := range p.outputs {
		if valve, ok := resolveNearestAt[*Valve](p.net, out, downstream); ok {
			maxThroughValve = math.Min(maxThroughValve, valve.MaxFlow()*valve.Position())
		}
	}

	return math.Min(base, math.Min(available, maxThroughValve))
}

// Update advances the cavitation state machine over the pump's run time.
func (p *Pump) Update(dt float64) {
	if !p.running {
		return
	}
	p.cav.runTime += dt
	if !p.cav.Enabled {
		return
	}
	if !p.cav.active && p.cav.TriggerTime != nil && p.cav.runTime >= *p.cav.TriggerTime {
		p.cav.active = true
		p.cav.activeFor = 0
		logrus.Debugf("pump %s: cavitation onset after %.1fs run time", p.id, p.cav.runTime)
	}
	if p.cav.active {
		p.cav.activeFor += dt
		if p.cav.activeFor >= p.cav.Duration {
			// Clearing re-arms the cycle: run time starts over.
			p.cav.active = false
			p.cav.activeFor = 0
			p.cav.runTime = 0
			logrus.Debugf("pump %s: cavitation cleared", p.id)
		}
	}
}

func (p *Pump) Reset() {
	p.setInitialState()
	p.enabled = true
}

func (p *Pump) Info() map[string]any {
	info := p.baseInfo()
	info["mode"] = string(p.mode)
	info["capacity"] = p.capacity
	info["efficiency"] = p.efficiency
	info["speed"] = p.speed
	info["running"] = p.running
	info["cavitationActive"] = p.cav.active
	return info
}
