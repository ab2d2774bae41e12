package sim

// ValveConfig describes a flow throttle.
type ValveConfig struct {
	ID              string  `yaml:"id"`
	Type            string  `yaml:"type" validate:"omitempty,eq=Valve"`
	Name            string  `yaml:"name"`
	MaxFlow         float64 `yaml:"maxFlow" validate:"gt=0"`
	InitialPosition float64 `yaml:"initialPosition" validate:"gte=0,lte=1"`
	// ResponseTime in seconds controls the first-order lag between the
	// commanded and actual position. Zero snaps instantly.
	ResponseTime float64  `yaml:"responseTime" validate:"gte=0"`
	Inputs       []string `yaml:"inputs"`
	Outputs      []string `yaml:"outputs"`
}

// Valve throttles flow in proportion to its smoothed position. Commands set
// only the target; the actual position approaches it with a first-order lag.
type Valve struct {
	baseComponent
	cfg            ValveConfig
	maxFlow        float64
	responseTime   float64
	position       float64
	targetPosition float64
}

// NewValve builds a Valve starting at its configured initial position.
func NewValve(cfg ValveConfig) *Valve {
	v := &Valve{
		baseComponent: newBase(cfg.ID, KindValve, cfg.Name, cfg.Inputs, cfg.Outputs),
		cfg:           cfg,
		maxFlow:       cfg.MaxFlow,
		responseTime:  cfg.ResponseTime,
	}
	v.position = clamp01(cfg.InitialPosition)
	v.targetPosition = v.position
	return v
}

// OutputFlow is exactly maxFlow·position; the valve imposes no other
// constraint.
func (v *Valve) OutputFlow() float64 {
	return v.maxFlow * v.position
}

func (v *Valve) MaxFlow() float64        { return v.maxFlow }
func (v *Valve) Position() float64       { return v.position }
func (v *Valve) TargetPosition() float64 { return v.targetPosition }

// SetPosition commands a new target position in [0, 1].
func (v *Valve) SetPosition(x float64) {
	v.targetPosition = clamp01(x)
}

// Open commands the valve fully open.
func (v *Valve) Open() { v.SetPosition(1) }

// Close commands the valve fully closed.
func (v *Valve) Close() { v.SetPosition(0) }

// Update moves the actual position toward the target by
// (target−position)/responseTime·dt, never overshooting.
func (v *Valve) Update(dt float64) {
	if v.responseTime <= 0 {
		v.position = v.targetPosition
		return
	}
	delta := v.targetPosition - v.position
	step := delta / v.responseTime * dt
	if step > 0 && step > delta || step < 0 && step < delta {
		step = delta
	}
	v.position = clamp01(v.position + step)
}

// IsClosed reports position below the closed threshold.
func (v *Valve) IsClosed() bool { return v.position < 0.05 }

// IsOpen reports position above the open threshold.
func (v *Valve) IsOpen() bool { return v.position > 0.95 }

// classification is display-only; it plays no part in the physics.
func (v *Valve) classification() string {
	switch {
	case v.IsClosed():
		return "closed"
	case v.IsOpen():
		return "open"
	default:
		return "partial"
	}
}

func (v *Valve) Reset() {
	v.position = clamp01(v.cfg.InitialPosition)
	v.targetPosition = v.position
	v.enabled = true
}

func (v *Valve) Info() map[string]any {
	info := v.baseInfo()
	info["maxFlow"] = v.maxFlow
	info["position"] = v.position
	info["targetPosition"] = v.targetPosition
	info["state"] = v.classification()
	return info
}
