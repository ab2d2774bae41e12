package sim

// FeedConfig describes a constant-flow boundary source.
type FeedConfig struct {
	ID             string   `yaml:"id"`
	Type           string   `yaml:"type" validate:"omitempty,eq=Feed"`
	Name           string   `yaml:"name"`
	FlowRate       float64  `yaml:"flowRate" validate:"gte=0"`
	SupplyPressure float64  `yaml:"supplyPressure" validate:"gte=0"`
	Temperature    *float64 `yaml:"temperature"`
	Inputs         []string `yaml:"inputs"`
	Outputs        []string `yaml:"outputs"`
}

// Feed supplies a constant flow at a fixed pressure, anchoring the upstream
// edge of the network.
type Feed struct {
	baseComponent
	cfg            FeedConfig
	flowRate       float64
	supplyPressure float64
	temperature    float64
}

// NewFeed builds a Feed. A zero supply pressure defaults to atmospheric and a
// missing temperature to the default fluid temperature.
func NewFeed(cfg FeedConfig) *Feed {
	f := &Feed{
		baseComponent:  newBase(cfg.ID, KindFeed, cfg.Name, cfg.Inputs, cfg.Outputs),
		cfg:            cfg,
		flowRate:       cfg.FlowRate,
		supplyPressure: cfg.SupplyPressure,
		temperature:    DefaultFluidTemperature,
	}
	if f.supplyPressure == 0 {
		f.supplyPressure = AtmosphericPressure
	}
	if cfg.Temperature != nil {
		f.temperature = *cfg.Temperature
	}
	return f
}

func (f *Feed) OutputFlow() float64     { return f.flowRate }
func (f *Feed) FlowRate() float64       { return f.flowRate }
func (f *Feed) SupplyPressure() float64 { return f.supplyPressure }
func (f *Feed) Temperature() float64    { return f.temperature }

// SetFlowRate adjusts the supplied flow. Negative values clamp to zero.
func (f *Feed) SetFlowRate(q float64) {
	if q < 0 {
		q = 0
	}
	f.flowRate = q
}

func (f *Feed) Update(dt float64) {}

func (f *Feed) Reset() {
	f.flowRate = f.cfg.FlowRate
	f.enabled = true
}

func (f *Feed) Info() map[string]any {
	info := f.baseInfo()
	info["flowRate"] = f.flowRate
	info["supplyPressure"] = f.supplyPressure
	info["temperature"] = f.temperature
	return info
}

// DrainConfig describes a boundary sink.
type DrainConfig struct {
	ID              string   `yaml:"id"`
	Type            string   `yaml:"type" validate:"omitempty,eq=Drain"`
	Name            string   `yaml:"name"`
	AmbientPressure float64  `yaml:"ambientPressure" validate:"gte=0"`
	Inputs          []string `yaml:"inputs"`
	Outputs         []string `yaml:"outputs"`
}

// Drain absorbs whatever flow arrives and anchors the downstream edge of the
// network at ambient pressure.
type Drain struct {
	baseComponent
	cfg             DrainConfig
	ambientPressure float64
	inflow          float64
}

// NewDrain builds a Drain. A zero ambient pressure defaults to atmospheric.
func NewDrain(cfg DrainConfig) *Drain {
	d := &Drain{
		baseComponent:   newBase(cfg.ID, KindDrain, cfg.Name, cfg.Inputs, cfg.Outputs),
		cfg:             cfg,
		ambientPressure: cfg.AmbientPressure,
	}
	if d.ambientPressure == 0 {
		d.ambientPressure = AtmosphericPressure
	}
	return d
}

// OutputFlow reports the drain's aggregate input flow: the sink absorbs it
// all, and passing it through makes throughput observable at the boundary.
func (d *Drain) OutputFlow() float64 {
	if d.net == nil {
		return 0
	}
	return d.net.InputFlow(d.id)
}

func (d *Drain) AmbientPressure() float64 { return d.ambientPressure }

// Inflow is the flow absorbed on the last tick.
func (d *Drain) Inflow() float64 { return d.inflow }

func (d *Drain) Update(dt float64) {
	d.inflow = d.net.InputFlow(d.id)
}

func (d *Drain) Reset() {
	d.inflow = 0
	d.enabled = true
}

func (d *Drain) Info() map[string]any {
	info := d.baseInfo()
	info["ambientPressure"] = d.ambientPressure
	info["inflow"] = d.inflow
	return info
}
