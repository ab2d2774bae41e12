package sim

import "math"

// FlowArrangement selects the effectiveness relation of a heat exchanger.
type FlowArrangement string

const (
	Counterflow  FlowArrangement = "counterflow"
	ParallelFlow FlowArrangement = "parallel"
	Crossflow    FlowArrangement = "crossflow"
)

// HeatExchangerConfig describes an effectiveness-NTU heat exchanger. The hot
// stream defaults to the first input/output pair and the cold stream to the
// second; HotInput/ColdInput override the wiring explicitly.
type HeatExchangerConfig struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type" validate:"omitempty,eq=HeatExchanger"`
	Name string `yaml:"name"`
	// HeatTransferCoeff is U in W/(m²·K).
	HeatTransferCoeff float64 `yaml:"heatTransferCoeff" validate:"gte=0"`
	// Area is the transfer area A in m².
	Area float64 `yaml:"area" validate:"gte=0"`
	// Effectiveness, when positive, overrides the NTU calculation.
	Effectiveness float64         `yaml:"effectiveness" validate:"gte=0,lte=1"`
	Arrangement   FlowArrangement `yaml:"arrangement" validate:"omitempty,oneof=counterflow parallel crossflow"`
	// FoulingFactor in m²·K/W reduces the effective U.
	FoulingFactor float64 `yaml:"foulingFactor" validate:"gte=0"`

	HotDensity       float64 `yaml:"hotDensity" validate:"gte=0"`
	HotSpecificHeat  float64 `yaml:"hotSpecificHeat" validate:"gte=0"`
	ColdDensity      float64 `yaml:"coldDensity" validate:"gte=0"`
	ColdSpecificHeat float64 `yaml:"coldSpecificHeat" validate:"gte=0"`

	HotInput   string   `yaml:"hotInput"`
	ColdInput  string   `yaml:"coldInput"`
	HotOutput  string   `yaml:"hotOutput"`
	ColdOutput string   `yaml:"coldOutput"`
	Inputs     []string `yaml:"inputs"`
	Outputs    []string `yaml:"outputs"`
}

// HeatExchanger is passive to flow and active to temperature: it passes the
// hot-side inflow through and transfers energy between its two streams via
// the effectiveness-NTU method.
type HeatExchanger struct {
	baseComponent
	cfg HeatExchangerConfig

	u             float64
	area          float64
	effectiveness float64
	arrangement   FlowArrangement
	fouling       float64

	hotDensity, hotCp   float64
	coldDensity, coldCp float64

	hotIn, coldIn   string
	hotOut, coldOut string

	hotInletTemp   float64
	hotOutletTemp  float64
	coldInletTemp  float64
	coldOutletTemp float64
	// heatTransferRate in watts, recomputed each tick.
	heatTransferRate float64
}

// NewHeatExchanger builds a HeatExchanger; stream properties default to
// water and the arrangement to counterflow.
func NewHeatExchanger(cfg HeatExchangerConfig) *HeatExchanger {
	x := &HeatExchanger{
		baseComponent: newBase(cfg.ID, KindHeatExchanger, cfg.Name, cfg.Inputs, cfg.Outputs),
		cfg:           cfg,
		u:             cfg.HeatTransferCoeff,
		area:          cfg.Area,
		effectiveness: cfg.Effectiveness,
		arrangement:   cfg.Arrangement,
		fouling:       cfg.FoulingFactor,
		hotDensity:    cfg.HotDensity,
		hotCp:         cfg.HotSpecificHeat,
		coldDensity:   cfg.ColdDensity,
		coldCp:        cfg.ColdSpecificHeat,
		hotIn:         cfg.HotInput,
		coldIn:        cfg.ColdInput,
		hotOut:        cfg.HotOutput,
		coldOut:       cfg.ColdOutput,
	}
	if x.arrangement == "" {
		x.arrangement = Counterflow
	}
	if x.hotDensity == 0 {
		x.hotDensity = WaterDensity
	}
	if x.hotCp == 0 {
		x.hotCp = WaterSpecificHeat
	}
	if x.coldDensity == 0 {
		x.coldDensity = WaterDensity
	}
	if x.coldCp == 0 {
		x.coldCp = WaterSpecificHeat
	}
	if x.hotIn == "" && len(x.inputs) > 0 {
		x.hotIn = x.inputs[0]
	}
	if x.coldIn == "" && len(x.inputs) > 1 {
		x.coldIn = x.inputs[1]
	}
	if x.hotOut == "" && len(x.outputs) > 0 {
		x.hotOut = x.outputs[0]
	}
	if x.coldOut == "" && len(x.outputs) > 1 {
		x.coldOut = x.outputs[1]
	}
	x.resetTemperatures()
	return x
}

func (x *HeatExchanger) resetTemperatures() {
	x.hotInletTemp = DefaultFluidTemperature
	x.hotOutletTemp = DefaultFluidTemperature
	x.coldInletTemp = DefaultFluidTemperature
	x.coldOutletTemp = DefaultFluidTemperature
	x.heatTransferRate = 0
}

// OutputFlow passes the hot-side inflow through unchanged; the exchanger is
// flow-transparent.
func (x *HeatExchanger) OutputFlow() float64 {
	if x.net == nil {
		return 0
	}
	return x.net.Flow(x.hotIn, x.id)
}

// HeatTransferRate is the instantaneous duty in watts.
func (x *HeatExchanger) HeatTransferRate() float64 { return x.heatTransferRate }

func (x *HeatExchanger) HotInletTemp() float64   { return x.hotInletTemp }
func (x *HeatExchanger) HotOutletTemp() float64  { return x.hotOutletTemp }
func (x *HeatExchanger) ColdInletTemp() float64  { return x.coldInletTemp }
func (x *HeatExchanger) ColdOutletTemp() float64 { return x.coldOutletTemp }

// TemperatureFor answers with the outlet temperature of the side the
// downstream component is wired to. Downstream tanks absorb this through
// their own energy balance; everything else reads it directly.
func (x *HeatExchanger) TemperatureFor(downstreamID string) float64 {
	if downstreamID == x.coldOut {
		return x.coldOutletTemp
	}
	return x.hotOutletTemp
}

// Temperature defaults to the hot outlet for generic upstream searches.
func (x *HeatExchanger) Temperature() float64 { return x.hotOutletTemp }

// Update reads both streams and transfers ε·Qmax between them. With either
// stream stagnant or the hot inlet no warmer than the cold inlet, the duty is
// zero and both outlets equal their inlets: heat never flows backwards.
func (x *HeatExchanger) Update(dt float64) {
	qHot := x.net.Flow(x.hotIn, x.id)
	qCold := x.net.Flow(x.coldIn, x.id)
	x.hotInletTemp, _ = componentTemperature(x.net, x.hotIn, x.id)
	x.coldInletTemp, _ = componentTemperature(x.net, x.coldIn, x.id)

	if qHot < 1e-4 || qCold < 1e-4 || x.hotInletTemp <= x.coldInletTemp {
		x.heatTransferRate = 0
		x.hotOutletTemp = x.hotInletTemp
		x.coldOutletTemp = x.coldInletTemp
		return
	}

	cHot := qHot * x.hotDensity * x.hotCp
	cCold := qCold * x.coldDensity * x.coldCp
	cMin := math.Min(cHot, cCold)
	cMax := math.Max(cHot, cCold)
	cr := cMin / cMax

	eff := x.effectiveness
	if eff <= 0 {
		u := x.u
		if x.fouling > 0 && u > 0 {
			u = 1 / (1/u + x.fouling)
		}
		ntu := u * x.area / cMin
		eff = effectivenessNTU(ntu, cr, x.arrangement)
	}

	qMax := cMin * (x.hotInletTemp - x.coldInletTemp)
	q := eff * qMax
	x.heatTransferRate = q

	x.hotOutletTemp = math.Max(x.hotInletTemp-q/cHot, x.coldInletTemp)
	x.coldOutletTemp = math.Min(x.coldInletTemp+q/cCold, x.hotInletTemp)
}

// effectivenessNTU evaluates the ε(NTU, Cr) relation for the arrangement.
func effectivenessNTU(ntu, cr float64, arrangement FlowArrangement) float64 {
	switch arrangement {
	case ParallelFlow:
		return (1 - math.Exp(-ntu*(1+cr))) / (1 + cr)
	case Crossflow:
		// Both streams unmixed (approximate relation).
		return 1 - math.Exp(math.Pow(ntu, 0.22)/cr*(math.Exp(-cr*math.Pow(ntu, 0.78))-1))
	default: // counterflow
		if math.Abs(1-cr) < 1e-6 {
			return ntu / (1 + ntu)
		}
		e := math.Exp(-ntu * (1 - cr))
		return (1 - e) / (1 - cr*e)
	}
}

// LMTD is the log mean temperature difference of the last tick, a diagnostic
// alternative to the effectiveness figure. Zero when either terminal
// difference is non-positive.
func (x *HeatExchanger) LMTD() float64 {
	dt1 := x.hotInletTemp - x.coldOutletTemp
	dt2 := x.hotOutletTemp - x.coldInletTemp
	if dt1 <= 0 || dt2 <= 0 {
		return 0
	}
	if math.Abs(dt1-dt2) < 1e-9 {
		return dt1
	}
	return (dt1 - dt2) / math.Log(dt1/dt2)
}

func (x *HeatExchanger) Reset() {
	x.resetTemperatures()
	x.enabled = true
}

func (x *HeatExchanger) Info() map[string]any {
	info := x.baseInfo()
	info["arrangement"] = string(x.arrangement)
	info["heatTransferRate"] = x.heatTransferRate
	info["hotInletTemp"] = x.hotInletTemp
	info["hotOutletTemp"] = x.hotOutletTemp
	info["coldInletTemp"] = x.coldInletTemp
	info["coldOutletTemp"] = x.coldOutletTemp
	info["lmtd"] = x.LMTD()
	return info
}
