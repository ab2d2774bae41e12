package sim

import "gonum.org/v1/gonum/stat"

// TemperatureMeasurement selects where a temperature sensor reads from.
type TemperatureMeasurement string

const (
	// MeasureAmbient reads the constant ambient temperature.
	MeasureAmbient TemperatureMeasurement = "ambient"
	// MeasureTank reads the wired tank's bulk temperature.
	MeasureTank TemperatureMeasurement = "tank"
	// MeasureInlet reads the temperature entering the wired component.
	MeasureInlet TemperatureMeasurement = "inlet"
	// MeasureOutlet reads the temperature the wired component presents
	// downstream.
	MeasureOutlet TemperatureMeasurement = "outlet"
	// MeasureFluid searches upstream for the nearest temperature source.
	MeasureFluid TemperatureMeasurement = "fluid"
)

// temperatureHistoryCap bounds the reading history kept for averaging.
const temperatureHistoryCap = 100

// TemperatureSensorConfig describes a temperature observer.
type TemperatureSensorConfig struct {
	ID          string                 `yaml:"id"`
	Type        string                 `yaml:"type" validate:"omitempty,eq=TemperatureSensor"`
	Name        string                 `yaml:"name"`
	Measurement TemperatureMeasurement `yaml:"measurement" validate:"omitempty,oneof=ambient tank inlet outlet fluid"`
	MinRange    float64                `yaml:"minRange"`
	MaxRange    float64                `yaml:"maxRange"`
	Accuracy    float64                `yaml:"accuracy" validate:"gte=0"`
	LowAlarm    *float64               `yaml:"lowAlarm"`
	HighAlarm   *float64               `yaml:"highAlarm"`
	Inputs      []string               `yaml:"inputs"`
	Outputs     []string               `yaml:"outputs"`
}

// TemperatureSensor derives a temperature reading (°C) from its wired
// neighbors and keeps a bounded reading history for averaging.
type TemperatureSensor struct {
	sensorBase
	cfg         TemperatureSensorConfig
	measurement TemperatureMeasurement
	low, high   threshold
	history     []float64
}

// NewTemperatureSensor builds a TemperatureSensor; the measurement point
// defaults to fluid.
func NewTemperatureSensor(cfg TemperatureSensorConfig) *TemperatureSensor {
	s := &TemperatureSensor{
		sensorBase:  newSensorBase(cfg.ID, KindTemperatureSensor, cfg.Name, cfg.Inputs, cfg.Outputs, cfg.MinRange, cfg.MaxRange, cfg.Accuracy),
		cfg:         cfg,
		measurement: cfg.Measurement,
		low:         newThreshold(cfg.LowAlarm),
		high:        newThreshold(cfg.HighAlarm),
	}
	if s.measurement == "" {
		s.measurement = MeasureFluid
	}
	return s
}

func (s *TemperatureSensor) Update(dt float64) {
	s.record(s.measure(), dt)
	s.alarm = lowHighAlarm(s.reading, s.low, s.high)
	s.history = append(s.history, s.reading)
	if len(s.history) > temperatureHistoryCap {
		s.history = s.history[len(s.history)-temperatureHistoryCap:]
	}
}

func (s *TemperatureSensor) measure() float64 {
	switch s.measurement {
	case MeasureAmbient:
		return DefaultFluidTemperature
	case MeasureTank:
		if tank, ok := resolveNearest[*Tank](s.net, s, upstream); ok {
			return tank.Temperature()
		}
		return DefaultFluidTemperature
	case MeasureInlet:
		if len(s.inputs) == 0 {
			return DefaultFluidTemperature
		}
		return upstreamTemperature(s.net, s.inputs[0])
	case MeasureOutlet:
		if len(s.inputs) == 0 {
			return DefaultFluidTemperature
		}
		temp, _ := componentTemperature(s.net, s.inputs[0], s.id)
		return temp
	default: // fluid
		return searchUpstreamTemperature(s.net, s.id)
	}
}

// Average is the mean of the bounded reading history.
func (s *TemperatureSensor) Average() float64 {
	if len(s.history) == 0 {
		return 0
	}
	return stat.Mean(s.history, nil)
}

func (s *TemperatureSensor) Reset() {
	s.resetReadings()
	s.history = nil
}

func (s *TemperatureSensor) Info() map[string]any {
	info := s.sensorInfo()
	info["measurement"] = string(s.measurement)
	info["average"] = s.Average()
	return info
}
