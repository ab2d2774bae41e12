package sim

// AlarmState is the most severe threshold a sensor reading currently
// violates.
type AlarmState string

const (
	AlarmNone     AlarmState = "none"
	AlarmLow      AlarmState = "low"
	AlarmHigh     AlarmState = "high"
	AlarmLowLow   AlarmState = "low-low"
	AlarmHighHigh AlarmState = "high-high"
)

// threshold is an optional alarm limit.
type threshold struct {
	value float64
	set   bool
}

func newThreshold(v *float64) threshold {
	if v == nil {
		return threshold{}
	}
	return threshold{value: *v, set: true}
}

// sensorBase carries the machinery shared by all four sensor kinds: the
// current and previous reading, the per-second trend, the measurement range,
// and the alarm state. Sensors are read-only observers; they never write
// flow, and their OutputFlow merely passes the aggregate input flow through.
type sensorBase struct {
	baseComponent
	minRange, maxRange float64
	accuracy           float64

	reading     float64
	prevReading float64
	trend       float64
	alarm       AlarmState
}

func newSensorBase(id string, kind ComponentKind, name string, inputs, outputs []string, minRange, maxRange, accuracy float64) sensorBase {
	return sensorBase{
		baseComponent: newBase(id, kind, name, inputs, outputs),
		minRange:      minRange,
		maxRange:      maxRange,
		accuracy:      accuracy,
		alarm:         AlarmNone,
	}
}

func (s *sensorBase) OutputFlow() float64 {
	if s.net == nil {
		return 0
	}
	return s.net.InputFlow(s.id)
}

// record stores the previous reading, clamps the new one into the sensor's
// range when one is configured, and recomputes the trend.
func (s *sensorBase) record(value, dt float64) {
	s.prevReading = s.reading
	if s.maxRange > s.minRange {
		value = clamp(value, s.minRange, s.maxRange)
	}
	s.reading = value
	if dt > 0 {
		s.trend = (s.reading - s.prevReading) / dt
	}
}

func (s *sensorBase) resetReadings() {
	s.reading = 0
	s.prevReading = 0
	s.trend = 0
	s.alarm = AlarmNone
	s.enabled = true
}

// Reading is the current measurement.
func (s *sensorBase) Reading() float64 { return s.reading }

// Trend is the reading's rate of change per second.
func (s *sensorBase) Trend() float64 { return s.trend }

// Alarm is the currently violated threshold, if any.
func (s *sensorBase) Alarm() AlarmState { return s.alarm }

// lowHighAlarm evaluates a single low/high threshold pair.
func lowHighAlarm(v float64, low, high threshold) AlarmState {
	switch {
	case low.set && v <= low.value:
		return AlarmLow
	case high.set && v >= high.value:
		return AlarmHigh
	default:
		return AlarmNone
	}
}

func (s *sensorBase) sensorInfo() map[string]any {
	info := s.baseInfo()
	info["reading"] = s.reading
	info["trend"] = s.trend
	info["alarm"] = string(s.alarm)
	return info
}
