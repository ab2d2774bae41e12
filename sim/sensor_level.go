package sim

// LevelSensorConfig describes a tank level observer with a four-step alarm
// ladder. Thresholds are level fractions.
type LevelSensorConfig struct {
	ID            string   `yaml:"id"`
	Type          string   `yaml:"type" validate:"omitempty,eq=LevelSensor"`
	Name          string   `yaml:"name"`
	Accuracy      float64  `yaml:"accuracy" validate:"gte=0"`
	LowLowAlarm   *float64 `yaml:"lowLowAlarm"`
	LowAlarm      *float64 `yaml:"lowAlarm"`
	HighAlarm     *float64 `yaml:"highAlarm"`
	HighHighAlarm *float64 `yaml:"highHighAlarm"`
	Inputs        []string `yaml:"inputs"`
	Outputs       []string `yaml:"outputs"`
}

// LevelSensor reads the level fraction of its wired tank and exposes percent,
// height and volume views of the same reading.
type LevelSensor struct {
	sensorBase
	cfg LevelSensorConfig

	lowLow, low, high, highHigh threshold

	// last resolved tank geometry, for the height/volume views
	tankMaxHeight float64
	tankMaxVolume float64
}

// NewLevelSensor builds a LevelSensor. The reading range is the level
// fraction [0, 1].
func NewLevelSensor(cfg LevelSensorConfig) *LevelSensor {
	return &LevelSensor{
		sensorBase: newSensorBase(cfg.ID, KindLevelSensor, cfg.Name, cfg.Inputs, cfg.Outputs, 0, 1, cfg.Accuracy),
		cfg:        cfg,
		lowLow:     newThreshold(cfg.LowLowAlarm),
		low:        newThreshold(cfg.LowAlarm),
		high:       newThreshold(cfg.HighAlarm),
		highHigh:   newThreshold(cfg.HighHighAlarm),
	}
}

func (s *LevelSensor) Update(dt float64) {
	level := 0.0
	if tank, ok := resolveNearest[*Tank](s.net, s, upstream); ok {
		level = tank.Level()
		s.tankMaxHeight = tank.MaxHeight()
		s.tankMaxVolume = tank.MaxVolume()
	}
	s.record(level, dt)
	s.alarm = s.ladderAlarm(s.reading)
}

// ladderAlarm evaluates the four-step ladder most-severe-first:
// low-low and high-high outrank low and high.
func (s *LevelSensor) ladderAlarm(level float64) AlarmState {
	switch {
	case s.lowLow.set && level <= s.lowLow.value:
		return AlarmLowLow
	case s.highHigh.set && level >= s.highHigh.value:
		return AlarmHighHigh
	case s.low.set && level <= s.low.value:
		return AlarmLow
	case s.high.set && level >= s.high.value:
		return AlarmHigh
	default:
		return AlarmNone
	}
}

// Percent is the level as 0–100.
func (s *LevelSensor) Percent() float64 { return s.reading * 100 }

// Height is the liquid column height in meters.
func (s *LevelSensor) Height() float64 { return s.reading * s.tankMaxHeight }

// Volume is the held volume in m³.
func (s *LevelSensor) Volume() float64 { return s.reading * s.tankMaxVolume }

func (s *LevelSensor) Reset() {
	s.resetReadings()
	s.tankMaxHeight = 0
	s.tankMaxVolume = 0
}

func (s *LevelSensor) Info() map[string]any {
	info := s.sensorInfo()
	info["percent"] = s.Percent()
	info["height"] = s.Height()
	info["volume"] = s.Volume()
	return info
}
