package sim

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// validate is the singleton struct-tag validator for network configs.
var validate = validator.New()

// NetworkConfig is the declarative network description consumed at build
// time and produced by the (external) designer/exporter: a mapping from
// category name to component-key to config object. Component keys are only
// labels in the designer; identity comes from each entry's id.
type NetworkConfig struct {
	Feeds              map[string]FeedConfig              `yaml:"feeds"`
	Drains             map[string]DrainConfig             `yaml:"drains"`
	Tanks              map[string]TankConfig              `yaml:"tanks"`
	Pumps              map[string]PumpConfig              `yaml:"pumps"`
	Valves             map[string]ValveConfig             `yaml:"valves"`
	HeatExchangers     map[string]HeatExchangerConfig     `yaml:"heatExchangers"`
	PressureSensors    map[string]PressureSensorConfig    `yaml:"pressureSensors"`
	FlowSensors        map[string]FlowSensorConfig        `yaml:"flowSensors"`
	TemperatureSensors map[string]TemperatureSensorConfig `yaml:"temperatureSensors"`
	LevelSensors       map[string]LevelSensorConfig       `yaml:"levelSensors"`
}

// ParseNetworkConfig decodes a YAML network description.
func ParseNetworkConfig(data []byte) (*NetworkConfig, error) {
	var cfg NetworkConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse network config: %w", err)
	}
	return &cfg, nil
}

// BuildNetwork constructs a FlowNetwork from a config and runs integrity
// verification. Config-level problems (invalid parameters, duplicate ids)
// are errors; topology problems are returned in the report and do not stop
// the build. Entries without an id get a generated one.
func BuildNetwork(cfg *NetworkConfig) (*FlowNetwork, *IntegrityReport, error) {
	n := NewFlowNetwork()

	add := func(category, key string, spec any, build func() Component) error {
		if err := validate.Struct(spec); err != nil {
			return fmt.Errorf("%s[%s]: %w", category, key, err)
		}
		c := build()
		if err := n.AddComponent(c); err != nil {
			return fmt.Errorf("%s[%s]: %w", category, key, err)
		}
		return nil
	}

	// Category order and key order within a category are fixed so ids,
	// evaluation and diagnostics come out deterministic.
	for _, key := range sortedKeys(cfg.Feeds) {
		spec := cfg.Feeds[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("feeds", key, spec, func() Component { return NewFeed(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.Drains) {
		spec := cfg.Drains[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("drains", key, spec, func() Component { return NewDrain(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.Tanks) {
		spec := cfg.Tanks[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("tanks", key, spec, func() Component { return NewTank(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.Pumps) {
		spec := cfg.Pumps[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("pumps", key, spec, func() Component { return NewPump(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.Valves) {
		spec := cfg.Valves[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("valves", key, spec, func() Component { return NewValve(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.HeatExchangers) {
		spec := cfg.HeatExchangers[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("heatExchangers", key, spec, func() Component { return NewHeatExchanger(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.PressureSensors) {
		spec := cfg.PressureSensors[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("pressureSensors", key, spec, func() Component { return NewPressureSensor(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.FlowSensors) {
		spec := cfg.FlowSensors[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("flowSensors", key, spec, func() Component { return NewFlowSensor(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.TemperatureSensors) {
		spec := cfg.TemperatureSensors[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("temperatureSensors", key, spec, func() Component { return NewTemperatureSensor(spec) }); err != nil {
			return nil, nil, err
		}
	}
	for _, key := range sortedKeys(cfg.LevelSensors) {
		spec := cfg.LevelSensors[key]
		spec.ID = orGeneratedID(spec.ID)
		if err := add("levelSensors", key, spec, func() Component { return NewLevelSensor(spec) }); err != nil {
			return nil, nil, err
		}
	}

	return n, n.VerifyIntegrity(), nil
}

func orGeneratedID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
