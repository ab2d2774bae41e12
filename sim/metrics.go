package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds the prometheus instruments scraped from the network
// once per tick. All gauges reflect the state at the end of the last
// observed tick.
type MetricsRegistry struct {
	TankLevel         *prometheus.GaugeVec
	TankVolume        *prometheus.GaugeVec
	TankTemperature   *prometheus.GaugeVec
	ComponentPressure *prometheus.GaugeVec
	EdgeFlow          *prometheus.GaugeVec
	PumpSpeed         *prometheus.GaugeVec
	PumpRunning       *prometheus.GaugeVec
	ValvePosition     *prometheus.GaugeVec
	ExchangerDuty     *prometheus.GaugeVec
	SensorReading     *prometheus.GaugeVec

	TicksTotal  prometheus.Counter
	TickSeconds prometheus.Histogram
}

// NewMetricsRegistry registers all instruments with the given registerer.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)
	return &MetricsRegistry{
		TankLevel: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_tank_level_fraction",
			Help: "Tank fill level as a fraction of capacity",
		}, []string{"component"}),
		TankVolume: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_tank_volume_m3",
			Help: "Tank volume in cubic meters",
		}, []string{"component"}),
		TankTemperature: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_tank_temperature_celsius",
			Help: "Tank contents temperature",
		}, []string{"component"}),
		ComponentPressure: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_pressure_bar",
			Help: "Component pressure from the last pressure pass",
		}, []string{"component"}),
		EdgeFlow: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_edge_flow_m3s",
			Help: "Flow along a directed edge in cubic meters per second",
		}, []string{"from", "to"}),
		PumpSpeed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_pump_speed_fraction",
			Help: "Pump speed setting",
		}, []string{"component"}),
		PumpRunning: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_pump_running",
			Help: "1 while the pump runs, 0 otherwise",
		}, []string{"component"}),
		ValvePosition: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_valve_position_fraction",
			Help: "Actual valve position",
		}, []string{"component"}),
		ExchangerDuty: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_heat_transfer_watts",
			Help: "Instantaneous heat-exchanger duty",
		}, []string{"component"}),
		SensorReading: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procsim_sensor_reading",
			Help: "Current sensor reading in the sensor's native unit",
		}, []string{"component", "kind"}),
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "procsim_ticks_total",
			Help: "Computed simulation ticks",
		}),
		TickSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "procsim_tick_dt_seconds",
			Help:    "Simulated dt per tick",
			Buckets: prometheus.LinearBuckets(0.01, 0.01, 10),
		}),
	}
}

// Observe scrapes the network's state after a tick of the given dt.
func (m *MetricsRegistry) Observe(n *FlowNetwork, dt float64) {
	m.TicksTotal.Inc()
	m.TickSeconds.Observe(dt)

	for _, c := range n.Components() {
		m.ComponentPressure.WithLabelValues(c.ID()).Set(n.Pressure(c.ID()))
		switch comp := c.(type) {
		case *Tank:
			m.TankLevel.WithLabelValues(comp.ID()).Set(comp.Level())
			m.TankVolume.WithLabelValues(comp.ID()).Set(comp.Volume())
			m.TankTemperature.WithLabelValues(comp.ID()).Set(comp.Temperature())
		case *Pump:
			m.PumpSpeed.WithLabelValues(comp.ID()).Set(comp.Speed())
			running := 0.0
			if comp.Running() {
				running = 1
			}
			m.PumpRunning.WithLabelValues(comp.ID()).Set(running)
		case *Valve:
			m.ValvePosition.WithLabelValues(comp.ID()).Set(comp.Position())
		case *HeatExchanger:
			m.ExchangerDuty.WithLabelValues(comp.ID()).Set(comp.HeatTransferRate())
		case *PressureSensor:
			m.SensorReading.WithLabelValues(comp.ID(), "pressure").Set(comp.Reading())
		case *FlowSensor:
			m.SensorReading.WithLabelValues(comp.ID(), "flow").Set(comp.Reading())
		case *TemperatureSensor:
			m.SensorReading.WithLabelValues(comp.ID(), "temperature").Set(comp.Reading())
		case *LevelSensor:
			m.SensorReading.WithLabelValues(comp.ID(), "level").Set(comp.Reading())
		}
	}
	n.EachFlow(func(from, to string, q float64) {
		m.EdgeFlow.WithLabelValues(from, to).Set(q)
	})
}
