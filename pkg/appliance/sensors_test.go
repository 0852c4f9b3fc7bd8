package appliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackpulse/rackpulse/pkg/metrics"
)

func reading(name string, kind metrics.SensorKind, value float64, unit, status string) metrics.SensorReading {
	return metrics.SensorReading{
		Name:      name,
		Kind:      kind,
		Value:     value,
		Available: true,
		Unit:      unit,
		Status:    status,
	}
}

func TestParseSensorRowsNotAvailable(t *testing.T) {
	rows := []sensorRow{
		{Name: "CPU Temp", Type: "Temperature", Value: "48", Unit: "degrees C", Status: "ok"},
		{Name: "Fan2", Type: "Fan", Value: "na", Unit: "RPM"},
		{Name: "PSU1 Status", Type: "Power Supply", Value: "no reading", Status: "Presence detected"},
	}

	readings := parseSensorRows(rows)
	require.Len(t, readings, 3)

	assert.True(t, readings[0].Available)
	assert.Equal(t, 48.0, readings[0].Value)

	// Not-available markers yield absent readings with zero values, never
	// numeric errors.
	assert.False(t, readings[1].Available)
	assert.Equal(t, 0.0, readings[1].Value)
	assert.False(t, readings[2].Available)
}

func TestVoltageRailExcludesFalsePositives(t *testing.T) {
	tests := []struct {
		name string
		rail string
		ok   bool
	}{
		{"MB 12V", "12v", true},
		{"3.3V rail", "3.3v", true},
		{"5V standby", "5v", true},
		{"12V_DUAL", "", false},
		{"VBAT 3.3v", "", false},
		{"CMOS Battery", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rail, ok := voltageRail(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.rail, rail)
		})
	}
}

func TestPSUStatusNotAvailableIsCritical(t *testing.T) {
	r := metrics.SensorReading{
		Name:   "PSU1 Status",
		Kind:   metrics.SensorStatus,
		Status: "not available",
	}
	assert.Equal(t, metrics.HealthCritical, psuHealth(r))

	// Fully silent reading: no value, no status text.
	r = metrics.SensorReading{Name: "PSU2 Status", Kind: metrics.SensorStatus}
	assert.Equal(t, metrics.HealthCritical, psuHealth(r))
}

func TestPSUStatusTokens(t *testing.T) {
	tests := []struct {
		status string
		want   metrics.Health
	}{
		{"ok", metrics.HealthHealthy},
		{"Presence detected", metrics.HealthHealthy},
		{"AC lost", metrics.HealthCritical},
		{"Failure detected", metrics.HealthCritical},
		{"error asserted", metrics.HealthCritical},
		{"Presence lost", metrics.HealthCritical},
		{"something odd", metrics.HealthWarning},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			r := reading("PSU1 Status", metrics.SensorStatus, 0, "", tt.status)
			assert.Equal(t, tt.want, psuHealth(r))
		})
	}
}

func TestDeriveSensorMetricsPower(t *testing.T) {
	readings := []metrics.SensorReading{
		reading("Pwr Consumption", metrics.SensorPower, 312, "Watts", "ok"),
		reading("MB 12V", metrics.SensorVoltage, 12.1, "Volts", "ok"),
		reading("MB 5V", metrics.SensorVoltage, 5.03, "Volts", "ok"),
		reading("12V_DUAL", metrics.SensorVoltage, 11.9, "Volts", "ok"),
		reading("PSU1 Status", metrics.SensorStatus, 0, "", "Presence detected"),
		reading("PSU2 Status", metrics.SensorStatus, 0, "", "AC lost"),
	}

	d := deriveSensorMetrics(readings, nil)
	assert.Equal(t, 312.0, d.power.ConsumptionWatts)
	assert.Equal(t, 12.1, d.power.Rails["12v"])
	assert.Equal(t, 5.03, d.power.Rails["5v"])
	assert.NotContains(t, d.power.Rails, "3.3v")

	require.Len(t, d.power.Supplies, 2)
	assert.Equal(t, metrics.HealthHealthy, d.power.Supplies[0].Health)
	assert.Equal(t, metrics.HealthCritical, d.power.Supplies[1].Health)
}

func TestDeriveSensorMetricsPSUDrawFallback(t *testing.T) {
	// No status-typed PSU sensors: classify by power draw.
	readings := []metrics.SensorReading{
		reading("PSU1 Pwr Consumption", metrics.SensorPower, 210, "Watts", ""),
		{Name: "PSU2 Pwr Consumption", Kind: metrics.SensorPower, Unit: "Watts"},
	}

	d := deriveSensorMetrics(readings, nil)
	require.Len(t, d.power.Supplies, 2)
	assert.Equal(t, metrics.HealthHealthy, d.power.Supplies[0].Health)
	assert.Equal(t, metrics.HealthCritical, d.power.Supplies[1].Health)
}

func TestDeriveSensorMetricsChassisFallback(t *testing.T) {
	// No PSU sensors at all: a single supply derived from the chassis
	// power-fault flag.
	d := deriveSensorMetrics(nil, &metrics.Chassis{PowerFault: true})
	require.Len(t, d.power.Supplies, 1)
	assert.Equal(t, metrics.HealthCritical, d.power.Supplies[0].Health)

	d = deriveSensorMetrics(nil, &metrics.Chassis{})
	require.Len(t, d.power.Supplies, 1)
	assert.Equal(t, metrics.HealthHealthy, d.power.Supplies[0].Health)
}

func TestDeriveSensorMetricsFans(t *testing.T) {
	readings := []metrics.SensorReading{
		reading("CPU_FAN1", metrics.SensorFan, 1800, "RPM", "ok"),
		reading("FAN2", metrics.SensorStatus, 900, "RPM", "ok"), // unit implies fan
		{Name: "FAN3", Kind: metrics.SensorFan, Unit: "RPM"},    // unavailable: skipped
	}

	d := deriveSensorMetrics(readings, nil)
	require.Len(t, d.environment.Fans, 2)
	assert.Equal(t, metrics.FanCPU, d.environment.Fans[0].Location)
	assert.Equal(t, metrics.FanCase, d.environment.Fans[1].Location)
}

func TestDeriveSensorMetricsTemperatures(t *testing.T) {
	readings := []metrics.SensorReading{
		reading("CPU1 Temp", metrics.SensorTemperature, 48, "degrees C", "ok"),
		reading("CPU2 Temp", metrics.SensorTemperature, 52, "degrees C", "ok"),
		reading("Inlet Temp", metrics.SensorTemperature, 24, "degrees C", "ok"),
		reading("Exhaust Temp", metrics.SensorTemperature, 37, "degrees C", "ok"),
	}

	d := deriveSensorMetrics(readings, nil)
	assert.Equal(t, 52.0, d.cpuTempC, "hottest package wins")
	assert.Equal(t, 24.0, d.environment.IntakeTempC)
	assert.Equal(t, 37.0, d.environment.ExhaustTempC)
	assert.Equal(t, float64(ambientDefaultC), d.environment.AmbientTempC, "ambient defaults to room temperature")
}

func TestDeriveSensorMetricsSecurity(t *testing.T) {
	readings := []metrics.SensorReading{
		reading("Chassis Intrusion", metrics.SensorStatus, 0, "", "asserted"),
	}
	chassis := &metrics.Chassis{DriveFault: true}

	d := deriveSensorMetrics(readings, chassis)
	assert.True(t, d.security.ChassisIntrusion)
	assert.True(t, d.security.DriveFault)
	assert.False(t, d.security.PowerFault)
	assert.Equal(t, metrics.SourceAppliance, d.security.Origin)
}

func TestPowerMarkers(t *testing.T) {
	assert.True(t, isPowerConsumption("Pwr Consumption"))
	assert.True(t, isPowerConsumption("System Power"))
	assert.True(t, isPowerConsumption("Total Power Out"))
	assert.False(t, isPowerConsumption("MB 12V"))
}
