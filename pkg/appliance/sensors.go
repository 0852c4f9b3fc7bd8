// Copyright (c) 2025, Rackpulse Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package appliance

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// Sensor-name classification is inherently heuristic: vendors encode
// semantics in free-form names. Everything here is a pure function of its
// inputs so naming drift can be patched without touching connection or
// merge logic.

// ambientDefaultC is assumed room temperature when no ambient sensor exists.
const ambientDefaultC = 22

var (
	powerMarkers   = []string{"pwr consumption", "system power", "total power"}
	railTokens     = []string{"3.3v", "5v", "12v"}
	railExclusions = []string{"dual", "bat"}
	notAvailable   = map[string]bool{"na": true, "n/a": true, "no reading": true, "disabled": true, "": true}
	fanIndexPrefix = regexp.MustCompile(`^fan\d`)
)

// parseSensorRows normalizes raw vendor rows into readings. A not-available
// value marker yields Available=false with a zero value, never an error.
func parseSensorRows(rows []sensorRow) []metrics.SensorReading {
	out := make([]metrics.SensorReading, 0, len(rows))
	for _, row := range rows {
		r := metrics.SensorReading{
			Name:   strings.TrimSpace(row.Name),
			Kind:   sensorKind(row),
			Unit:   strings.TrimSpace(row.Unit),
			Status: strings.TrimSpace(row.Status),
		}
		v := strings.ToLower(strings.TrimSpace(row.Value))
		if !notAvailable[v] {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				r.Value = f
				r.Available = true
			}
		}
		out = append(out, r)
	}
	return out
}

// sensorKind maps the declared vendor type onto a semantic kind, falling
// back to unit hints.
func sensorKind(row sensorRow) metrics.SensorKind {
	switch strings.ToLower(strings.TrimSpace(row.Type)) {
	case "temperature", "temp":
		return metrics.SensorTemperature
	case "fan":
		return metrics.SensorFan
	case "voltage":
		return metrics.SensorVoltage
	case "power", "current":
		return metrics.SensorPower
	case "power supply", "status", "physical security", "chassis intrusion":
		return metrics.SensorStatus
	}
	switch strings.ToLower(strings.TrimSpace(row.Unit)) {
	case "rpm":
		return metrics.SensorFan
	case "degrees c", "celsius", "c":
		return metrics.SensorTemperature
	case "volts", "v":
		return metrics.SensorVoltage
	case "watts", "w", "amps", "a":
		return metrics.SensorPower
	}
	return metrics.SensorStatus
}

// isPowerConsumption reports whether the reading is a system power-draw
// figure.
func isPowerConsumption(name string) bool {
	n := strings.ToLower(name)
	for _, marker := range powerMarkers {
		if strings.Contains(n, marker) {
			return true
		}
	}
	return false
}

// voltageRail returns the rail token a reading belongs to. Battery and
// dual-rail sensors share rail substrings with the real rails (e.g.
// "12v_dual", "vbat 3.3v") and must never be counted against them.
func voltageRail(name string) (string, bool) {
	n := strings.ToLower(name)
	for _, excl := range railExclusions {
		if strings.Contains(n, excl) {
			return "", false
		}
	}
	for _, tok := range railTokens {
		if strings.Contains(n, tok) {
			return tok, true
		}
	}
	return "", false
}

// isPSUStatus reports whether the reading describes power-supply health.
func isPSUStatus(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "psu") &&
		(strings.Contains(n, "status") || strings.Contains(n, "supply"))
}

// psuHealth grades a PSU status reading by its status text. An unavailable
// reading is critical: a supply that cannot report is assumed gone.
// Critical tokens are checked first so "presence lost" grades critical.
func psuHealth(r metrics.SensorReading) metrics.Health {
	s := strings.ToLower(r.Status)
	if strings.Contains(s, "not available") || (!r.Available && s == "") {
		return metrics.HealthCritical
	}
	switch {
	case strings.Contains(s, "lost"), strings.Contains(s, "failure"), strings.Contains(s, "error"):
		return metrics.HealthCritical
	case strings.Contains(s, "ok"), strings.Contains(s, "presence"):
		return metrics.HealthHealthy
	default:
		return metrics.HealthWarning
	}
}

// isFan reports whether the reading is a fan speed.
func isFan(r metrics.SensorReading) bool {
	if r.Kind == metrics.SensorFan {
		return true
	}
	if strings.EqualFold(r.Unit, "rpm") {
		return true
	}
	return fanIndexPrefix.MatchString(strings.ToLower(r.Name))
}

// fanLocation buckets a fan by name substring.
func fanLocation(name string) metrics.FanLocation {
	if strings.Contains(strings.ToLower(name), "cpu") {
		return metrics.FanCPU
	}
	return metrics.FanCase
}

// isTemperature reports whether the reading is a temperature.
func isTemperature(r metrics.SensorReading) bool {
	if r.Kind == metrics.SensorTemperature {
		return true
	}
	u := strings.ToLower(r.Unit)
	return u == "degrees c" || u == "celsius" || u == "c"
}

// isCPUTemperature picks out the processor package temperature.
func isCPUTemperature(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "cpu") && strings.Contains(n, "temp")
}

// derived is everything the sensor poll contributes to the appliance
// fragment: the out-of-band regions plus the CPU package temperature that
// overlays the push-derived CPU region.
type derived struct {
	power       metrics.Power
	environment metrics.Environment
	security    metrics.Security
	cpuTempC    float64
}

// deriveSensorMetrics classifies one poll cycle's readings into the
// sensor-derived regions. Unavailable readings aggregate as absent.
func deriveSensorMetrics(readings []metrics.SensorReading, chassis *metrics.Chassis) derived {
	d := derived{
		power: metrics.Power{
			Rails:  map[string]float64{},
			Origin: metrics.SourceAppliance,
		},
		environment: metrics.Environment{
			AmbientTempC: ambientDefaultC,
			Origin:       metrics.SourceAppliance,
		},
		security: metrics.Security{Origin: metrics.SourceAppliance},
	}

	var psuDraws []metrics.SensorReading

	for _, r := range readings {
		name := strings.ToLower(r.Name)

		switch {
		case isPSUStatus(r.Name):
			d.power.Supplies = append(d.power.Supplies, metrics.PSU{
				Name:   r.Name,
				Health: psuHealth(r),
			})
			continue

		case isPowerConsumption(r.Name):
			if r.Available && d.power.ConsumptionWatts == 0 {
				d.power.ConsumptionWatts = r.Value
			}
			if strings.Contains(name, "psu") {
				psuDraws = append(psuDraws, r)
			}
			continue

		case isFan(r):
			if !r.Available {
				continue
			}
			d.environment.Fans = append(d.environment.Fans, metrics.Fan{
				Name:     r.Name,
				RPM:      r.Value,
				Location: fanLocation(r.Name),
			})
			continue
		}

		if rail, ok := voltageRail(r.Name); ok && r.Kind == metrics.SensorVoltage && r.Available {
			if _, seen := d.power.Rails[rail]; !seen {
				d.power.Rails[rail] = r.Value
			}
			continue
		}

		if isTemperature(r) {
			if !r.Available {
				continue
			}
			switch {
			case isCPUTemperature(r.Name):
				if r.Value > d.cpuTempC {
					d.cpuTempC = r.Value
				}
			case strings.Contains(name, "inlet"), strings.Contains(name, "intake"):
				d.environment.IntakeTempC = r.Value
			case strings.Contains(name, "exhaust"), strings.Contains(name, "outlet"):
				d.environment.ExhaustTempC = r.Value
			case strings.Contains(name, "ambient"):
				d.environment.AmbientTempC = r.Value
			}
			continue
		}

		if strings.Contains(name, "intrusion") && r.Status != "" && !statusOK(r.Status) {
			d.security.ChassisIntrusion = true
		}
	}

	// PSU fallback chain: status sensors, then power-draw readings, then
	// the chassis-level power-fault flag.
	if len(d.power.Supplies) == 0 && len(psuDraws) > 0 {
		for _, r := range psuDraws {
			health := metrics.HealthCritical
			if r.Available && r.Value > 0 {
				health = metrics.HealthHealthy
			}
			d.power.Supplies = append(d.power.Supplies, metrics.PSU{
				Name:      r.Name,
				Health:    health,
				DrawWatts: r.Value,
			})
		}
	}
	if len(d.power.Supplies) == 0 && chassis != nil {
		health := metrics.HealthHealthy
		if chassis.PowerFault {
			health = metrics.HealthCritical
		}
		d.power.Supplies = []metrics.PSU{{Name: "psu", Health: health}}
	}

	if chassis != nil {
		if chassis.IntrusionDetected {
			d.security.ChassisIntrusion = true
		}
		d.security.PowerFault = chassis.PowerFault
		d.security.DriveFault = chassis.DriveFault
	}

	return d
}

func statusOK(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "ok") || strings.Contains(s, "inactive") || s == "ns"
}
