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

package metrics

// SensorKind is the declared type of an appliance sensor.
type SensorKind string

const (
	SensorTemperature SensorKind = "temperature"
	SensorFan         SensorKind = "fan"
	SensorVoltage     SensorKind = "voltage"
	SensorPower       SensorKind = "power"
	SensorStatus      SensorKind = "status"
)

// SensorReading is one normalized appliance sensor row. Immutable per poll
// cycle. A reading the appliance reports as "not available" carries
// Available=false and a zero Value; aggregation must treat it as absent,
// never as a numeric error.
type SensorReading struct {
	Name      string     `json:"name" yaml:"name"`
	Kind      SensorKind `json:"kind" yaml:"kind"`
	Value     float64    `json:"value" yaml:"value"`
	Available bool       `json:"available" yaml:"available"`
	Unit      string     `json:"unit,omitempty" yaml:"unit,omitempty"`
	Status    string     `json:"status,omitempty" yaml:"status,omitempty"`
}

// Chassis is the appliance chassis summary returned by the out-of-band
// chassis query.
type Chassis struct {
	IntrusionDetected bool `json:"intrusionDetected" yaml:"intrusionDetected"`
	PowerFault        bool `json:"powerFault" yaml:"powerFault"`
	DriveFault        bool `json:"driveFault" yaml:"driveFault"`
	CoolingFault      bool `json:"coolingFault" yaml:"coolingFault"`
}
