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

import "encoding/json"

// Message kinds of the appliance wire dialect. All traffic is JSON-object
// framed over one persistent bidirectional channel.
const (
	msgConnect   = "connect"
	msgConnected = "connected"
	msgFailed    = "failed"
	msgMethod    = "method"
	msgResult    = "result"
	msgSub       = "sub"
	msgReady     = "ready"
	msgAdded     = "added"
	msgChanged   = "changed"
	msgPing      = "ping"
	msgPong      = "pong"
)

// Protocol version sent in the connect handshake. The server is expected to
// accept it unconditionally; no explicit ack is required before the next
// step.
const protocolVersion = "1"

// RPC methods.
const (
	methodLoginAPIKey   = "auth.login_with_api_key"
	methodLoginPassword = "auth.login"
	methodSystemInfo    = "system.info"
	methodChassisQuery  = "ipmi.chassis.query"
	methodSensorsQuery  = "ipmi.sensors.query"
)

// Subscription feeds.
const collectionRealtime = "reporting.realtime"

// Request-id prefixes used to correlate the two independent poll queries.
const (
	idPrefixChassis = "chassis-"
	idPrefixSensors = "sensors-"
)

// envelope is the single wire frame: the Msg field discriminates the kind,
// all other fields are kind-specific.
type envelope struct {
	Msg        string          `json:"msg"`
	ID         string          `json:"id,omitempty"`
	Version    string          `json:"version,omitempty"`
	Support    []string        `json:"support,omitempty"`
	Session    string          `json:"session,omitempty"`
	Method     string          `json:"method,omitempty"`
	Params     []any           `json:"params,omitempty"`
	Name       string          `json:"name,omitempty"`
	Collection string          `json:"collection,omitempty"`
	Fields     json.RawMessage `json:"fields,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      *rpcError       `json:"error,omitempty"`
}

// rpcError is the error object attached to failed results.
type rpcError struct {
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (e *rpcError) String() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return e.Name + ": " + e.Reason
	}
	return e.Name
}

// realtimeFields is the bag of fields carried by a realtime push update.
type realtimeFields struct {
	CPU struct {
		UsagePct  float64   `json:"usage_percent"`
		CoreLoads []float64 `json:"core_loads"`
	} `json:"cpu"`
	Memory struct {
		Total     uint64 `json:"total"`
		Used      uint64 `json:"used"`
		Cached    uint64 `json:"cached"`
		SwapTotal uint64 `json:"swap_total"`
		SwapUsed  uint64 `json:"swap_used"`
	} `json:"memory"`
	Interfaces map[string]realtimeInterface `json:"interfaces"`
}

type realtimeInterface struct {
	LinkState string  `json:"link_state"`
	SpeedMbps int     `json:"speed"`
	RxBps     float64 `json:"received_bytes_rate"`
	TxBps     float64 `json:"sent_bytes_rate"`
}

// systemInfo is the result of the host-identity query issued right after
// authentication.
type systemInfo struct {
	Hostname  string `json:"hostname"`
	Version   string `json:"version"`
	UptimeSec uint64 `json:"uptime_seconds"`
}

// sensorRow is one raw vendor sensor entry. Value is a numeric string, or a
// not-available marker such as "na" or "no reading".
type sensorRow struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Value  string `json:"value"`
	Unit   string `json:"unit"`
	Status string `json:"status"`
}

// chassisInfo is the result of the chassis query. Fault indicators follow
// the vendor's active/inactive string convention.
type chassisInfo struct {
	Intrusion    string `json:"intrusion"`
	PowerFault   string `json:"power_fault"`
	DriveFault   string `json:"drive_fault"`
	CoolingFault string `json:"cooling_fault"`
}

func chassisFlag(v string) bool {
	return v == "active" || v == "true" || v == "asserted"
}
