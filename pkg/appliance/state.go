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

import "time"

// State is the connection state machine position.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateHandshakeSent
	StateAuthenticating
	StateAuthenticated
	StateSubscribed
)

var stateNames = map[State]string{
	StateDisconnected:   "disconnected",
	StateConnecting:     "connecting",
	StateHandshakeSent:  "handshake_sent",
	StateAuthenticating: "authenticating",
	StateAuthenticated:  "authenticated",
	StateSubscribed:     "subscribed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Authenticated reports whether the state machine has passed
// authentication on the current connection.
func (s State) Authenticated() bool {
	return s >= StateAuthenticated
}

// Status is an immutable copy of the connection state, safe to hand to
// readers outside the client. Only the protocol client mutates the
// underlying fields.
type Status struct {
	State       State     `json:"-" yaml:"-"`
	StateName   string    `json:"state" yaml:"state"`
	Hostname    string    `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Version     string    `json:"version,omitempty" yaml:"version,omitempty"`
	LastPushAt  time.Time `json:"lastPushAt,omitzero" yaml:"lastPushAt,omitempty"`
	LastPollAt  time.Time `json:"lastPollAt,omitzero" yaml:"lastPollAt,omitempty"`
	LastAuthErr string    `json:"lastAuthErr,omitempty" yaml:"lastAuthErr,omitempty"`
}
