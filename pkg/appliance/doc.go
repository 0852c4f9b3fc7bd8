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

// Package appliance implements the stateful protocol client for the remote
// storage appliance's management RPC channel.
//
// # Connection lifecycle
//
// The client owns exactly one persistent websocket connection and walks a
// connect, authenticate, subscribe state machine over it:
//
//	Disconnected -> Connecting -> HandshakeSent -> Authenticating ->
//	Authenticated -> Subscribed
//
// Any state transitions back to Disconnected on transport error or closure,
// which schedules a reconnect after a fixed delay. There is no exponential
// backoff: the engine favors fast recovery, accepting repeated failed
// attempts as tolerable load.
//
// # Data paths
//
// Two asynchronous paths keep the client's caches current. The realtime
// subscription pushes CPU, memory, and interface counters, mapped into a
// fragment immediately on receipt. An independent poll sub-loop issues
// chassis and sensor queries on a fixed cadence while authenticated,
// re-deriving the power, environment, and security fragment from each
// response. The collector reads the combined cached fragment synchronously;
// it never waits on an in-flight round-trip.
//
// # Sensor classification
//
// Raw sensor rows are classified into semantic buckets (power draw, voltage
// rails, PSU health, fans, temperatures) by name-substring heuristics kept
// as pure functions in this package, so vendor naming drift can be patched
// without touching connection or merge logic.
package appliance
