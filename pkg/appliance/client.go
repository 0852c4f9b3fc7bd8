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
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rackpulse/rackpulse/pkg/config"
	apperrors "github.com/rackpulse/rackpulse/pkg/errors"
	"github.com/rackpulse/rackpulse/pkg/metrics"
	"github.com/rackpulse/rackpulse/pkg/version"
)

// Client maintains exactly one live connection to the remote appliance and
// keeps its local caches current. It is explicitly constructed and owned by
// the caller; there is no process-wide singleton.
//
// Concurrency contract: message processing is sequential per connection
// (one reader goroutine). The cached fragments are swapped atomically and
// are safe for the collector to read at any time without blocking the
// connection.
type Client struct {
	cfg *config.Config

	mu          sync.Mutex // guards the fields below
	state       State
	conn        *websocket.Conn
	pending     map[string]chan envelope
	hostname    string
	osVersion   string
	lastAuthErr string
	lastPushAt  time.Time
	lastPollAt  time.Time
	readings    []metrics.SensorReading
	chassis     *metrics.Chassis

	writeMu sync.Mutex // serializes frame writes

	// Single-writer caches read by the collector tick.
	realtime atomic.Pointer[metrics.Fragment]
	sensors  atomic.Pointer[metrics.Fragment]
	meta     atomic.Pointer[metrics.Meta]
}

// New creates a client for the configured appliance endpoint. The client is
// inert until Run is called.
func New(cfg *config.Config) *Client {
	return &Client{
		cfg:   cfg,
		state: StateDisconnected,
	}
}

// Configured reports whether an appliance endpoint is set. An unconfigured
// appliance is not an error: its fragment is simply absent and the merge
// layer falls back to local values.
func (c *Client) Configured() bool {
	return c.cfg.ApplianceURL != ""
}

// Run dials the appliance and keeps the connection alive until the context
// is cancelled, re-dialing after the fixed reconnect delay whenever the
// session ends.
func (c *Client) Run(ctx context.Context) error {
	if !c.Configured() {
		slog.Info("appliance endpoint not configured, source disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			slog.Warn("appliance session ended",
				"endpoint", c.cfg.ApplianceURL,
				"error", err,
				"retryIn", c.cfg.ReconnectDelay.String())
		}

		reconnectsTotal.Inc()
		timer := time.NewTimer(c.cfg.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// session runs one full connection lifecycle: dial, handshake, authenticate,
// identify, subscribe, poll, then read until the transport drops.
func (c *Client) session(ctx context.Context) error {
	c.setState(StateConnecting)

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.CallTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.ApplianceURL, nil)
	if err != nil {
		c.setState(StateDisconnected)
		return apperrors.Wrap(apperrors.ErrCodeTransport, "appliance dial failed", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.pending = make(map[string]chan envelope)
	c.mu.Unlock()
	defer c.teardown()

	// Unblock the blocking read when the parent context is cancelled.
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-sessionCtx.Done()
		_ = conn.Close()
	}()

	readerDone := make(chan error, 1)
	go func() { readerDone <- c.readLoop(conn) }()

	// Protocol-version handshake. The server accepts it unconditionally;
	// no ack is awaited before authenticating.
	if err := c.write(conn, envelope{
		Msg:     msgConnect,
		Version: protocolVersion,
		Support: []string{protocolVersion},
	}); err != nil {
		return err
	}
	c.setState(StateHandshakeSent)

	c.setState(StateAuthenticating)
	cred := resolveCredential(c.cfg.ApplianceToken, c.cfg.ApplianceAuthKind)
	if _, err := c.call(sessionCtx, cred.method, cred.params, ""); err != nil {
		// Terminal until the next reconnect: the credential form is not
		// retried differently on the same connection.
		authFailuresTotal.Inc()
		c.mu.Lock()
		c.lastAuthErr = err.Error()
		c.mu.Unlock()
		slog.Error("appliance authentication failed", "method", cred.method, "error", err)
		return apperrors.Wrap(apperrors.ErrCodeUnauthorized, "authentication rejected", err)
	}
	c.setState(StateAuthenticated)
	c.mu.Lock()
	c.lastAuthErr = ""
	c.mu.Unlock()

	c.identify(sessionCtx)

	if err := c.write(conn, envelope{
		Msg:  msgSub,
		ID:   uuid.NewString(),
		Name: collectionRealtime,
	}); err != nil {
		return err
	}
	c.setState(StateSubscribed)
	slog.Info("appliance connected", "endpoint", c.cfg.ApplianceURL, "hostname", c.Status().Hostname)

	// The poll sub-loop lives and dies with this connection: cancelling
	// here is synchronous with connection loss, so no request is ever
	// issued on a dead connection.
	pollCtx, pollCancel := context.WithCancel(sessionCtx)
	go c.pollLoop(pollCtx)

	err = <-readerDone
	pollCancel()
	return err
}

// identify resolves the canonical hostname and host metadata. Failure is
// tolerable: local metadata stands until the next attempt.
func (c *Client) identify(ctx context.Context) {
	raw, err := c.call(ctx, methodSystemInfo, nil, "")
	if err != nil {
		slog.Warn("host identity query failed", "error", err)
		return
	}
	var info systemInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		droppedMessagesTotal.Inc()
		slog.Warn("malformed system info dropped", "error", err)
		return
	}
	c.mu.Lock()
	c.hostname = info.Hostname
	c.osVersion = info.Version
	c.mu.Unlock()
	c.meta.Store(&metrics.Meta{
		Hostname:  info.Hostname,
		OS:        info.Version,
		UptimeSec: info.UptimeSec,
	})
	c.checkReleaseSupport(info.Version)
}

// minSupportedRelease is the oldest appliance release known to speak the
// realtime subscription dialect this client depends on.
var minSupportedRelease = version.NewVersion(12, 0, 0)

// checkReleaseSupport warns when the appliance release predates the
// supported protocol. Unparseable strings are logged, never fatal.
func (c *Client) checkReleaseSupport(release string) {
	v, ok := parseRelease(release)
	if !ok {
		slog.Warn("unparseable appliance release", "release", release)
		return
	}
	if !v.EqualsOrNewer(minSupportedRelease) {
		slog.Warn("appliance release predates supported protocol",
			"release", release,
			"parsed", v.String(),
			"minSupported", minSupportedRelease.String())
	}
}

// parseRelease extracts the numeric core out of a vendor release string
// such as "TrueNAS-13.0-U5.3" or "SCALE-24.04".
func parseRelease(release string) (version.Version, bool) {
	start := strings.IndexFunc(release, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return version.Version{}, false
	}
	v, err := version.ParseVersion(release[start:])
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}

// readLoop processes inbound frames sequentially until the transport fails.
func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeTransport, "appliance connection closed", err)
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			droppedMessagesTotal.Inc()
			slog.Warn("malformed appliance message dropped", "error", err)
			continue
		}
		c.handle(conn, env)
	}
}

// handle dispatches one inbound frame. Malformed or unexpected frames are
// logged and dropped, never fatal.
func (c *Client) handle(conn *websocket.Conn, env envelope) {
	switch env.Msg {
	case msgPing:
		// Liveness probe: echo immediately, correlated by request id,
		// or the server closes the connection.
		if err := c.write(conn, envelope{Msg: msgPong, ID: env.ID}); err != nil {
			slog.Warn("keepalive echo failed", "error", err)
		}

	case msgResult:
		c.mu.Lock()
		ch := c.pending[env.ID]
		delete(c.pending, env.ID)
		c.mu.Unlock()
		if ch == nil {
			droppedMessagesTotal.Inc()
			slog.Debug("uncorrelated result dropped", "id", env.ID)
			return
		}
		ch <- env

	case msgAdded, msgChanged:
		if env.Collection != collectionRealtime {
			slog.Debug("update for unknown collection dropped", "collection", env.Collection)
			return
		}
		c.applyRealtime(env.Fields)

	case msgConnected, msgReady:
		slog.Debug("appliance protocol message", "msg", env.Msg, "session", env.Session)

	case msgFailed:
		slog.Warn("appliance rejected protocol version", "version", env.Version)

	default:
		droppedMessagesTotal.Inc()
		slog.Debug("unknown appliance message dropped", "msg", env.Msg)
	}
}

// applyRealtime maps a push update into the realtime fragment and swaps the
// cache. Pushes are never buffered: the latest one wins.
func (c *Client) applyRealtime(fields json.RawMessage) {
	var f realtimeFields
	if err := json.Unmarshal(fields, &f); err != nil {
		droppedMessagesTotal.Inc()
		slog.Warn("malformed realtime update dropped", "error", err)
		return
	}
	pushUpdatesTotal.Inc()

	frag := &metrics.Fragment{Source: metrics.SourceAppliance}

	if len(f.CPU.CoreLoads) > 0 {
		frag.CPU = &metrics.CPU{
			UtilizationPct: f.CPU.UsagePct,
			PerCoreLoad:    append([]float64(nil), f.CPU.CoreLoads...),
			Cores:          len(f.CPU.CoreLoads),
			Origin:         metrics.CPUOrigin{Utilization: metrics.SourceAppliance},
		}
	}

	if f.Memory.Total > 0 {
		frag.Memory = &metrics.Memory{
			TotalBytes:     f.Memory.Total,
			UsedBytes:      f.Memory.Used,
			CachedBytes:    f.Memory.Cached,
			SwapTotalBytes: f.Memory.SwapTotal,
			SwapUsedBytes:  f.Memory.SwapUsed,
			Origin:         metrics.SourceAppliance,
		}
	}

	if len(f.Interfaces) > 0 {
		names := make([]string, 0, len(f.Interfaces))
		for name := range f.Interfaces {
			names = append(names, name)
		}
		sort.Strings(names)

		net := &metrics.Network{}
		for _, name := range names {
			iface := f.Interfaces[name]
			net.Interfaces = append(net.Interfaces, metrics.Interface{
				Name:          name,
				LinkUp:        iface.LinkState == "up" || iface.LinkState == "LINK_STATE_UP",
				SpeedMbps:     iface.SpeedMbps,
				RxBytesPerSec: iface.RxBps,
				TxBytesPerSec: iface.TxBps,
				Origin:        metrics.SourceAppliance,
			})
		}
		frag.Network = net
	}

	c.realtime.Store(frag)
	c.mu.Lock()
	c.lastPushAt = time.Now()
	c.mu.Unlock()
}

// call issues one correlated method request and waits for its result. The
// id prefix lets independent sub-loops tag their requests.
func (c *Client) call(ctx context.Context, method string, params []any, idPrefix string) (json.RawMessage, error) {
	id := idPrefix + uuid.NewString()

	c.mu.Lock()
	conn := c.conn
	if conn == nil || c.pending == nil {
		c.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrCodeTransport, "not connected")
	}
	ch := make(chan envelope, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	unregister := func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	if err := c.write(conn, envelope{Msg: msgMethod, ID: id, Method: method, Params: params}); err != nil {
		unregister()
		return nil, err
	}

	timer := time.NewTimer(c.cfg.CallTimeout)
	defer timer.Stop()

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeTransport, "connection closed awaiting result")
		}
		if reply.Error != nil {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInternal, reply.Error.String(),
				map[string]any{"method": method})
		}
		return reply.Result, nil
	case <-timer.C:
		unregister()
		return nil, apperrors.NewWithContext(apperrors.ErrCodeTimeout, "method call timed out",
			map[string]any{"method": method})
	case <-ctx.Done():
		unregister()
		return nil, ctx.Err()
	}
}

// write sends one frame. Frame writes are serialized: the reader's pong
// echoes and the sub-loops share the connection.
func (c *Client) write(conn *websocket.Conn, env envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.CallTimeout))
	if err := conn.WriteJSON(env); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeTransport, "write failed", err)
	}
	return nil
}

// teardown resets connection-scoped state and fails outstanding calls.
func (c *Client) teardown() {
	c.mu.Lock()
	conn := c.conn
	pending := c.pending
	c.conn = nil
	c.pending = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	stateGauge.Set(float64(StateDisconnected))
	if conn != nil {
		_ = conn.Close()
	}
	for _, ch := range pending {
		close(ch)
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	stateGauge.Set(float64(s))
}

// State returns the current state machine position.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns an immutable copy of the connection state for readers
// outside the client.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:       c.state,
		StateName:   c.state.String(),
		Hostname:    c.hostname,
		Version:     c.osVersion,
		LastPushAt:  c.lastPushAt,
		LastPollAt:  c.lastPollAt,
		LastAuthErr: c.lastAuthErr,
	}
}

// Fragment assembles the client's current cached view as one immutable
// fragment: push-derived CPU/memory/network, poll-derived power,
// environment, and security, and the identity metadata. It never performs a
// network round-trip. The second return is false when no data has been
// received yet.
func (c *Client) Fragment() (*metrics.Fragment, bool) {
	rt := c.realtime.Load()
	sn := c.sensors.Load()
	if rt == nil && sn == nil {
		return nil, false
	}

	frag := &metrics.Fragment{Source: metrics.SourceAppliance}
	if meta := c.meta.Load(); meta != nil {
		m := *meta
		frag.Meta = &m
	}

	if rt != nil {
		frag.CPU = rt.CPU
		frag.Memory = rt.Memory
		frag.Network = rt.Network
	}
	if sn != nil {
		frag.Power = sn.Power
		frag.Environment = sn.Environment
		frag.Security = sn.Security

		// The sensor poll contributes the package temperature to the CPU
		// region: combine it with push-derived load without mutating
		// either cached fragment.
		if sn.CPU != nil {
			if frag.CPU == nil {
				frag.CPU = sn.CPU
			} else {
				cpu := *frag.CPU
				cpu.TemperatureC = sn.CPU.TemperatureC
				cpu.Origin.Temperature = sn.CPU.Origin.Temperature
				frag.CPU = &cpu
			}
		}
	}
	return frag, true
}
